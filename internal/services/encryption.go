package services

import (
	"hard75/internal/crypto"
	"hard75/internal/models"
)

// EncryptionService wraps the crypto cipher with user-specific methods.
// Email, address and city are encrypted at rest; the email additionally
// carries a blind index so logins and sync lookups can find the row.
type EncryptionService struct {
	cipher *crypto.Cipher
}

// NewEncryptionService creates a new encryption service.
func NewEncryptionService(encryptionKey, blindIndexKey []byte) (*EncryptionService, error) {
	cipher, err := crypto.NewCipher(encryptionKey, blindIndexKey)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: cipher}, nil
}

// EncryptUser encrypts sensitive user fields before storing in DB.
func (s *EncryptionService) EncryptUser(user *models.User) error {
	encrypted, err := s.cipher.Encrypt(user.Email)
	if err != nil {
		return err
	}
	user.EmailBlindIndex = s.cipher.BlindIndex(user.Email)
	user.Email = encrypted

	if user.Address, err = s.cipher.Encrypt(user.Address); err != nil {
		return err
	}
	if user.City, err = s.cipher.Encrypt(user.City); err != nil {
		return err
	}
	return nil
}

// DecryptUser decrypts sensitive user fields after retrieving from DB.
func (s *EncryptionService) DecryptUser(user *models.User) error {
	var err error
	if user.Email, err = s.cipher.Decrypt(user.Email); err != nil {
		return err
	}
	if user.Address, err = s.cipher.Decrypt(user.Address); err != nil {
		return err
	}
	if user.City, err = s.cipher.Decrypt(user.City); err != nil {
		return err
	}
	return nil
}

// EmailBlindIndex generates a blind index for email lookup.
func (s *EncryptionService) EmailBlindIndex(email string) string {
	return s.cipher.BlindIndex(email)
}
