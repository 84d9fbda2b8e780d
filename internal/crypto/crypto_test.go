package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher(
		[]byte("0123456789abcdef0123456789abcdef"),
		[]byte("fedcba9876543210fedcba9876543210"),
	)
	require.NoError(t, err)
	return c
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := testCipher(t)
	ciphertext, err := c.Encrypt("ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "ana@example.com", ciphertext)

	plaintext, err := c.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", plaintext)
}

func TestEmptyStringRoundTripsAsEmpty(t *testing.T) {
	c := testCipher(t)
	out, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBlindIndexIsDeterministic(t *testing.T) {
	c := testCipher(t)
	assert.Equal(t, c.BlindIndex("ana@example.com"), c.BlindIndex("ana@example.com"))
	assert.NotEqual(t, c.BlindIndex("ana@example.com"), c.BlindIndex("ze@example.com"))
}

func TestNewCipherRejectsShortKeys(t *testing.T) {
	_, err := NewCipher([]byte("short"), []byte("fedcba9876543210fedcba9876543210"))
	assert.Error(t, err)
	_, err = NewCipher([]byte("0123456789abcdef0123456789abcdef"), []byte("short"))
	assert.Error(t, err)
}
