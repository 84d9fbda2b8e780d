package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hard75/internal/models"
	"hard75/internal/services"
)

// Postgres implements DayStore, UserStore and PrefStore on top of sqlx.
// User rows are encrypted and decrypted transparently, so callers always
// see plaintext profiles; email lookups go through the blind index column.
type Postgres struct {
	db  *sqlx.DB
	enc *services.EncryptionService
}

// NewPostgres wraps an open connection.
func NewPostgres(db *sqlx.DB, enc *services.EncryptionService) *Postgres {
	return &Postgres{db: db, enc: enc}
}

const dayColumns = `day_number, user_id, completed, diet, reading, no_alcohol, water_intake, progress_picture_url, weight, indoor_workout, outdoor_workout`

// dayRow carries the raw row shape; the workout JSONB columns come back as
// bytes and are unmarshalled separately so NULL maps to an absent block.
type dayRow struct {
	models.DayRecord
	IndoorRaw  []byte `db:"indoor_workout"`
	OutdoorRaw []byte `db:"outdoor_workout"`
}

func (r *dayRow) toRecord() (models.DayRecord, error) {
	rec := r.DayRecord
	if len(r.IndoorRaw) > 0 {
		rec.IndoorWorkout = &models.Workout{}
		if err := json.Unmarshal(r.IndoorRaw, rec.IndoorWorkout); err != nil {
			return rec, fmt.Errorf("decode indoor workout: %w", err)
		}
	}
	if len(r.OutdoorRaw) > 0 {
		rec.OutdoorWorkout = &models.Workout{}
		if err := json.Unmarshal(r.OutdoorRaw, rec.OutdoorWorkout); err != nil {
			return rec, fmt.Errorf("decode outdoor workout: %w", err)
		}
	}
	return rec, nil
}

func marshalWorkout(w *models.Workout) (any, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}

func (p *Postgres) Day(ctx context.Context, userID, dayNumber int) (*models.DayRecord, error) {
	var row dayRow
	err := p.db.GetContext(ctx, &row,
		`SELECT `+dayColumns+` FROM day_records WHERE user_id=$1 AND day_number=$2`, userID, dayNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec, err := row.toRecord()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (p *Postgres) AllForUser(ctx context.Context, userID int) ([]models.DayRecord, error) {
	var rows []dayRow
	err := p.db.SelectContext(ctx, &rows,
		`SELECT `+dayColumns+` FROM day_records WHERE user_id=$1 ORDER BY day_number`, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.DayRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (p *Postgres) Upsert(ctx context.Context, rec models.DayRecord) error {
	indoor, err := marshalWorkout(rec.IndoorWorkout)
	if err != nil {
		return err
	}
	outdoor, err := marshalWorkout(rec.OutdoorWorkout)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO day_records
		(user_id, day_number, completed, diet, reading, no_alcohol, water_intake, progress_picture_url, weight, indoor_workout, outdoor_workout)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, day_number) DO UPDATE SET
			completed = EXCLUDED.completed,
			diet = EXCLUDED.diet,
			reading = EXCLUDED.reading,
			no_alcohol = EXCLUDED.no_alcohol,
			water_intake = EXCLUDED.water_intake,
			progress_picture_url = EXCLUDED.progress_picture_url,
			weight = EXCLUDED.weight,
			indoor_workout = EXCLUDED.indoor_workout,
			outdoor_workout = EXCLUDED.outdoor_workout`,
		rec.UserID, rec.DayNumber, rec.Completed, rec.Diet, rec.Reading, rec.NoAlcohol,
		rec.WaterIntake, rec.ProgressPictureURL, rec.Weight, indoor, outdoor)
	return err
}

func (p *Postgres) UpdateWeight(ctx context.Context, userID, dayNumber int, weight float64) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO day_records (user_id, day_number, weight)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, day_number) DO UPDATE SET weight = EXCLUDED.weight`,
		userID, dayNumber, weight)
	return err
}

func (p *Postgres) ProgressPictures(ctx context.Context, userID int) ([]models.ProgressPicture, error) {
	var out []models.ProgressPicture
	err := p.db.SelectContext(ctx, &out,
		`SELECT day_number, progress_picture_url FROM day_records
		 WHERE user_id=$1 AND progress_picture_url IS NOT NULL ORDER BY day_number`, userID)
	return out, err
}

func (p *Postgres) DeleteForUser(ctx context.Context, userID int) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM day_records WHERE user_id=$1`, userID)
	return err
}

const userColumns = `id, first_name, last_name, email, email_blind_index, password_hash, address, city, height, weight_lost, created_at`

func (p *Postgres) ByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := p.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := p.enc.DecryptUser(&u); err != nil {
		return nil, fmt.Errorf("decrypt user %d: %w", id, err)
	}
	return &u, nil
}

func (p *Postgres) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := p.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email_blind_index=$1`, p.enc.EmailBlindIndex(email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := p.enc.DecryptUser(&u); err != nil {
		return nil, fmt.Errorf("decrypt user by email: %w", err)
	}
	return &u, nil
}

func (p *Postgres) EmailByID(ctx context.Context, id int) (string, error) {
	u, err := p.ByID(ctx, id)
	if err != nil || u == nil {
		return "", err
	}
	return u.Email, nil
}

func (p *Postgres) Insert(ctx context.Context, u *models.User) error {
	enc := *u
	if err := p.enc.EncryptUser(&enc); err != nil {
		return err
	}
	return p.db.QueryRowxContext(ctx, `INSERT INTO users
		(first_name, last_name, email, email_blind_index, password_hash, address, city, height, weight_lost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		enc.FirstName, enc.LastName, enc.Email, enc.EmailBlindIndex, enc.PasswordHash,
		enc.Address, enc.City, enc.Height, enc.WeightLost).Scan(&u.ID, &u.CreatedAt)
}

func (p *Postgres) Update(ctx context.Context, u *models.User) error {
	enc := *u
	if err := p.enc.EncryptUser(&enc); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx, `UPDATE users SET
		first_name=$1, last_name=$2, email=$3, email_blind_index=$4, password_hash=$5,
		address=$6, city=$7, height=$8, weight_lost=$9 WHERE id=$10`,
		enc.FirstName, enc.LastName, enc.Email, enc.EmailBlindIndex, enc.PasswordHash,
		enc.Address, enc.City, enc.Height, enc.WeightLost, u.ID)
	return err
}

func (p *Postgres) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := p.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, err
	}
	for i := range users {
		if err := p.enc.DecryptUser(&users[i]); err != nil {
			return nil, fmt.Errorf("decrypt user %d: %w", users[i].ID, err)
		}
	}
	return users, nil
}

func (p *Postgres) Get(ctx context.Context, userID int, namespace, key string) (string, bool, error) {
	var value string
	err := p.db.GetContext(ctx, &value,
		`SELECT value FROM preferences WHERE user_id=$1 AND namespace=$2 AND key=$3`, userID, namespace, key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, userID int, namespace, key, value string) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO preferences (user_id, namespace, key, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, namespace, key) DO UPDATE SET value = EXCLUDED.value`,
		userID, namespace, key, value)
	return err
}

func (p *Postgres) Clear(ctx context.Context, userID int, namespace string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM preferences WHERE user_id=$1 AND namespace=$2`, userID, namespace)
	return err
}
