package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func RunMigrations(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL,
    email_blind_index TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    height INTEGER NOT NULL DEFAULT 0,
    weight_lost DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS day_records (
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    day_number INTEGER NOT NULL CHECK (day_number BETWEEN 1 AND 75),
    completed BOOLEAN NOT NULL DEFAULT false,
    diet BOOLEAN NOT NULL DEFAULT false,
    reading BOOLEAN NOT NULL DEFAULT false,
    no_alcohol BOOLEAN NOT NULL DEFAULT false,
    water_intake DOUBLE PRECISION NOT NULL DEFAULT 0,
    progress_picture_url TEXT,
    weight DOUBLE PRECISION,
    indoor_workout JSONB,
    outdoor_workout JSONB,
    PRIMARY KEY (user_id, day_number)
);

CREATE TABLE IF NOT EXISTS preferences (
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    namespace TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (user_id, namespace, key)
);
`
	_, err := db.ExecContext(context.Background(), schema)
	return err
}
