package models

import "time"

type User struct {
	ID              int       `db:"id" json:"id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Email           string    `db:"email" json:"email"`         // Encrypted in DB
	EmailBlindIndex string    `db:"email_blind_index" json:"-"` // HMAC hash for searching
	PasswordHash    string    `db:"password_hash" json:"-"`
	Address         string    `db:"address" json:"address"` // Encrypted in DB
	City            string    `db:"city" json:"city"`       // Encrypted in DB
	Height          int       `db:"height" json:"height"`
	WeightLost      float64   `db:"weight_lost" json:"weight_lost"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// DayRecord is one row per (user, day number) of the 75-day program.
// Completed is a cache of the completion predicate over the other task
// fields and is recomputed on every write; it is never the source of truth.
type DayRecord struct {
	DayNumber          int      `db:"day_number" json:"day_number" firestore:"dayNumber"`
	UserID             int      `db:"user_id" json:"user_id" firestore:"-"`
	Completed          bool     `db:"completed" json:"completed" firestore:"-"`
	Diet               bool     `db:"diet" json:"diet" firestore:"diet"`
	Reading            bool     `db:"reading" json:"reading" firestore:"reading"`
	NoAlcohol          bool     `db:"no_alcohol" json:"no_alcohol" firestore:"noAlcohol"`
	WaterIntake        float64  `db:"water_intake" json:"water_intake" firestore:"waterIntake"`
	ProgressPictureURL *string  `db:"progress_picture_url" json:"progress_picture_url,omitempty" firestore:"progressPictureUrl"`
	Weight             *float64 `db:"weight" json:"weight,omitempty" firestore:"weight"`
	IndoorWorkout      *Workout `db:"indoor_workout" json:"indoor_workout,omitempty" firestore:"indoorWorkout"`
	OutdoorWorkout     *Workout `db:"outdoor_workout" json:"outdoor_workout,omitempty" firestore:"outdoorWorkout"`
}

// Workout holds the metrics captured by the client for one workout session.
// The contents are opaque to the progress logic; only presence matters.
type Workout struct {
	Duration         string  `json:"duration" firestore:"duration"`
	MaxSpeed         float64 `json:"max_speed" firestore:"maxSpeed"`
	Pace             string  `json:"pace" firestore:"pace"`
	CaloriesBurned   int     `json:"calories_burned" firestore:"caloriesBurned"`
	Distance         float64 `json:"distance" firestore:"distance"`
	AverageHeartRate int     `json:"average_heart_rate" firestore:"averageHeartRate"`
	MaxAcceleration  float64 `json:"max_acceleration" firestore:"maxAcceleration"`
	Steps            int     `json:"steps" firestore:"steps"`
}

// ProgressPicture is a day number paired with its progress photo reference.
type ProgressPicture struct {
	DayNumber int    `db:"day_number" json:"day_number"`
	URL       string `db:"progress_picture_url" json:"url"`
}
