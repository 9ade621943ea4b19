package models

import "time"

// QuizResult records the outcome of one finished quiz session.
type QuizResult struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Mode      string    `json:"mode" db:"mode"`
	Direction string    `json:"direction" db:"direction"`
	Level     int       `json:"level" db:"level"`
	Total     int       `json:"total" db:"total"`
	Correct   int       `json:"correct" db:"correct"`
	TakenAt   time.Time `json:"taken_at" db:"taken_at"`
}
