package database

import (
	"fmt"
	"time"

	"github.com/example/vocabot/pkg/models"
)

// QuizResultRepository handles database operations for session results
type QuizResultRepository struct{}

// NewQuizResultRepository creates a new repository instance
func NewQuizResultRepository() *QuizResultRepository {
	return &QuizResultRepository{}
}

// Create inserts a finished session's result
func (r *QuizResultRepository) Create(result *models.QuizResult) error {
	if result.TakenAt.IsZero() {
		result.TakenAt = time.Now()
	}
	_, err := DB.Exec(DB.Rebind(`
		INSERT INTO quiz_results (user_id, mode, direction, level, total, correct, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`),
		result.UserID, result.Mode, result.Direction, result.Level,
		result.Total, result.Correct, result.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz result: %v", err)
	}
	return nil
}

// GetRecentByUser returns a user's latest results, newest first
func (r *QuizResultRepository) GetRecentByUser(userID int64, limit int) ([]models.QuizResult, error) {
	var results []models.QuizResult
	err := DB.Select(&results, DB.Rebind(`
		SELECT id, user_id, mode, direction, level, total, correct, taken_at
		FROM quiz_results WHERE user_id = ?
		ORDER BY taken_at DESC LIMIT ?
	`), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz results: %v", err)
	}
	return results, nil
}
