package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/qbank"
)

// maxToggleRetries bounds transparent retries when two toggle requests
// for the same (user, question) race on the uniqueness constraint.
const maxToggleRetries = 3

// Compile-time interface verification.
var _ qbank.InteractionService = (*InteractionService)(nil)

// InteractionService implements qbank.InteractionService using SQLite.
//
// Toggles are expressed as single conditional statements
// (delete-if-present, insert-if-absent, conditional upsert) under the
// (user_id, question_id) primary keys, never as read-then-write
// sequences.
type InteractionService struct {
	db *DB
}

// NewInteractionService creates a new InteractionService.
func NewInteractionService(db *DB) *InteractionService {
	return &InteractionService{db: db}
}

// requirePublished returns ENOTFOUND unless the question exists and is
// published. Nothing is written on that path.
func (s *InteractionService) requirePublished(ctx context.Context, questionID string) error {
	var published bool
	err := s.db.QueryRowContext(ctx,
		"SELECT published FROM questions WHERE id = ?", questionID).Scan(&published)
	if err == sql.ErrNoRows {
		return qbank.Errorf(qbank.ENOTFOUND, "question not found")
	}
	if err != nil {
		return err
	}
	if !published {
		return qbank.Errorf(qbank.ENOTFOUND, "question not found")
	}
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (s *InteractionService) ToggleFavorite(ctx context.Context, userID, questionID string) (bool, error) {
	if userID == "" {
		return false, qbank.Errorf(qbank.EINVALID, "user ID required")
	}
	if err := s.requirePublished(ctx, questionID); err != nil {
		return false, err
	}

	for range maxToggleRetries {
		result, err := s.db.ExecContext(ctx,
			"DELETE FROM favorites WHERE user_id = ? AND question_id = ?", userID, questionID)
		if err != nil {
			return false, err
		}
		if n, err := result.RowsAffected(); err != nil {
			return false, err
		} else if n > 0 {
			return false, nil
		}

		result, err = s.db.ExecContext(ctx, `
			INSERT INTO favorites (user_id, question_id, created_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id, question_id) DO NOTHING
		`, userID, questionID, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return false, err
		}
		if n, err := result.RowsAffected(); err != nil {
			return false, err
		} else if n > 0 {
			return true, nil
		}

		// A concurrent toggle inserted between our delete and insert;
		// start over.
	}

	return false, qbank.Errorf(qbank.ECONFLICT, "favorite toggle contention for question %q", questionID)
}

// ToggleCompleted flips the completion state and returns the new
// state, creating the progress row on first toggle. The flip is a
// single conditional upsert.
func (s *InteractionService) ToggleCompleted(ctx context.Context, userID, questionID string) (bool, error) {
	if userID == "" {
		return false, qbank.Errorf(qbank.EINVALID, "user ID required")
	}
	if err := s.requirePublished(ctx, questionID); err != nil {
		return false, err
	}

	var completedAt sql.NullString
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO progress (user_id, question_id, completed_at, attempts) VALUES (?, ?, ?, 0)
		ON CONFLICT (user_id, question_id) DO UPDATE
		SET completed_at = CASE WHEN progress.completed_at IS NULL THEN excluded.completed_at ELSE NULL END
		RETURNING completed_at
	`, userID, questionID, time.Now().UTC().Format(time.RFC3339)).Scan(&completedAt)
	if err != nil {
		return false, err
	}

	return completedAt.Valid, nil
}

// RecordAttempt increments the attempt counter, creating the progress
// row if needed. Completion state is untouched.
func (s *InteractionService) RecordAttempt(ctx context.Context, userID, questionID string) (*qbank.Progress, error) {
	if userID == "" {
		return nil, qbank.Errorf(qbank.EINVALID, "user ID required")
	}
	if err := s.requirePublished(ctx, questionID); err != nil {
		return nil, err
	}

	var completedAt sql.NullString
	progress := &qbank.Progress{UserID: userID, QuestionID: questionID}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO progress (user_id, question_id, completed_at, attempts) VALUES (?, ?, NULL, 1)
		ON CONFLICT (user_id, question_id) DO UPDATE SET attempts = progress.attempts + 1
		RETURNING completed_at, attempts
	`, userID, questionID).Scan(&completedAt, &progress.Attempts)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t, err := parseRFC3339(completedAt.String, "completed_at")
		if err != nil {
			return nil, err
		}
		progress.CompletedAt = &t
	}

	return progress, nil
}

// Summary returns the user's completion counts against all published
// questions.
func (s *InteractionService) Summary(ctx context.Context, userID string) (*qbank.ProgressSummary, error) {
	if userID == "" {
		return nil, qbank.Errorf(qbank.EINVALID, "user ID required")
	}

	summary := &qbank.ProgressSummary{}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM questions WHERE published = 1").Scan(&summary.TotalCount)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM progress p
		JOIN questions q ON q.id = p.question_id
		WHERE p.user_id = ? AND p.completed_at IS NOT NULL AND q.published = 1
	`, userID).Scan(&summary.CompletedCount)
	if err != nil {
		return nil, err
	}

	if summary.TotalCount > 0 {
		summary.Percent = 100 * float64(summary.CompletedCount) / float64(summary.TotalCount)
	}

	return summary, nil
}
