package qbank

import (
	"context"
	"time"
)

// Favorite marks a question as favorited by a user. Existence of the
// pair is the flag; rows are created and destroyed by toggling, never
// updated.
type Favorite struct {
	UserID     string    `json:"userId"`
	QuestionID string    `json:"questionId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Progress tracks a user's work on a question. A row with a non-nil
// CompletedAt means the question is completed; a row may exist with
// only attempts recorded.
type Progress struct {
	UserID      string     `json:"userId"`
	QuestionID  string     `json:"questionId"`
	CompletedAt *time.Time `json:"completedAt"`
	Attempts    int        `json:"attempts"`
}

// ProgressSummary aggregates a user's completion state against the
// published catalog.
type ProgressSummary struct {
	CompletedCount int     `json:"completedCount"`
	TotalCount     int     `json:"totalCount"`
	Percent        float64 `json:"percent"`
}

// InteractionService manages per-user favorite and completion state.
//
// Toggles are single atomic conditional writes under the
// (user, question) uniqueness constraint; two racing toggle requests
// converge to exactly one row existing or not. All operations return
// ENOTFOUND for unknown or unpublished questions and write no partial
// state in that case.
type InteractionService interface {
	// ToggleFavorite flips the favorite flag and returns the new state.
	ToggleFavorite(ctx context.Context, userID, questionID string) (favorited bool, err error)

	// ToggleCompleted flips the completion state and returns the new
	// state, creating the progress row on first toggle.
	ToggleCompleted(ctx context.Context, userID, questionID string) (completed bool, err error)

	// RecordAttempt increments the attempt counter, creating the
	// progress row if needed, and returns the updated progress.
	RecordAttempt(ctx context.Context, userID, questionID string) (*Progress, error)

	// Summary returns the user's completion counts against all
	// published questions.
	Summary(ctx context.Context, userID string) (*ProgressSummary, error)
}
