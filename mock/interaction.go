package mock

import (
	"context"

	"github.com/fwojciec/qbank"
)

var _ qbank.InteractionService = (*InteractionService)(nil)

// InteractionService is a mock implementation of qbank.InteractionService.
type InteractionService struct {
	ToggleFavoriteFn  func(ctx context.Context, userID, questionID string) (bool, error)
	ToggleCompletedFn func(ctx context.Context, userID, questionID string) (bool, error)
	RecordAttemptFn   func(ctx context.Context, userID, questionID string) (*qbank.Progress, error)
	SummaryFn         func(ctx context.Context, userID string) (*qbank.ProgressSummary, error)
}

func (s *InteractionService) ToggleFavorite(ctx context.Context, userID, questionID string) (bool, error) {
	return s.ToggleFavoriteFn(ctx, userID, questionID)
}

func (s *InteractionService) ToggleCompleted(ctx context.Context, userID, questionID string) (bool, error) {
	return s.ToggleCompletedFn(ctx, userID, questionID)
}

func (s *InteractionService) RecordAttempt(ctx context.Context, userID, questionID string) (*qbank.Progress, error) {
	return s.RecordAttemptFn(ctx, userID, questionID)
}

func (s *InteractionService) Summary(ctx context.Context, userID string) (*qbank.ProgressSummary, error) {
	return s.SummaryFn(ctx, userID)
}
