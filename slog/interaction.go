package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/qbank"
)

// Ensure LoggingInteractionService implements qbank.InteractionService.
var _ qbank.InteractionService = (*LoggingInteractionService)(nil)

// LoggingInteractionService wraps an InteractionService with logging.
type LoggingInteractionService struct {
	next   qbank.InteractionService
	logger *slog.Logger
}

// NewLoggingInteractionService creates a new LoggingInteractionService.
func NewLoggingInteractionService(next qbank.InteractionService, logger *slog.Logger) *LoggingInteractionService {
	return &LoggingInteractionService{next: next, logger: logger}
}

// ToggleFavorite delegates to the wrapped service and logs the operation.
func (s *LoggingInteractionService) ToggleFavorite(ctx context.Context, userID, questionID string) (favorited bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("toggle favorite",
			"user", userID,
			"question", questionID,
			"favorited", favorited,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ToggleFavorite(ctx, userID, questionID)
}

// ToggleCompleted delegates to the wrapped service and logs the operation.
func (s *LoggingInteractionService) ToggleCompleted(ctx context.Context, userID, questionID string) (completed bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("toggle completed",
			"user", userID,
			"question", questionID,
			"completed", completed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ToggleCompleted(ctx, userID, questionID)
}

// RecordAttempt delegates to the wrapped service and logs the operation.
func (s *LoggingInteractionService) RecordAttempt(ctx context.Context, userID, questionID string) (progress *qbank.Progress, err error) {
	defer func(begin time.Time) {
		attempts := 0
		if progress != nil {
			attempts = progress.Attempts
		}
		s.logger.Info("record attempt",
			"user", userID,
			"question", questionID,
			"attempts", attempts,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.RecordAttempt(ctx, userID, questionID)
}

// Summary delegates to the wrapped service and logs the operation.
func (s *LoggingInteractionService) Summary(ctx context.Context, userID string) (summary *qbank.ProgressSummary, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("progress summary",
			"user", userID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summary(ctx, userID)
}
