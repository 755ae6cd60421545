package slog_test

import (
	"bytes"
	"context"
	"iter"
	stdslog "log/slog"
	"testing"

	"github.com/fwojciec/qbank"
	"github.com/fwojciec/qbank/mock"
	qbankslog "github.com/fwojciec/qbank/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *stdslog.Logger {
	return stdslog.New(stdslog.NewTextHandler(buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug}))
}

func TestLoggingInteractionService(t *testing.T) {
	t.Parallel()

	t.Run("delegates and logs toggles", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		next := &mock.InteractionService{
			ToggleFavoriteFn: func(_ context.Context, userID, questionID string) (bool, error) {
				return true, nil
			},
		}
		s := qbankslog.NewLoggingInteractionService(next, testLogger(&buf))

		favorited, err := s.ToggleFavorite(context.Background(), "u1", "q1")
		require.NoError(t, err)
		assert.True(t, favorited)
		assert.Contains(t, buf.String(), "toggle favorite")
		assert.Contains(t, buf.String(), "user=u1")
	})

	t.Run("errors pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		next := &mock.InteractionService{
			ToggleCompletedFn: func(_ context.Context, _, _ string) (bool, error) {
				return false, qbank.Errorf(qbank.ENOTFOUND, "question not found")
			},
		}
		s := qbankslog.NewLoggingInteractionService(next, testLogger(&buf))

		_, err := s.ToggleCompleted(context.Background(), "u1", "missing")
		assert.Equal(t, qbank.ENOTFOUND, qbank.ErrorCode(err))
		assert.Contains(t, buf.String(), "toggle completed")
	})
}

func TestLoggingScanner(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	next := &mock.Scanner{
		ScanFn: func(ctx context.Context) iter.Seq2[*qbank.SourceDocument, error] {
			return func(yield func(*qbank.SourceDocument, error) bool) {
				yield(&qbank.SourceDocument{ID: "a.md", Text: "body"}, nil)
			}
		},
	}
	s := qbankslog.NewLoggingScanner(next, testLogger(&buf))

	var ids []string
	for doc, err := range s.Scan(context.Background()) {
		require.NoError(t, err)
		ids = append(ids, doc.ID)
	}

	assert.Equal(t, []string{"a.md"}, ids)
	assert.Contains(t, buf.String(), "document read")
	assert.Contains(t, buf.String(), "scan finished")
}
