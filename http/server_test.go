package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/qbank"
	qbankhttp "github.com/fwojciec/qbank/http"
	"github.com/fwojciec/qbank/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer wires a Server to mocks behind an httptest server.
func testServer(t *testing.T, configure func(s *qbankhttp.Server)) *httptest.Server {
	t.Helper()
	s := qbankhttp.NewServer()
	configure(s)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, userID string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_ToggleFavorite(t *testing.T) {
	t.Parallel()

	t.Run("returns the new state", func(t *testing.T) {
		t.Parallel()

		var gotUser, gotQuestion string
		ts := testServer(t, func(s *qbankhttp.Server) {
			s.InteractionService = &mock.InteractionService{
				ToggleFavoriteFn: func(_ context.Context, userID, questionID string) (bool, error) {
					gotUser, gotQuestion = userID, questionID
					return true, nil
				},
			}
		})

		var body map[string]bool
		status := doJSON(t, http.MethodPost, ts.URL+"/favorites/q1", "u1", &body)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, map[string]bool{"favorited": true}, body)
		assert.Equal(t, "u1", gotUser)
		assert.Equal(t, "q1", gotQuestion)
	})

	t.Run("requires identity", func(t *testing.T) {
		t.Parallel()

		ts := testServer(t, func(s *qbankhttp.Server) {
			s.InteractionService = &mock.InteractionService{}
		})

		status := doJSON(t, http.MethodPost, ts.URL+"/favorites/q1", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("maps unknown questions to 404", func(t *testing.T) {
		t.Parallel()

		ts := testServer(t, func(s *qbankhttp.Server) {
			s.InteractionService = &mock.InteractionService{
				ToggleFavoriteFn: func(_ context.Context, _, _ string) (bool, error) {
					return false, qbank.Errorf(qbank.ENOTFOUND, "question not found")
				},
			}
		})

		status := doJSON(t, http.MethodPost, ts.URL+"/favorites/missing", "u1", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("maps exhausted toggle retries to 409", func(t *testing.T) {
		t.Parallel()

		ts := testServer(t, func(s *qbankhttp.Server) {
			s.InteractionService = &mock.InteractionService{
				ToggleFavoriteFn: func(_ context.Context, _, _ string) (bool, error) {
					return false, qbank.Errorf(qbank.ECONFLICT, "toggle contention")
				},
			}
		})

		status := doJSON(t, http.MethodPost, ts.URL+"/favorites/q1", "u1", nil)
		assert.Equal(t, http.StatusConflict, status)
	})
}

func TestServer_ToggleCompleted(t *testing.T) {
	t.Parallel()

	ts := testServer(t, func(s *qbankhttp.Server) {
		s.InteractionService = &mock.InteractionService{
			ToggleCompletedFn: func(_ context.Context, userID, questionID string) (bool, error) {
				return false, nil
			},
		}
	})

	var body map[string]bool
	status := doJSON(t, http.MethodPost, ts.URL+"/progress/q1", "u1", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]bool{"completed": false}, body)
}

func TestServer_RecordAttempt(t *testing.T) {
	t.Parallel()

	ts := testServer(t, func(s *qbankhttp.Server) {
		s.InteractionService = &mock.InteractionService{
			RecordAttemptFn: func(_ context.Context, userID, questionID string) (*qbank.Progress, error) {
				return &qbank.Progress{UserID: userID, QuestionID: questionID, Attempts: 3}, nil
			},
		}
	})

	var body qbank.Progress
	status := doJSON(t, http.MethodPost, ts.URL+"/attempts/q1", "u1", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, body.Attempts)
	assert.Nil(t, body.CompletedAt)
}

func TestServer_ProgressSummary(t *testing.T) {
	t.Parallel()

	ts := testServer(t, func(s *qbankhttp.Server) {
		s.InteractionService = &mock.InteractionService{
			SummaryFn: func(_ context.Context, userID string) (*qbank.ProgressSummary, error) {
				return &qbank.ProgressSummary{CompletedCount: 3, TotalCount: 12, Percent: 25}, nil
			},
		}
	})

	var body qbank.ProgressSummary
	status := doJSON(t, http.MethodGet, ts.URL+"/progress", "u1", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, body.CompletedCount)
	assert.Equal(t, 12, body.TotalCount)
	assert.InDelta(t, 25, body.Percent, 0.001)
}

func TestServer_GetQuestion(t *testing.T) {
	t.Parallel()

	t.Run("returns the question and bumps views", func(t *testing.T) {
		t.Parallel()

		var viewed []string
		ts := testServer(t, func(s *qbankhttp.Server) {
			s.QuestionService = &mock.QuestionService{
				RecordViewFn: func(_ context.Context, id string) (*qbank.Question, error) {
					viewed = append(viewed, id)
					return &qbank.Question{ID: id, Title: "What is a goroutine?", ViewCount: 8}, nil
				},
			}
		})

		var body qbank.Question
		status := doJSON(t, http.MethodGet, ts.URL+"/questions/q1", "u1", &body)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "What is a goroutine?", body.Title)
		assert.Equal(t, 8, body.ViewCount)
		assert.Equal(t, []string{"q1"}, viewed)
	})

	t.Run("unpublished questions are 404", func(t *testing.T) {
		t.Parallel()

		ts := testServer(t, func(s *qbankhttp.Server) {
			s.QuestionService = &mock.QuestionService{
				RecordViewFn: func(_ context.Context, id string) (*qbank.Question, error) {
					return nil, qbank.Errorf(qbank.ENOTFOUND, "question not found")
				},
			}
		})

		status := doJSON(t, http.MethodGet, ts.URL+"/questions/q1", "u1", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestServer_RateLimit(t *testing.T) {
	t.Parallel()

	ts := testServer(t, func(s *qbankhttp.Server) {
		s.Limiter = qbankhttp.NewUserLimiter(0.001, 2)
		s.InteractionService = &mock.InteractionService{
			ToggleFavoriteFn: func(_ context.Context, _, _ string) (bool, error) {
				return true, nil
			},
		}
	})

	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/favorites/q1", "u1", nil))
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/favorites/q1", "u1", nil))
	assert.Equal(t, http.StatusTooManyRequests, doJSON(t, http.MethodPost, ts.URL+"/favorites/q1", "u1", nil))

	// Another user has an untouched bucket.
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/favorites/q1", "u2", nil))
}

func TestServer_OpenClose(t *testing.T) {
	t.Parallel()

	s := qbankhttp.NewServer()
	s.Addr = "127.0.0.1:0"
	s.InteractionService = &mock.InteractionService{
		SummaryFn: func(_ context.Context, userID string) (*qbank.ProgressSummary, error) {
			return &qbank.ProgressSummary{}, nil
		},
	}

	require.NoError(t, s.Open())
	defer s.Close()

	require.True(t, strings.HasPrefix(s.URL(), "http://127.0.0.1:"))

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodGet, s.URL()+"/progress", nil)
	require.NoError(t, err)
	req.Header.Set("X-User-ID", "u1")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Close())
}
