// Package http exposes the per-user catalog surface as JSON over HTTP.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/qbank"
)

// ShutdownTimeout is the time given to in-flight requests on Close.
const ShutdownTimeout = 5 * time.Second

// AuthFunc resolves the requesting user's identity. An empty user ID
// means the request is unauthenticated.
type AuthFunc func(r *http.Request) (userID string, err error)

// HeaderAuth resolves identity from the X-User-ID header. It stands
// in for the authentication collaborator, which owns real identity.
func HeaderAuth(r *http.Request) (string, error) {
	return r.Header.Get("X-User-ID"), nil
}

// Server serves the catalog's JSON endpoints.
type Server struct {
	ln     net.Listener
	server *http.Server

	Addr string

	QuestionService    qbank.QuestionService
	InteractionService qbank.InteractionService

	// Auth is required; HeaderAuth is the stub used outside production.
	Auth AuthFunc

	// Limiter is optional; nil disables rate limiting.
	Limiter *UserLimiter

	Logger *slog.Logger
}

// NewServer creates a Server with the header-based identity stub.
func NewServer() *Server {
	return &Server{
		Auth:   HeaderAuth,
		Logger: slog.Default(),
	}
}

// Open begins listening on the configured address.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.server = &http.Server{Handler: s.Handler()}

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL the server is listening on.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Handler builds the route table. Exposed so tests can drive the
// server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /favorites/{questionID}", s.withUser(s.handleToggleFavorite))
	mux.HandleFunc("POST /progress/{questionID}", s.withUser(s.handleToggleCompleted))
	mux.HandleFunc("POST /attempts/{questionID}", s.withUser(s.handleRecordAttempt))
	mux.HandleFunc("GET /progress", s.withUser(s.handleProgressSummary))
	mux.HandleFunc("GET /questions/{questionID}", s.withUser(s.handleGetQuestion))
	return mux
}

// withUser authenticates and rate-limits a request before handing it
// to the route handler.
func (s *Server) withUser(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.Auth(r)
		if err != nil {
			s.writeError(w, r, qbank.Errorf(qbank.EINTERNAL, "resolving identity: %v", err))
			return
		}
		if userID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		if s.Limiter != nil && !s.Limiter.Allow(userID) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next(w, r, userID)
	}
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request, userID string) {
	favorited, err := s.InteractionService.ToggleFavorite(r.Context(), userID, r.PathValue("questionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorited": favorited})
}

func (s *Server) handleToggleCompleted(w http.ResponseWriter, r *http.Request, userID string) {
	completed, err := s.InteractionService.ToggleCompleted(r.Context(), userID, r.PathValue("questionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

func (s *Server) handleRecordAttempt(w http.ResponseWriter, r *http.Request, userID string) {
	progress, err := s.InteractionService.RecordAttempt(r.Context(), userID, r.PathValue("questionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleProgressSummary(w http.ResponseWriter, r *http.Request, userID string) {
	summary, err := s.InteractionService.Summary(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request, userID string) {
	question, err := s.QuestionService.RecordView(r.Context(), r.PathValue("questionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps application error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := qbank.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("http request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: qbank.ErrorMessage(err)})
}

var statusByCode = map[string]int{
	qbank.EINVALID:   http.StatusBadRequest,
	qbank.ENOTFOUND:  http.StatusNotFound,
	qbank.ECONFLICT:  http.StatusConflict,
	qbank.ECAPACITY:  http.StatusInsufficientStorage,
	qbank.EINTERNAL:  http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
