// Package server exposes the assistant over HTTP: one chat endpoint, a
// session reset endpoint and a health probe.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/foliolabs/folioagent/assistant"
	"github.com/foliolabs/folioagent/logging"
	"github.com/foliolabs/folioagent/model"
	"github.com/foliolabs/folioagent/session"
)

// Server routes HTTP requests to the assistant.
type Server struct {
	assistant *assistant.Assistant
	store     *session.Store
	modelInfo model.Info
	logger    logging.Logger
}

// New builds the HTTP handler stack.
func New(a *assistant.Assistant, store *session.Store, info model.Info, logger logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	s := &Server{assistant: a, store: store, modelInfo: info, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/agent", s.handleAgent)
	mux.HandleFunc("/clear-chat", s.handleClearChat)
	mux.HandleFunc("/health", s.handleHealth)

	return chainMiddlewares(mux, withCORS, s.withLogging)
}

type agentRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type agentResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

type clearChatRequest struct {
	SessionID string `json:"sessionId"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Model   string `json:"model"`
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "sessionId is required")
		return
	}

	answer, err := s.assistant.Run(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.logger.Error("server.agent.failed", "session_id", req.SessionID, "error", err.Error())
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, agentResponse{Response: answer, SessionID: req.SessionID})
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req clearChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "sessionId is required")
		return
	}

	if err := s.store.Clear(r.Context(), req.SessionID); err != nil {
		s.logger.Error("server.clear.failed", "session_id", req.SessionID, "error", err.Error())
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Backend: s.store.Backend(),
		Model:   s.modelInfo.Name,
	})
}

// Run serves the handler until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("server.request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}

// withCORS adds basic CORS headers to allow calls from a web front-end.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// chainMiddlewares applies multiple middlewares in order.
func chainMiddlewares(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
