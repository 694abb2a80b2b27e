package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"

	"callgate"
)

const apiKeyHeader = "X-API-Key"

const welcomeMessage = "Welcome to Media Server Token Server. Use /token endpoint to generate a token."

// Server adapts an engine to net/http.
type Server struct {
	engine *callgate.Engine
}

func New(engine *callgate.Engine) *Server {
	return &Server{engine: engine}
}

// Handler returns the route table. The root route answers any method so
// health probes and browsers both get the welcome payload.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWelcome)
	mux.HandleFunc("POST /token", s.handleToken)
	return mux
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": welcomeMessage,
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ctx = callgate.WithClientIP(ctx, host)
	}

	var req callgate.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := s.engine.AuthorizeAndIssue(ctx, r.Header.Get(apiKeyHeader), req)
	if err != nil {
		switch {
		case errors.Is(err, callgate.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
		case errors.Is(err, callgate.ErrKeyStoreUnavailable):
			log.Printf("token request failed: %v", err)
			writeError(w, http.StatusServiceUnavailable, "service unavailable")
		default:
			log.Printf("token request failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("response encode failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
