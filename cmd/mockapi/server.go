package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"appstate/internal/domain"
)

type server struct {
	log *zap.Logger

	mu     sync.RWMutex
	tokens map[string]domain.User
}

func newServer(log *zap.Logger) *server {
	return &server{log: log, tokens: make(map[string]domain.User)}
}

func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.accessLog)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/expire", s.expire).Methods(http.MethodPost)
	r.HandleFunc("/me", s.me).Methods(http.MethodGet)
	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name, _, ok := strings.Cut(req.Email, "@")
	if !ok || name == "" || req.Password == "" {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	user := domain.User{
		ID:    domain.UserID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+req.Email)).String()),
		Email: req.Email,
		Name:  name,
	}
	token := uuid.NewString()

	s.mu.Lock()
	s.tokens[token] = user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *server) me(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	s.mu.RLock()
	user, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "token expired", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *server) expire(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.tokens)
	clear(s.tokens)
	s.mu.Unlock()

	s.log.Info("revoked tokens", zap.Int("count", n))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
