// Package server exposes the HTTP API: signup/login, preference management
// and the personalized news feed.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"news_server/internal/auth"
	"news_server/internal/service"
)

type Server struct {
	users  *service.UserService
	news   *service.NewsService
	tokens *auth.Manager
	logger *slog.Logger
}

func New(users *service.UserService, news *service.NewsService, tokens *auth.Manager, logger *slog.Logger) *Server {
	return &Server{
		users:  users,
		news:   news,
		tokens: tokens,
		logger: logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /users/signup", s.handleSignup)
	mux.HandleFunc("POST /users/login", s.handleLogin)
	mux.Handle("GET /users/preferences", s.requireAuth(s.handleGetPreferences))
	mux.Handle("PUT /users/preferences", s.requireAuth(s.handleUpdatePreferences))

	mux.Handle("GET /news", s.requireAuth(s.handleGetNews))
	mux.Handle("GET /news/search/{keyword}", s.requireAuth(s.handleSearchNews))
	mux.Handle("GET /news/read", s.requireAuth(s.handleGetRead))
	mux.Handle("GET /news/favorites", s.requireAuth(s.handleGetFavorites))
	mux.Handle("POST /news/{id}/read", s.requireAuth(s.handleMarkRead))
	mux.Handle("POST /news/{id}/favorite", s.requireAuth(s.handleMarkFavorite))

	mux.HandleFunc("/", s.handleNotFound)

	return s.logRequests(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
