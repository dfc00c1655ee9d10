package server

import (
	"net/http"

	"news_server/internal/domain"
)

func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.users.User(ctx, userID(ctx))
	if err != nil {
		s.respondUserError(w, err)
		return
	}

	news, err := s.news.FetchForPreferences(ctx, user.Preferences)
	if err != nil {
		s.logger.Error("fetch news failed", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch news")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Article{"news": news})
}

func (s *Server) handleSearchNews(w http.ResponseWriter, r *http.Request) {
	keyword := r.PathValue("keyword")

	news, err := s.news.FetchForPreferences(r.Context(), []string{keyword})
	if err != nil {
		s.logger.Error("search news failed", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch news")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Article{"news": news})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	read, err := s.users.MarkRead(ctx, userID(ctx), r.PathValue("id"))
	if err != nil {
		s.respondUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"readArticles": read})
}

func (s *Server) handleMarkFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	favorites, err := s.users.MarkFavorite(ctx, userID(ctx), r.PathValue("id"))
	if err != nil {
		s.respondUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"favoriteArticles": favorites})
}

func (s *Server) handleGetRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	read, err := s.users.ReadArticles(ctx, userID(ctx))
	if err != nil {
		s.respondUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"readArticles": read})
}

func (s *Server) handleGetFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	favorites, err := s.users.FavoriteArticles(ctx, userID(ctx))
	if err != nil {
		s.respondUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"favoriteArticles": favorites})
}
