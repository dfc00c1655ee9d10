package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"news_server/internal/domain"
	"news_server/internal/service"
)

const minPasswordLength = 6

type signupRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Preferences []string `json:"preferences"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password min length 6")
		return
	}

	user, err := s.users.Signup(r.Context(), service.SignupInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Preferences: req.Preferences,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
		s.logger.Error("signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// Also set the token as an HttpOnly cookie for clients that do not send
	// an Authorization header.
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.tokens.TokenTTL().Seconds()),
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.users.Preferences(r.Context(), userID(r.Context()))
	if err != nil {
		s.respondUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"preferences": prefs})
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Preferences *[]string `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Preferences == nil {
		writeError(w, http.StatusBadRequest, "preferences must be an array of strings")
		return
	}

	prefs, err := s.users.UpdatePreferences(r.Context(), userID(r.Context()), *req.Preferences)
	if err != nil {
		s.respondUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"preferences": prefs})
}

// respondUserError maps directory errors to responses: a missing record is a
// 404, anything else is unexpected.
func (s *Server) respondUserError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	s.logger.Error("user operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}
