package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"lectio/internal/app"
	"lectio/pkg/domain"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type loginResponse struct {
	app.TokenPair
	User domain.User `json:"user"`
}

// decodeCredentials accepts a JSON body or a classic token-endpoint form.
func decodeCredentials(r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(io.LimitReader(r.Body, requestBodyLimit)).Decode(&req); err != nil {
			return credentialsRequest{}, err
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return credentialsRequest{}, err
	}
	req.Username = r.PostFormValue("username")
	req.Password = r.PostFormValue("password")
	return req, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.registerLimiter, "too many registration attempts") {
		s.audit(r, "auth.register", "rate_limited")
		return
	}
	req, err := decodeCredentials(r)
	if err != nil {
		s.audit(r, "auth.register", "fail", "reason", "invalid_body")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.app.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.audit(r, "auth.register", "fail", "reason", err.Error())
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "auth.register", "success", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, "too many login attempts") {
		s.audit(r, "auth.login", "rate_limited")
		return
	}
	req, err := decodeCredentials(r)
	if err != nil {
		s.audit(r, "auth.login", "fail", "reason", "invalid_body")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pair, user, err := s.app.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.audit(r, "auth.login", "fail", "reason", err.Error())
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "auth.login", "success", "user_id", user.ID)
	s.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, loginResponse{TokenPair: pair, User: user})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.refreshLimiter, "too many refresh attempts") {
		s.audit(r, "auth.refresh", "rate_limited")
		return
	}
	var req refreshRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, requestBodyLimit)).Decode(&req); err != nil {
		s.audit(r, "auth.refresh", "fail", "reason", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		s.audit(r, "auth.refresh", "fail", "reason", "missing_refresh_token")
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}
	pair, err := s.app.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.audit(r, "auth.refresh", "fail", "reason", err.Error())
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "auth.refresh", "success")
	s.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req refreshRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, requestBodyLimit)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.audit(r, "auth.logout", "fail", "reason", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.Logout(r.Context(), req.RefreshToken); err != nil {
		s.audit(r, "auth.logout", "fail", "reason", err.Error())
		s.writeAppError(w, r, err)
		return
	}
	s.audit(r, "auth.logout", "success")
	s.clearAuthCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
