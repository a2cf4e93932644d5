package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"lectio/internal/app"
	"lectio/internal/ratelimit"
	"lectio/internal/store"
	"lectio/internal/util"
	"lectio/pkg/ai"
	"lectio/pkg/domain"
)

const requestBodyLimit = 1 << 20

// Config wires required dependencies for the HTTP server.
type Config struct {
	App         *app.App
	Environment string

	// Limiters may be nil, which disables the corresponding limit.
	RegisterLimiter *ratelimit.FixedWindowLimiter
	LoginLimiter    *ratelimit.FixedWindowLimiter
	RefreshLimiter  *ratelimit.FixedWindowLimiter
}

// Server exposes the HTTP API.
type Server struct {
	app         *app.App
	mux         *http.ServeMux
	environment string

	registerLimiter *ratelimit.FixedWindowLimiter
	loginLimiter    *ratelimit.FixedWindowLimiter
	refreshLimiter  *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app is required")
	}
	s := &Server{
		app:             cfg.App,
		mux:             http.NewServeMux(),
		environment:     cfg.Environment,
		registerLimiter: cfg.RegisterLimiter,
		loginLimiter:    cfg.LoginLimiter,
		refreshLimiter:  cfg.RefreshLimiter,
	}
	s.routes()
	return s, nil
}

// Router returns the handler with the full middleware chain applied.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(
		util.WithRequestLog("lectio",
			util.WithSecurityHeaders(s.environment,
				util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/token", s.handleToken)
	s.mux.HandleFunc("/api/auth/refresh", s.handleRefresh)
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.Handle("/api/auth/me", s.authenticated(s.handleMe))
	s.mux.Handle("/api/users/me/preferences", s.authenticated(s.handlePreferences))

	// source documents
	s.mux.Handle("/api/source-documents", s.authenticated(s.handleSourceDocuments))
	s.mux.Handle("/api/source-documents/", s.authenticated(s.handleSourceDocumentByID))

	// metatexts
	s.mux.Handle("/api/metatext", s.authenticated(s.handleMetatexts))
	s.mux.Handle("/api/metatext/", s.authenticated(s.handleMetatextByID))

	// chunks
	s.mux.Handle("/api/chunks/all/", s.authenticated(s.handleChunksAll))
	s.mux.Handle("/api/chunk/combine", s.authenticated(s.handleCombine))
	s.mux.Handle("/api/chunk/", s.authenticated(s.handleChunkByID))

	// explanations
	s.mux.Handle("/api/explain", s.authenticated(s.handleExplain))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := credentialToken(r)
		user, err := s.app.Authenticate(r.Context(), token)
		if err != nil {
			s.audit(r, "auth.token.verify", "fail", "reason", err.Error())
			s.writeAppError(w, r, err)
			return
		}
		next(w, r, user)
	})
}

// credentialToken extracts a bearer token, falling back to the access_token
// cookie for browser clients.
func credentialToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// writeAppError maps application failures onto HTTP statuses.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrMissingCredential),
		errors.Is(err, app.ErrInvalidToken),
		errors.Is(err, app.ErrExpiredToken),
		errors.Is(err, app.ErrUnknownUser),
		errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, store.ErrTitleExists),
		errors.Is(err, store.ErrUsernameExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrUsernameAndPasswordRequired),
		errors.Is(err, app.ErrTitleRequired),
		errors.Is(err, app.ErrSourceDocumentRequired),
		errors.Is(err, app.ErrWordsRequired),
		errors.Is(err, app.ErrMetatextRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeTypedError(w, r, err)
	}
}

func (s *Server) writeTypedError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		splitErr    *store.InvalidSplitIndexError
		combineErr  *store.CombineError
		updateErr   *store.UpdateError
		depsErr     *store.HasDependenciesError
		tooLargeErr *app.FileTooLargeError
		extErr      *app.UnsupportedExtensionError
		encodingErr *app.InvalidEncodingError
		provErr     *ai.ProviderError
	)
	switch {
	case errors.As(err, &splitErr), errors.As(err, &combineErr),
		errors.As(err, &updateErr), errors.As(err, &depsErr),
		errors.As(err, &encodingErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &tooLargeErr):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &extErr):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &provErr):
		util.LoggerFromContext(r.Context()).Error("ai provider failure", "error", err)
		writeError(w, http.StatusInternalServerError, "explanation service unavailable")
	default:
		util.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", util.ClientIP(r),
		"request_id", util.RequestIDFromRequest(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	if limiter == nil {
		return true
	}
	key := r.URL.Path + "|" + util.ClientIP(r)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func (s *Server) setAuthCookies(w http.ResponseWriter, pair app.TokenPair) {
	secure := !strings.EqualFold(s.environment, "development") && !strings.EqualFold(s.environment, "test")
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.app.AccessTokenTTL()),
	})
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
