package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lectio/internal/store"
	"lectio/pkg/auth"
	"lectio/pkg/domain"
)

// TokenPair is the issued credential set for a login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Register creates a new user account.
func (a *App) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrUsernameAndPasswordRequired
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:             store.NewID(),
		Username:       username,
		HashedPassword: hash,
		CreatedAt:      time.Now().UTC(),
	}
	if err := a.store.CreateUser(user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (a *App) Login(ctx context.Context, username, password string) (TokenPair, domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return TokenPair{}, domain.User{}, ErrUsernameAndPasswordRequired
	}
	user, ok, err := a.store.GetUserByUsername(username)
	if err != nil {
		return TokenPair{}, domain.User{}, err
	}
	if !ok || !auth.CheckPassword(password, user.HashedPassword) {
		return TokenPair{}, domain.User{}, ErrInvalidCredentials
	}
	pair, err := a.issueTokens(user.ID)
	if err != nil {
		return TokenPair{}, domain.User{}, err
	}
	return pair, user, nil
}

// Refresh rotates a refresh token and issues a fresh pair. Reuse of an old
// token revokes the whole token family.
func (a *App) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, ErrMissingCredential
	}
	userID, newToken, err := a.refreshTokens.RotateToken(refreshToken, a.refreshTTL)
	if err != nil {
		if errors.Is(err, store.ErrInvalidRefreshToken) || errors.Is(err, store.ErrRefreshTokenReplay) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, err
	}
	access, err := a.sessions.NewSession(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: newToken, TokenType: "bearer"}, nil
}

// Logout revokes the refresh token family. Unknown tokens are a no-op.
func (a *App) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return a.refreshTokens.DeleteToken(refreshToken)
}

// Authenticate resolves a bearer or cookie token to the user it names.
func (a *App) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return domain.User{}, ErrMissingCredential
	}
	userID, err := a.sessions.GetUserIDByToken(token)
	if err != nil {
		if errors.Is(err, store.ErrTokenExpired) {
			return domain.User{}, ErrExpiredToken
		}
		return domain.User{}, ErrInvalidToken
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, ErrUnknownUser
	}
	return user, nil
}

func (a *App) issueTokens(userID string) (TokenPair, error) {
	access, err := a.sessions.NewSession(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := a.refreshTokens.NewToken(userID, a.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}
