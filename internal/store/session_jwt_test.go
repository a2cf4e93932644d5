package store

import (
	"errors"
	"testing"
	"time"
)

func TestJWTSessionRoundTrip(t *testing.T) {
	s, err := NewJWTSessionStore("secret", "HS256", time.Minute, JWTOptions{})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	userID, err := s.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("user = %q", userID)
	}
}

func TestJWTSessionExpired(t *testing.T) {
	s, err := NewJWTSessionStore("secret", "HS256", time.Nanosecond, JWTOptions{Leeway: time.Nanosecond})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := s.GetUserIDByToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v", err)
	}
}

func TestJWTSessionWrongSecret(t *testing.T) {
	issuer, _ := NewJWTSessionStore("secret-a", "HS256", time.Minute, JWTOptions{})
	verifier, _ := NewJWTSessionStore("secret-b", "HS256", time.Minute, JWTOptions{})

	token, err := issuer.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := verifier.GetUserIDByToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v", err)
	}
	if _, err := issuer.GetUserIDByToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage err = %v", err)
	}
	if _, err := issuer.GetUserIDByToken(""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("empty err = %v", err)
	}
}

func TestJWTSessionAlgorithmMismatch(t *testing.T) {
	hs256, _ := NewJWTSessionStore("secret", "HS256", time.Minute, JWTOptions{})
	hs512, _ := NewJWTSessionStore("secret", "HS512", time.Minute, JWTOptions{})

	token, err := hs512.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := hs256.GetUserIDByToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v", err)
	}
}

func TestJWTSessionRejectsUnsupportedAlgorithm(t *testing.T) {
	if _, err := NewJWTSessionStore("secret", "RS256", time.Minute, JWTOptions{}); err == nil {
		t.Fatal("expected error for RS256")
	}
	if _, err := NewJWTSessionStore("", "HS256", time.Minute, JWTOptions{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
