package store

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func refreshStores(t *testing.T) map[string]RefreshTokenStore {
	t.Helper()
	mr := miniredis.RunT(t)
	return map[string]RefreshTokenStore{
		"memory": NewMemoryRefreshTokenStore(),
		"redis":  NewRedisRefreshTokenStore(mr.Addr(), ""),
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	for name, s := range refreshStores(t) {
		t.Run(name, func(t *testing.T) {
			token, err := s.NewToken("user-1", time.Minute)
			if err != nil {
				t.Fatalf("new token: %v", err)
			}
			userID, next, err := s.RotateToken(token, time.Minute)
			if err != nil {
				t.Fatalf("rotate: %v", err)
			}
			if userID != "user-1" {
				t.Fatalf("user = %q", userID)
			}
			if next == token {
				t.Fatal("rotation returned the same token")
			}
			if _, _, err := s.RotateToken(next, time.Minute); err != nil {
				t.Fatalf("rotate successor: %v", err)
			}
		})
	}
}

func TestRefreshTokenReplayRevokesFamily(t *testing.T) {
	for name, s := range refreshStores(t) {
		t.Run(name, func(t *testing.T) {
			token, err := s.NewToken("user-1", time.Minute)
			if err != nil {
				t.Fatalf("new token: %v", err)
			}
			_, next, err := s.RotateToken(token, time.Minute)
			if err != nil {
				t.Fatalf("rotate: %v", err)
			}

			// presenting the superseded token burns the whole family
			if _, _, err := s.RotateToken(token, time.Minute); !errors.Is(err, ErrRefreshTokenReplay) {
				t.Fatalf("replay err = %v", err)
			}
			if _, _, err := s.RotateToken(next, time.Minute); !errors.Is(err, ErrInvalidRefreshToken) {
				t.Fatalf("revoked successor err = %v", err)
			}
		})
	}
}

func TestRefreshTokenDelete(t *testing.T) {
	for name, s := range refreshStores(t) {
		t.Run(name, func(t *testing.T) {
			token, err := s.NewToken("user-1", time.Minute)
			if err != nil {
				t.Fatalf("new token: %v", err)
			}
			if err := s.DeleteToken(token); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, _, err := s.RotateToken(token, time.Minute); !errors.Is(err, ErrInvalidRefreshToken) {
				t.Fatalf("deleted err = %v", err)
			}
			if err := s.DeleteToken("never-issued"); err != nil {
				t.Fatalf("delete unknown: %v", err)
			}
		})
	}
}

func TestRefreshTokenUnknown(t *testing.T) {
	for name, s := range refreshStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, _, err := s.RotateToken("never-issued", time.Minute); !errors.Is(err, ErrInvalidRefreshToken) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestMemoryRefreshTokenExpiry(t *testing.T) {
	s := NewMemoryRefreshTokenStore()
	token, err := s.NewToken("user-1", -time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if _, _, err := s.RotateToken(token, time.Minute); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expired err = %v", err)
	}
}

func TestRedisRefreshTokenExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisRefreshTokenStore(mr.Addr(), "")

	token, err := s.NewToken("user-1", time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, _, err := s.RotateToken(token, time.Minute); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expired err = %v", err)
	}
}
