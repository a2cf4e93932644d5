package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrInvalidRefreshToken indicates a refresh token that is unknown or expired.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrRefreshTokenReplay indicates reuse of an already-rotated token.
	ErrRefreshTokenReplay = errors.New("refresh token replay detected")
)

// RefreshTokenStore persists refresh tokens with rotation and replay
// detection: presenting a superseded token revokes its whole family.
type RefreshTokenStore interface {
	NewToken(userID string, ttl time.Duration) (string, error)
	RotateToken(token string, ttl time.Duration) (userID string, newToken string, err error)
	DeleteToken(token string) error
}

type refreshFamily struct {
	userID      string
	currentHash string
	expiry      time.Time
}

// MemoryRefreshTokenStore keeps refresh token families in memory.
type MemoryRefreshTokenStore struct {
	mu          sync.Mutex
	families    map[string]refreshFamily // familyID -> family
	tokenFamily map[string]string        // tokenHash -> familyID
}

// NewMemoryRefreshTokenStore constructs an in-memory refresh token store.
func NewMemoryRefreshTokenStore() *MemoryRefreshTokenStore {
	return &MemoryRefreshTokenStore{
		families:    make(map[string]refreshFamily),
		tokenFamily: make(map[string]string),
	}
}

// NewToken issues and stores a new refresh token family.
func (s *MemoryRefreshTokenStore) NewToken(userID string, ttl time.Duration) (string, error) {
	token, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	familyID := randomHexID(8)
	hash := refreshTokenHash(token)

	s.mu.Lock()
	s.families[familyID] = refreshFamily{
		userID:      userID,
		currentHash: hash,
		expiry:      time.Now().UTC().Add(ttl),
	}
	s.tokenFamily[hash] = familyID
	s.mu.Unlock()
	return token, nil
}

// RotateToken validates a token and issues its successor in the same family.
func (s *MemoryRefreshTokenStore) RotateToken(token string, ttl time.Duration) (string, string, error) {
	hash := refreshTokenHash(token)
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	familyID, ok := s.tokenFamily[hash]
	if !ok {
		return "", "", ErrInvalidRefreshToken
	}
	family, ok := s.families[familyID]
	if !ok || now.After(family.expiry) {
		s.revokeFamilyLocked(familyID)
		return "", "", ErrInvalidRefreshToken
	}
	if family.currentHash != hash {
		// Reuse of a superseded token: revoke the whole family.
		s.revokeFamilyLocked(familyID)
		return "", "", ErrRefreshTokenReplay
	}

	newToken, err := generateRefreshToken()
	if err != nil {
		return "", "", err
	}
	newHash := refreshTokenHash(newToken)
	family.currentHash = newHash
	family.expiry = now.Add(ttl)
	s.families[familyID] = family
	s.tokenFamily[newHash] = familyID
	return family.userID, newToken, nil
}

// DeleteToken revokes the token family containing this token.
func (s *MemoryRefreshTokenStore) DeleteToken(token string) error {
	hash := refreshTokenHash(token)
	s.mu.Lock()
	if familyID, ok := s.tokenFamily[hash]; ok {
		s.revokeFamilyLocked(familyID)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryRefreshTokenStore) revokeFamilyLocked(familyID string) {
	for h, f := range s.tokenFamily {
		if f == familyID {
			delete(s.tokenFamily, h)
		}
	}
	delete(s.families, familyID)
}

// RedisRefreshTokenStore stores refresh token families in Redis so multiple
// instances share rotation state.
type RedisRefreshTokenStore struct {
	client *redis.Client
}

// NewRedisRefreshTokenStore builds a Redis-backed refresh token store.
func NewRedisRefreshTokenStore(addr, password string) *RedisRefreshTokenStore {
	return &RedisRefreshTokenStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// NewToken issues and stores a new refresh token family.
func (s *RedisRefreshTokenStore) NewToken(userID string, ttl time.Duration) (string, error) {
	token, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	familyID := randomHexID(8)
	hash := refreshTokenHash(token)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, refreshTokenKey(hash), familyID, ttl)
	pipe.HSet(ctx, refreshFamilyKey(familyID), "user_id", userID, "current_hash", hash)
	pipe.Expire(ctx, refreshFamilyKey(familyID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return token, nil
}

// RotateToken validates a token and issues its successor in the same family.
func (s *RedisRefreshTokenStore) RotateToken(token string, ttl time.Duration) (string, string, error) {
	hash := refreshTokenHash(token)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	familyID, err := s.client.Get(ctx, refreshTokenKey(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return "", "", ErrInvalidRefreshToken
	}
	if err != nil {
		return "", "", err
	}
	family, err := s.client.HGetAll(ctx, refreshFamilyKey(familyID)).Result()
	if err != nil {
		return "", "", err
	}
	if len(family) == 0 {
		_ = s.client.Del(ctx, refreshTokenKey(hash)).Err()
		return "", "", ErrInvalidRefreshToken
	}
	if family["current_hash"] != hash {
		// Replay of a superseded token: drop the family.
		_ = s.revokeFamily(ctx, familyID)
		return "", "", ErrRefreshTokenReplay
	}

	newToken, err := generateRefreshToken()
	if err != nil {
		return "", "", err
	}
	newHash := refreshTokenHash(newToken)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, refreshTokenKey(newHash), familyID, ttl)
	pipe.HSet(ctx, refreshFamilyKey(familyID), "current_hash", newHash)
	pipe.Expire(ctx, refreshFamilyKey(familyID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", "", err
	}
	return family["user_id"], newToken, nil
}

// DeleteToken revokes the token family containing this token.
func (s *RedisRefreshTokenStore) DeleteToken(token string) error {
	hash := refreshTokenHash(token)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	familyID, err := s.client.Get(ctx, refreshTokenKey(hash)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.revokeFamily(ctx, familyID)
}

func (s *RedisRefreshTokenStore) revokeFamily(ctx context.Context, familyID string) error {
	// Old token keys expire on their own TTL; the family hash is the
	// authority, so dropping it invalidates every outstanding token.
	return s.client.Del(ctx, refreshFamilyKey(familyID)).Err()
}

func refreshTokenKey(hash string) string {
	return "lectio:refresh:token:" + hash
}

func refreshFamilyKey(familyID string) string {
	return "lectio:refresh:family:" + familyID
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func refreshTokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
