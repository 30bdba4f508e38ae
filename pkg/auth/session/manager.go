package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/shopstack-labs/shopstack-backend/pkg/config"
	redisclient "github.com/shopstack-labs/shopstack-backend/pkg/redis"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// tokenStore is the slice of the Redis client the manager depends on.
type tokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// Manager ties refresh tokens to access token IDs. One Redis entry per live
// session, keyed by jti, holding the refresh token and expiring with it.
type Manager struct {
	store tokenStore
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis. The refresh TTL
// must be longer than the access token TTL or refresh could never succeed.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	if accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute; ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, ttl: ttl}, nil
}

func requireAccessID(accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return nil
}

// mint creates a fresh refresh token and stores it under the access ID.
func (m *Manager) mint(ctx context.Context, accessID string) (string, error) {
	raw := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	if err := m.store.Set(ctx, m.store.AccessSessionKey(accessID), token, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Generate creates and stores a refresh token for the provided access ID.
func (m *Manager) Generate(ctx context.Context, accessID string) (string, error) {
	if err := requireAccessID(accessID); err != nil {
		return "", err
	}
	return m.mint(ctx, accessID)
}

// Rotate checks the presented refresh token against the stored one and, on
// match, swaps the session for a new access ID and refresh token. The old
// entry is removed so a replayed token cannot rotate twice.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, presented string) (string, string, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(presented) == "" {
		return "", "", ErrInvalidRefreshToken
	}

	oldKey := m.store.AccessSessionKey(oldAccessID)
	stored, err := m.store.Get(ctx, oldKey)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return "", "", ErrInvalidRefreshToken
	}

	newAccessID := NewAccessID()
	newToken, err := m.mint(ctx, newAccessID)
	if err != nil {
		return "", "", err
	}
	if err := m.store.Del(ctx, oldKey); err != nil {
		return "", "", err
	}
	return newAccessID, newToken, nil
}

// Revoke deletes the refresh mapping tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if err := requireAccessID(accessID); err != nil {
		return err
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

// HasSession reports whether the access ID still maps to a live session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if err := requireAccessID(accessID); err != nil {
		return false, err
	}
	if _, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewAccessID produces the identifier used as both JWT jti and Redis key.
func NewAccessID() string {
	return uuid.NewString()
}
