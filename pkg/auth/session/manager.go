package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/foguel/delivery-backend/pkg/redis"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(tokenID string) string
}

// Manager binds issued access tokens to revocable server-side sessions.
type Manager struct {
	store sessionStore
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Active(ctx context.Context, tokenID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &Manager{store: client}, nil
}

// Open records a session for the token id until expiresAt.
func (m *Manager) Open(ctx context.Context, tokenID, subject string, expiresAt time.Time) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	return m.store.Set(ctx, m.store.SessionKey(tokenID), subject, ttl)
}

// Active reports whether the token id still has a live session.
func (m *Manager) Active(ctx context.Context, tokenID string) (bool, error) {
	if strings.TrimSpace(tokenID) == "" {
		return false, nil
	}
	return m.store.Exists(ctx, m.store.SessionKey(tokenID))
}

// Revoke ends the session tied to the token id. Unknown ids are a no-op.
func (m *Manager) Revoke(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.Del(ctx, m.store.SessionKey(tokenID))
}
