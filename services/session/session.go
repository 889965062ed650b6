// Package session holds the provider's signed-in state server-side. The
// legacy portal kept the providerId and a provider blob in browser storage
// with no lifecycle at all; here a session is an explicit Redis record with a
// TTL, and "logged out" is a real state rather than a missing storage key.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carelink/models"
	"carelink/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "providerSession:"

// ErrNoSession is returned when the provider has no active session.
var ErrNoSession = errors.New("no active provider session")

// ProviderSession is the server-side signed-in state for one provider.
type ProviderSession struct {
	ProviderID    string                  `json:"providerId"`
	Provider      models.ProviderSnapshot `json:"provider"`
	TokenHash     string                  `json:"tokenHash"`
	CreatedAt     time.Time               `json:"createdAt"`
	LastUpdatedAt time.Time               `json:"lastUpdatedAt"`
}

// Store manages provider sessions.
type Store interface {
	Start(ctx context.Context, provider models.ProviderSnapshot) (string, error)
	Get(ctx context.Context, providerID string) (*ProviderSession, error)
	End(ctx context.Context, providerID string) error
}

// RedisStore implements Store on Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a session store. ttl bounds how long a session may go
// unused before it expires.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Start creates a session for the provider and returns the signed bearer
// token identifying it. An existing session for the same provider is
// replaced.
func (s *RedisStore) Start(ctx context.Context, provider models.ProviderSnapshot) (string, error) {
	if provider.ID == "" {
		return "", errors.New("provider id is required")
	}

	token, err := utils.GenerateToken(provider.ID, s.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	now := time.Now()
	sess := ProviderSession{
		ProviderID:    provider.ID,
		Provider:      provider,
		TokenHash:     utils.HashToken(token),
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal provider session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+provider.ID, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to save provider session: %w", err)
	}
	return token, nil
}

// Get retrieves the provider's session and refreshes its TTL.
func (s *RedisStore) Get(ctx context.Context, providerID string) (*ProviderSession, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+providerID).Result()
	if err == redis.Nil {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var sess ProviderSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal provider session: %w", err)
	}

	// Sliding expiration.
	if err := s.client.Expire(ctx, sessionKeyPrefix+providerID, s.ttl).Err(); err != nil {
		return nil, err
	}
	return &sess, nil
}

// End removes the provider's session and drops the cached validation of its
// token, so a signed-out bearer token stops authenticating immediately rather
// than riding the auth cache until its TTL runs out.
func (s *RedisStore) End(ctx context.Context, providerID string) error {
	data, err := s.client.Get(ctx, sessionKeyPrefix+providerID).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	var sess ProviderSession
	if err := json.Unmarshal([]byte(data), &sess); err == nil && sess.TokenHash != "" {
		authCache := utils.GetAuthCacheClient()
		if err := authCache.Del(ctx, utils.AuthCachePrefix+sess.TokenHash).Err(); err != nil {
			utils.GetLogger().Error("Failed to clear auth cache on sign-out", zap.Error(err))
		}
	}

	return s.client.Del(ctx, sessionKeyPrefix+providerID).Err()
}
