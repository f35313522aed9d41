package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-evalform/internal/config"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

// DefaultSessionTTL applies when a cache is built with a non-positive TTL.
const DefaultSessionTTL = 24 * time.Hour

// SessionCache keeps wizard session snapshots between requests. Get returns
// nil, nil when the session is unknown or expired.
type SessionCache interface {
	Set(ctx context.Context, state wizard.State) error
	Get(ctx context.Context, id string) (*wizard.State, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache stores snapshots as JSON under "evalform:session:<id>".
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return "evalform:session:" + id
}

func (c *sessionCache) Set(ctx context.Context, state wizard.State) error {
	if state.SessionID == "" {
		return errors.New("cache: session id is required")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(state.SessionID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*wizard.State, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state wizard.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("cache: decode session %s: %w", id, err)
	}
	return &state, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}

// NewRedisClient dials Redis with cfg and pings it.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}
	return client, nil
}
