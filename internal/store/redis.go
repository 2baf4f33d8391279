// internal/store/redis.go
//
// Redis implementation of the session Store.
// Sessions are JSON blobs under "game:<id>" with an optional TTL, so
// state survives restarts and is shared by every server instance.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/game"
)

// Redis stores sessions as JSON blobs under "game:<id>".
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps a client; ttl 0 means keys never expire.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Connect dials addr and verifies the connection with PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{Addr: addr})
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return conn, nil
}

func gameKey(id string) string { return "game:" + id }

// Save implements Store.
func (r *Redis) Save(ctx context.Context, s *game.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}
	if err := r.client.Set(ctx, gameKey(s.ID()), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, id string) (*game.Session, error) {
	val, err := r.client.Get(ctx, gameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	var s game.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}
