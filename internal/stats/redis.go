package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/game"
)

// maxRecordRetries bounds optimistic-lock retries in RedisStore.Record.
const maxRecordRetries = 5

// RedisStore keeps stats as JSON under "stats:<player>".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func statsKey(playerID string) string { return "stats:" + playerID }

// Record implements Store using WATCH/MULTI so concurrent records do not lose updates.
func (r *RedisStore) Record(ctx context.Context, playerID string, outcome game.Status) error {
	if !outcome.Terminal() {
		return ErrNotTerminal
	}
	key := statsKey(playerID)

	txf := func(tx *redis.Tx) error {
		cur, err := readRedis(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := cur.Apply(outcome)
		if err != nil {
			return err
		}
		b, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxRecordRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("record stats for %s: %w", playerID, redis.TxFailedErr)
}

// Read implements Store.
func (r *RedisStore) Read(ctx context.Context, playerID string) (Stats, error) {
	return readRedis(ctx, r.client, statsKey(playerID))
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readRedis(ctx context.Context, c getter, key string) (Stats, error) {
	val, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	var st Stats
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return Stats{}, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return st, nil
}
