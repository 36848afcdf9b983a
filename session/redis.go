package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foliolabs/folioagent/core"
)

// RedisStore is a Backend persisting turn histories as Redis lists, one list
// per session key, trimmed to the window and expired after the TTL.
type RedisStore struct {
	client *redis.Client
	window int
	ttl    time.Duration
}

// NewRedisStore constructs a Redis-backed store for the given address.
func NewRedisStore(addr string, window int, ttl time.Duration) *RedisStore {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		window: window,
		ttl:    ttl,
	}
}

// NewRedisStoreFromClient wraps an existing client (tests, custom dialing).
func NewRedisStoreFromClient(client *redis.Client, window int, ttl time.Duration) *RedisStore {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisStore{client: client, window: window, ttl: ttl}
}

// Name implements Backend.
func (s *RedisStore) Name() string { return "redis" }

// Ping verifies connectivity; used once at selection time.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func sessionKey(sessionID string) string { return "folioagent:session:" + sessionID }

// Append implements Backend: push the JSON turn, trim to the window, refresh
// the expiry in one pipeline round trip.
func (s *RedisStore) Append(ctx context.Context, sessionID string, turn core.Turn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	key := sessionKey(sessionID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, int64(-s.window), -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append: %w", err)
	}
	return nil
}

// Read implements Backend, range-reading the most recent turns.
func (s *RedisStore) Read(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	if limit <= 0 || limit > s.window {
		limit = s.window
	}
	raw, err := s.client.LRange(ctx, sessionKey(sessionID), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read: %w", err)
	}
	turns := make([]core.Turn, 0, len(raw))
	for _, item := range raw {
		var t core.Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			continue // skip corrupt entries rather than failing the read
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Clear implements Backend.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}
