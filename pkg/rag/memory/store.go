package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChatMessage is one stored conversation turn half. Append-only; insertion
// order is authoritative.
type ChatMessage struct {
	Role      string    `json:"role"` // "user", "assistant", "system", "tool"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is a durable, append-only, TTL-capable ordered message log keyed by
// session key, with bounded tail reads.
type Store interface {
	Append(ctx context.Context, sessionKey string, messages ...ChatMessage) error
	Tail(ctx context.Context, sessionKey string, limit int) ([]ChatMessage, error)
	Delete(ctx context.Context, sessionKey string) error
}

// RedisStore keeps each session's log in a Redis list. Writes refresh the
// key's TTL so idle sessions expire on their own.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Store = &RedisStore{}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *RedisStore) Append(ctx context.Context, sessionKey string, messages ...ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	values := make([]interface{}, len(messages))
	for i, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal chat message: %w", err)
		}
		values[i] = data
	}

	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, sessionKey, values...)
	if s.ttl > 0 {
		pipe.Expire(ctx, sessionKey, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append chat messages: %w", err)
	}
	return nil
}

func (s *RedisStore) Tail(ctx context.Context, sessionKey string, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		return nil, nil
	}

	raw, err := s.rdb.LRange(ctx, sessionKey, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read chat tail: %w", err)
	}

	messages := make([]ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			// A corrupt entry should not wedge the whole session
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionKey string) error {
	return s.rdb.Del(ctx, sessionKey).Err()
}
