// README: Location cache backend stored in Redis as JSON with a TTL.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"teleport/internal/types"
)

const lastKnownKeyPrefix = "location:last:%s"

type RedisBackend struct {
	redis *redis.Client
}

func NewRedisBackend(redis *redis.Client) *RedisBackend {
	return &RedisBackend{redis: redis}
}

func (s *RedisBackend) Get(ctx context.Context, id types.ID) (Entry, error) {
	val, err := s.redis.Get(ctx, lastKnownKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return Entry{}, fmt.Errorf("decode location entry: %w", err)
	}
	return e, nil
}

func (s *RedisBackend) Put(ctx context.Context, e Entry, ttl time.Duration) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, lastKnownKey(e.UserID), b, ttl).Err()
}

func (s *RedisBackend) Delete(ctx context.Context, id types.ID) error {
	return s.redis.Del(ctx, lastKnownKey(id)).Err()
}

func lastKnownKey(id types.ID) string {
	return fmt.Sprintf(lastKnownKeyPrefix, string(id))
}
