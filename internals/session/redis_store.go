package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
)

// redisKey namespaces the mirror key inside a shared Redis instance.
const redisKey = "session:" + MirrorKey

// RedisStore mirrors the session into Redis.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session mirror: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (models.Session, bool, error) {
	data, err := s.client.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, fmt.Errorf("failed to load session mirror: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return models.Session{}, false, fmt.Errorf("failed to unmarshal session mirror: %w", err)
	}
	return sess, true, nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session mirror: %w", err)
	}
	return nil
}
