package session

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
)

const defaultTokenKey = "session:token"

// RedisStorage persists the token under a fixed Redis key.
type RedisStorage struct {
	client *goredis.Client
	key    string
}

// NewRedisStorage creates a Redis-backed token storage. An empty key
// falls back to the default.
func NewRedisStorage(client *goredis.Client, key string) *RedisStorage {
	if key == "" {
		key = defaultTokenKey
	}
	return &RedisStorage{client: client, key: key}
}

func (s *RedisStorage) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", apperrors.Wrap(err, "failed to load token")
	}
	return token, nil
}

func (s *RedisStorage) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return apperrors.Wrap(err, "failed to save token")
	}
	return nil
}

func (s *RedisStorage) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return apperrors.Wrap(err, "failed to clear token")
	}
	return nil
}
