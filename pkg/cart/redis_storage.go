package cart

import (
	"context"
	"encoding/json"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
)

const defaultCartKey = "cart:items"

// RedisStorage persists the cart as a JSON blob under a single key, so
// a session can survive process restarts and move between devices.
type RedisStorage struct {
	client *goredis.Client
	key    string
}

// NewRedisStorage creates a redis-backed cart storage. An empty key
// selects the default.
func NewRedisStorage(client *goredis.Client, key string) *RedisStorage {
	if key == "" {
		key = defaultCartKey
	}
	return &RedisStorage{client: client, key: key}
}

func (r *RedisStorage) Load(ctx context.Context) ([]Item, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to load cart from redis")
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode persisted cart")
	}
	return items, nil
}

func (r *RedisStorage) Save(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		if err := r.client.Del(ctx, r.key).Err(); err != nil {
			return apperrors.Wrap(err, "failed to clear cart in redis")
		}
		return nil
	}

	data, err := json.Marshal(items)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode cart")
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return apperrors.Wrap(err, "failed to save cart to redis")
	}
	return nil
}
