package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shopindream/storefront/cart/internal/store"
	"github.com/shopindream/storefront/internal/log"
)

const keyCart = "carts:%s"

// RedisStore keeps the serialized cart under a per-session key. It satisfies
// the same contract as FileStore so deployments with shared storage can swap
// the driver in config.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, sessionID string) *RedisStore {
	return &RedisStore{client: client, key: fmt.Sprintf(keyCart, sessionID)}
}

func (r *RedisStore) Load(c context.Context) ([]store.LineItem, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Load").
		Str(log.KeyStoragePath, r.key).
		Logger()

	payload, err := r.client.Get(c, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed reading cart from redis with error=%w", err)
	}

	items, err := decode(payload)
	if err != nil {
		logger.Warn().Err(err).Msg("persisted cart is corrupt, recovering to empty cart")
		return nil, nil
	}
	return items, nil
}

func (r *RedisStore) Save(c context.Context, items []store.LineItem) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}
	if err := r.client.Set(c, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed writing cart to redis with error=%w", err)
	}
	return nil
}

func (r *RedisStore) Erase(c context.Context) error {
	if err := r.client.Del(c, r.key).Err(); err != nil {
		return fmt.Errorf("failed removing cart from redis with error=%w", err)
	}
	return nil
}
