package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fondeo/entity"
	"fondeo/internal/config"
)

// messageRefTTL bounds how long an approval message stays retractable;
// control messages older than a week are left untouched.
const messageRefTTL = 7 * 24 * time.Hour

// RedisCache keeps chat/message coordinates of posted approval controls
// keyed by top-up id, so the ledger can retract the buttons after the
// request is resolved.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(conf *config.Config) (*RedisCache, error) {
	if !conf.Redis.Enabled {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", conf.Redis.Host, conf.Redis.Port),
		Password: conf.Redis.Password,
		DB:       0,
	})
	_, err := rdb.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return &RedisCache{rdb: rdb}, nil
}

func messageRefKey(topUpId int64) string {
	return fmt.Sprintf("topup:msg:%d", topUpId)
}

func (c *RedisCache) Set(ctx context.Context, ref *entity.MessageRef) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, messageRefKey(ref.TopUpID), data, messageRefTTL).Err()
}

func (c *RedisCache) Get(ctx context.Context, topUpId int64) (*entity.MessageRef, error) {
	data, err := c.rdb.Get(ctx, messageRefKey(topUpId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	var ref entity.MessageRef
	if err = json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (c *RedisCache) Del(ctx context.Context, topUpId int64) error {
	return c.rdb.Del(ctx, messageRefKey(topUpId)).Err()
}
