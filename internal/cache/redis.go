package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, ttl time.Duration, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisClient{client: rdb, ttl: ttl, log: log}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

func (r *RedisClient) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	raw, err := r.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisClient) SetProduct(ctx context.Context, p *models.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKey(p.ID), raw, r.ttl).Err()
}

func (r *RedisClient) InvalidateProducts(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	return r.client.Del(ctx, keys...).Err()
}
