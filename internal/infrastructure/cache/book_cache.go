// Package cache holds rendered book views in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-managebooks/internal/application"
)

const keyPrefix = "book:view:"

type BookCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBookCache stores views for ttl; zero keeps them until invalidated.
func NewBookCache(rdb *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{rdb: rdb, ttl: ttl}
}

func bookKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func (c *BookCache) Get(ctx context.Context, id uuid.UUID) (application.BookView, bool, error) {
	var v application.BookView
	raw, err := c.rdb.Get(ctx, bookKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, err
	}
	return v, true, nil
}

func (c *BookCache) Set(ctx context.Context, v application.BookView) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, bookKey(v.ID), b, c.ttl).Err()
}

func (c *BookCache) Delete(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, bookKey(id)).Err()
}

var _ application.BookCache = (*BookCache)(nil)
