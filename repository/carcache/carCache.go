// Read cache for car rows. Car details are hot on the browse surface
// and change rarely; keys are invalidated on every car mutation.
package carcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voom/model"

	"github.com/redis/go-redis/v9"
)

const ttl = 5 * time.Minute

type Cache struct {
	rdb *redis.Client
}

// New returns a disabled cache when url is empty; all lookups miss.
func New(url string) (*Cache, error) {
	if url == "" {
		return &Cache{}, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Cache{rdb: redis.NewClient(opt)}, nil
}

func key(id int64) string { return fmt.Sprintf("car:%d", id) }

// Get returns (nil, nil) on a miss or when the cache is disabled.
func (c *Cache) Get(ctx context.Context, id int64) (*model.Car, error) {
	if c.rdb == nil {
		return nil, nil
	}
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	car := &model.Car{}
	if err := json.Unmarshal(raw, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (c *Cache) Set(ctx context.Context, car *model.Car) error {
	if c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(car)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(car.ID), raw, ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, id int64) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, key(id)).Err()
}
