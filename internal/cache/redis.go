package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const listingsPrefix = "cache:travel_options:"

type RedisCache struct {
	client      *redis.Client
	listingsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, listingsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		listingsTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, listingsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, listingsTTL: listingsTTL}
}

// GetListings returns nil, nil on a miss.
func (c *RedisCache) GetListings(ctx context.Context, filter domain.ListFilter) ([]domain.TravelOption, error) {
	data, err := c.client.Get(ctx, listingsKey(filter)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var options []domain.TravelOption
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, err
	}
	return options, nil
}

func (c *RedisCache) SetListings(ctx context.Context, filter domain.ListFilter, options []domain.TravelOption) error {
	payload, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingsKey(filter), payload, c.listingsTTL).Err()
}

// InvalidateListings drops every cached listing. Seat counts are part of the
// cached payload, so any reservation or release makes them stale.
func (c *RedisCache) InvalidateListings(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, listingsPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func listingsKey(filter domain.ListFilter) string {
	return fmt.Sprintf("%s%s:%s:%s", listingsPrefix,
		filter.Mode,
		strings.ToLower(strings.TrimSpace(filter.Source)),
		strings.ToLower(strings.TrimSpace(filter.Destination)))
}
