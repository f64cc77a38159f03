package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	menuPrefix     = "menu:"
	callbackPrefix = "payment_callback:"
)

// ErrCacheMiss is returned when a cached entry does not exist.
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Menu listing cache
func (c *Client) GetMenu(ctx context.Context, key string, dest interface{}) error {
	val, err := c.rdb.Get(ctx, menuPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get menu cache: %w", err)
	}
	return json.Unmarshal(val, dest)
}

func (c *Client) SetMenu(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal menu cache: %w", err)
	}
	return c.rdb.Set(ctx, menuPrefix+key, data, ttl).Err()
}

// InvalidateMenu drops every cached menu variant.
func (c *Client) InvalidateMenu(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, menuPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan menu cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Payment callback replay guard

// ClaimCallback records a provider transaction id. It returns false when the
// same id was already claimed within ttl.
func (c *Client) ClaimCallback(ctx context.Context, provider, transactionID string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, callbackPrefix+provider+":"+transactionID, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim callback: %w", err)
	}
	return ok, nil
}

// ReleaseCallback forgets a claim so a failed application can be retried.
func (c *Client) ReleaseCallback(ctx context.Context, provider, transactionID string) error {
	return c.rdb.Del(ctx, callbackPrefix+provider+":"+transactionID).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
