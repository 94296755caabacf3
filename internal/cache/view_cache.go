package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	viewKeyPrefix     = "view"
	viewScanBatchSize = 100
	pingTimeout       = 5 * time.Second
)

// ViewCache stores computed view results keyed by view name and parameters.
// Set always overwrites, so a cached view is replaced as a whole.
type ViewCache interface {
	Get(ctx context.Context, view, params string, dest any) (bool, error)
	Set(ctx context.Context, view, params string, value any) error
	Invalidate(ctx context.Context, view string) error
}

type redisViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopViewCache struct{}

func NewViewCache(cfg config.CacheConfig) (ViewCache, error) {
	if !cfg.Enabled {
		return &noopViewCache{}, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisViewCache(client, cfg.ViewTTL()), nil
}

// redisOptions prefers REDIS_URL and falls back to host, port and db.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// NewRedisViewCache wraps an existing client.
func NewRedisViewCache(client *redis.Client, ttl time.Duration) ViewCache {
	return &redisViewCache{client: client, ttl: ttl}
}

func NewNoopViewCache() ViewCache {
	return &noopViewCache{}
}

func (c *redisViewCache) Get(ctx context.Context, view, params string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, buildViewKey(view, params)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode %s view cache: %w", view, err)
	}
	return true, nil
}

func (c *redisViewCache) Set(ctx context.Context, view, params string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s view cache: %w", view, err)
	}

	if err := c.client.Set(ctx, buildViewKey(view, params), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate drops every cached parameter set of view.
func (c *redisViewCache) Invalidate(ctx context.Context, view string) error {
	iter := c.client.Scan(ctx, 0, viewPrefix(view)+"*", viewScanBatchSize).Iterator()

	keys := make([]string, 0, viewScanBatchSize)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == viewScanBatchSize {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("invalidate %s views: %w", view, err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %s views: %w", view, err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("invalidate %s views: %w", view, err)
		}
	}
	return nil
}

func (n *noopViewCache) Get(ctx context.Context, view, params string, dest any) (bool, error) {
	return false, nil
}

func (n *noopViewCache) Set(ctx context.Context, view, params string, value any) error {
	return nil
}

func (n *noopViewCache) Invalidate(ctx context.Context, view string) error {
	return nil
}

func viewPrefix(view string) string {
	return fmt.Sprintf("%s:%s:", viewKeyPrefix, view)
}

func buildViewKey(view, params string) string {
	return viewPrefix(view) + paramsHash(params)
}

func paramsHash(params string) string {
	params = strings.TrimSpace(params)
	if params == "" {
		return "default"
	}

	sum := sha1.Sum([]byte(params))
	return hex.EncodeToString(sum[:])
}
