package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"sentinel/internal/domain"
)

const (
	DefaultKey = "sentinel:references"
	DefaultTTL = 5 * time.Minute
)

// Client is the subset of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Config configures the Redis connection and cache key.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
}

// Cache wraps a provider and keeps its last collection in Redis for TTL.
// Redis failures are logged and the wrapped provider is used directly.
type Cache struct {
	client Client
	next   domain.ReferenceProvider
	key    string
	ttl    time.Duration
	log    *logrus.Entry
}

// Dial connects to Redis, verifies connectivity and wraps next.
func Dial(ctx context.Context, cfg Config, next domain.ReferenceProvider, log *logrus.Entry) (*Cache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return New(client, next, cfg.Key, cfg.TTL, log), client, nil
}

// New wraps next with a cache stored under key.
func New(client Client, next domain.ReferenceProvider, key string, ttl time.Duration, log *logrus.Entry) *Cache {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Cache{client: client, next: next, key: key, ttl: ttl, log: log.WithField("cache_key", key)}
}

// Name returns the wrapped provider's name with a cache marker.
func (c *Cache) Name() string { return c.next.Name() + "+redis" }

// References serves the cached collection when present, otherwise loads it
// from the wrapped provider and stores it.
func (c *Cache) References(ctx context.Context) ([]domain.Document, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		docs := []domain.Document{}
		jerr := json.Unmarshal(raw, &docs)
		if jerr == nil {
			c.log.Debug("reference cache hit")
			return docs, nil
		}
		c.log.WithError(jerr).Warn("discarding undecodable reference cache entry")
	case errors.Is(err, redis.Nil):
		c.log.Debug("reference cache miss")
	default:
		c.log.WithError(err).Warn("reference cache read failed")
	}

	docs, err := c.next.References(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return docs, nil
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("reference cache write failed")
	}
	return docs, nil
}

// Add stores doc through the wrapped provider and drops the cached collection.
func (c *Cache) Add(ctx context.Context, doc domain.Document) error {
	w, ok := c.next.(domain.ReferenceWriter)
	if !ok {
		return domain.ErrReadOnly
	}
	if err := w.Add(ctx, doc); err != nil {
		return err
	}
	return c.Invalidate(ctx)
}

// Invalidate removes the cached collection.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("invalidate reference cache: %w", err)
	}
	return nil
}
