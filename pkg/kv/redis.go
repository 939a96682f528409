package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shadowwear/storefront-core/pkg/config"
	"github.com/shadowwear/storefront-core/pkg/logger"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisStore keeps snapshots on a redis host for storefronts that share a
// cache box instead of writing a local file. Entries carry no TTL; the
// snapshot lives until overwritten or deleted.
type RedisStore struct {
	store     cmdable
	raw       *redis.Client
	namespace string
	logg      *logger.Logger
}

// NewRedis bootstraps the client and verifies connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig, storeCfg config.StoreConfig, logg *logger.Logger) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, raw: raw, namespace: storeCfg.Namespace, logg: logg}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, value any) {
	payload, err := encode(value)
	if err != nil {
		s.warn(ctx, key, "encoding snapshot failed", err)
		return
	}
	if err := s.store.Set(ctx, namespacedKey(s.namespace, key), payload, 0).Err(); err != nil {
		s.warn(ctx, key, "saving snapshot failed", err)
	}
}

func (s *RedisStore) Load(ctx context.Context, key string, dest any) bool {
	payload, err := s.store.Get(ctx, namespacedKey(s.namespace, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.warn(ctx, key, "loading snapshot failed", err)
		}
		return false
	}
	if err := decode(payload, dest); err != nil {
		s.warn(ctx, key, "stored snapshot is malformed, using fallback", err)
		return false
	}
	return true
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	if err := s.store.Del(ctx, namespacedKey(s.namespace, key)).Err(); err != nil {
		s.warn(ctx, key, "deleting snapshot failed", err)
	}
}

func (s *RedisStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}

func (s *RedisStore) warn(ctx context.Context, key, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(s.logg.WithStoreKey(ctx, key), msg, err)
}
