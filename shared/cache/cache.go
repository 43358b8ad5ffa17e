package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotel/infras/otel"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	scanBatchSize         = 100
	Nil                   = redis.Nil
)

// RedisCache stores JSON values; strings are stored as is. A miss is
// reported as an error wrapping Nil.
type RedisCache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, prefix string) error
	Exists(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string, duration int) (int64, error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

// begin opens a scope for op on key. The returned func ends it and records
// the error the operation finished with.
func (cache *redisCache) begin(ctx context.Context, op, key string) (context.Context, func(error)) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+op)
	scope.SetAttribute(otelCacheKeyAttribute, key)

	return ctx, func(err error) {
		scope.TraceIfError(err)
		scope.End()
	}
}

// Clear removes every key matching the glob pattern, one UNLINK per scanned
// page.
func (cache *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, end := cache.begin(ctx, "Clear", pattern)
	defer func() { end(err) }()

	var cursor uint64

	for {
		keys, next, scanErr := cache.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if scanErr != nil {
			return fmt.Errorf("failed to scan cache keys: %w", scanErr)
		}

		if len(keys) > 0 {
			if err = cache.client.Unlink(ctx, keys...).Err(); err != nil {
				log.Error().Err(err).Str("pattern", pattern).Int("keys", len(keys)).Msg("failed to clear cache")

				return fmt.Errorf("failed to delete cache value: %w", err)
			}
		}

		if next == 0 {
			return nil
		}

		cursor = next
	}
}

func (cache *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, end := cache.begin(ctx, "Delete", key)
	defer func() { end(err) }()

	if err = cache.client.Del(ctx, key).Err(); err != nil {
		log.Error().Str("key", key).Err(err).Msg("failed to delete cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

func (cache *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, end := cache.begin(ctx, "Get", key)
	defer func() {
		if errors.Is(err, Nil) {
			end(nil)

			return
		}

		end(err)
	}()

	raw, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if s, ok := value.(*string); ok {
		*s = string(raw)

		return nil
	}

	if err = json.Unmarshal(raw, value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal cache")

		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

func (cache *redisCache) Exists(ctx context.Context, key string) (exists bool, err error) {
	ctx, end := cache.begin(ctx, "Exists", key)
	defer func() { end(err) }()

	count, err := cache.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache key: %w", err)
	}

	return count > 0, nil
}

// Increment adds one to the counter at key. The expiry is only set by the
// call that creates the counter, so later calls never extend it.
func (cache *redisCache) Increment(ctx context.Context, key string, duration int) (count int64, err error) {
	ctx, end := cache.begin(ctx, "Increment", key)
	defer func() { end(err) }()

	if count, err = cache.client.Incr(ctx, key).Result(); err != nil {
		return 0, fmt.Errorf("failed to increment cache value: %w", err)
	}

	if count == 1 && duration > 0 {
		if err = cache.client.Expire(ctx, key, time.Duration(duration)*time.Second).Err(); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to set counter expiry")

			return count, fmt.Errorf("failed to set cache expiry: %w", err)
		}
	}

	return count, nil
}

// Save stores value for duration seconds. A non-positive duration keeps the
// key until it is deleted.
func (cache *redisCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, end := cache.begin(ctx, "Save", key)
	defer func() { end(err) }()

	var payload []byte

	switch v := value.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		if payload, err = json.Marshal(v); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to marshal cache")

			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
	}

	ttl := time.Duration(max(duration, 0)) * time.Second

	if err = cache.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache saved")

	return nil
}
