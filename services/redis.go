package services

import (
	"context"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisService provides the shared cache used for leaderboard results.
// Caching is best-effort: when REDIS_ADDR is unset or the server is
// unreachable the service stays up with a nil client and every operation
// reports cacheUnavailable, which callers treat as a miss.
type RedisService struct {
	appContext.DefaultService
	redis *redis.Client
}

const REDIS_SVC = "redis_svc"

type cacheUnavailableError struct{}

func (cacheUnavailableError) Error() string {
	return "cache unavailable"
}

var errCacheUnavailable = cacheUnavailableError{}

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		db := 0
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			if parsed, err := strconv.Atoi(dbStr); err == nil {
				db = parsed
			}
		}

		svc.redis = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       db,
		})
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis == nil {
		log.Println("Redis not configured, leaderboard caching disabled")
		return nil
	}

	if _, err := svc.redis.Ping(context.Background()).Result(); err != nil {
		log.WithError(err).Warn("Redis unreachable, leaderboard caching disabled")
		svc.redis = nil
	}
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

// Enabled reports whether a live client is attached.
func (svc *RedisService) Enabled() bool {
	return svc.redis != nil
}

func (svc *RedisService) Set(key, value string, expiration time.Duration) error {
	if svc.redis == nil {
		return errCacheUnavailable
	}
	return svc.redis.Set(context.Background(), key, value, expiration).Err()
}

// Get returns the cached value, or "" on a miss.
func (svc *RedisService) Get(key string) (string, error) {
	if svc.redis == nil {
		return "", errCacheUnavailable
	}

	result, err := svc.redis.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return result, err
}

func (svc *RedisService) Delete(keys ...string) error {
	if svc.redis == nil {
		return errCacheUnavailable
	}
	return svc.redis.Del(context.Background(), keys...).Err()
}

// DeletePrefix drops every key under the given prefix.
func (svc *RedisService) DeletePrefix(prefix string) error {
	if svc.redis == nil {
		return errCacheUnavailable
	}

	ctx := context.Background()
	keys, err := svc.redis.Keys(ctx, prefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return svc.redis.Del(ctx, keys...).Err()
}
