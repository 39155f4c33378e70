package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/adeliap/rotiku-backend/config"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const storeStatusKey = "store:closed"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken adds a token to the blacklist
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	err := client.Set(ctx, key, "revoked", expiry).Err()
	if err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	return val == "revoked", nil
}

// CacheStoreClosed caches the store closure flag for the given TTL.
func CacheStoreClosed(ctx context.Context, closed bool, ttl time.Duration) error {
	val := "0"
	if closed {
		val = "1"
	}
	return client.Set(ctx, storeStatusKey, val, ttl).Err()
}

// GetCachedStoreClosed reads the cached closure flag. The second return
// value reports a cache hit; on miss the caller falls back to the database.
func GetCachedStoreClosed(ctx context.Context) (bool, bool, error) {
	val, err := client.Get(ctx, storeStatusKey).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return val == "1", true, nil
}

// InvalidateStoreStatus drops the cached closure flag after an admin toggle.
func InvalidateStoreStatus(ctx context.Context) error {
	return client.Del(ctx, storeStatusKey).Err()
}
