package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ConnectRedis returns nil when Redis is not configured or unreachable;
// callers run without the read cache in that case.
func ConnectRedis(ctx context.Context, cfg Config, log *logrus.Logger) *redis.Client {
	var rdb *redis.Client

	switch {
	case cfg.RedisMode == "sentinel":
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.RedisMasterName,
			SentinelAddrs:    cfg.RedisSentinels,
			Password:         cfg.RedisPassword,
			SentinelPassword: cfg.RedisPassword,
			DB:               0,
		})
	case cfg.RedisHost != "":
		rdb = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       0,
		})
	default:
		log.Info("redis not configured, read cache disabled")
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).WithField("mode", cfg.RedisMode).Warn("failed to connect to redis, read cache disabled")
		_ = rdb.Close()
		return nil
	}

	log.WithField("mode", cfg.RedisMode).Info("redis connected")
	return rdb
}
