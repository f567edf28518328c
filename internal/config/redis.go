package config

// Redis backs the response cache and the rate limiter. Both features are
// optional: when the server cannot reach Redis at startup the constructor
// returns nil and the middleware runs in passthrough mode.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harshk49/notes-app-backend/internal/logger"
)

// NewRedisClient builds a client from the environment and verifies it with
// a short ping. Recognized variables:
//
//	REDIS_ADDR            host:port (default localhost:6379)
//	REDIS_HOST/REDIS_PORT pair form, overrides REDIS_ADDR when both are set
//	REDIS_PASSWORD        optional password
//	REDIS_DB              database number (default 0)
//	REDIS_TLS             enable TLS with certificate verification
//	REDIS_TLS_SKIP_VERIFY skip certificate verification (self-signed dev setups only)
//
// Returns nil when the ping fails.
func NewRedisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:      redisAddr(),
		Password:  envStr("REDIS_PASSWORD", ""),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: redisTLSConfig(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

func redisAddr() string {
	host := envStr("REDIS_HOST", "")
	port := envStr("REDIS_PORT", "")
	if host != "" && port != "" {
		return host + ":" + port
	}
	return envStr("REDIS_ADDR", "localhost:6379")
}

// redisTLSConfig returns nil unless REDIS_TLS is set. Verification stays on
// by default; REDIS_TLS_SKIP_VERIFY turns it off for self-signed setups.
func redisTLSConfig() *tls.Config {
	if !envBool("REDIS_TLS", false) {
		return nil
	}
	conf := &tls.Config{MinVersion: tls.VersionTLS12}
	if envBool("REDIS_TLS_SKIP_VERIFY", false) {
		logger.Sugar.Warn("redis: TLS certificate verification disabled")
		conf.InsecureSkipVerify = true
	}
	return conf
}
