// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the go-redis client used for derived, expiring data.

Today that is the per-channel subscriber count. Everything stored here can be
rebuilt from PostgreSQL, so an outage only costs extra queries.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout  = 3 * time.Second
	ioTimeout    = 2 * time.Second
	pingTimeout  = 2 * time.Second
	defaultPool  = 10
	minIdleConns = 2
)

// Options tunes the client beyond what the URL expresses.
type Options struct {
	// PoolSize caps open connections. Zero uses a pool of 10.
	PoolSize int
}

// NewClient parses redisURL, applies opts and pings once before returning.
func NewClient(context stdctx.Context, redisURL string, opts Options, logger *slog.Logger) (*redis.Client, error) {
	options, err := clientOptions(redisURL, opts)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

func clientOptions(redisURL string, opts Options) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = defaultPool
	if opts.PoolSize > 0 {
		options.PoolSize = opts.PoolSize
	}
	options.MinIdleConns = min(minIdleConns, options.PoolSize)
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	return options, nil
}

// Ping round-trips PING with a short deadline. Used at boot and by /ready.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
