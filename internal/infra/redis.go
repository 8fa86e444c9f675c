package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens the Redis connection shared by the job queues
// (jobs:comprobante, jobs:notificacion) and the product catalog cache.
// A failed ping aborts startup: the workers block on BRPOP against this
// client and cannot run degraded without it.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	// Queue pops block for seconds at a time; the read timeout must
	// outlive the BRPOP timeout or every idle poll logs an error.
	opts.ReadTimeout = 10 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
