package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/dishboard/console/internal/config"
)

// NewClient creates a Redis client and performs a health check. Only used
// when the session backend is set to redis. The connection identifies
// itself to the server with clientName (CLIENT SETNAME).
func NewClient(cfg config.RedisConfig, clientName string) (*goRedis.Client, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	if clientName != "" {
		opts.ClientName = clientName
	}

	client := goRedis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
