package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPingTimeout bounds the startup connectivity check so a misconfigured
// REDIS_URL fails fast instead of blocking the boot sequence.
const redisPingTimeout = 5 * time.Second

// NewRedis abre el cliente de la caché de precios a partir de REDIS_URL.
// El servidor arranca solo si la caché responde; la consulta de precios
// depende de ella.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opts.ClientName = "biblioteca"

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
