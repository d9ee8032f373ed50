package session

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"citizen-service/internal/config"
)

// NewRedis connects the session store backend. A missing Redis is a
// warning, not a startup failure: the store falls back to the users
// table on every resolve.
func NewRedis(cfg config.RedisConfig, log zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("unable to reach redis")
	} else {
		log.Info().Str("addr", cfg.Addr).Msg("connected to redis")
	}

	return client
}
