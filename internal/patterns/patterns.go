// Package patterns aggregates shared disclosure reports into tag and care
// setting counts.
package patterns

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"algowatch/internal/patterns/cache"
	"algowatch/internal/patterns/handler"
	"algowatch/internal/patterns/service"
)

// Service aggregates patterns.
type Service = service.Service

// Handler wires HTTP endpoints to the patterns service.
type Handler = handler.Handler

// NewCache returns a Redis-backed summary cache.
func NewCache(client redis.UniversalClient, ttl time.Duration) *cache.RedisCache {
	return cache.NewRedisCache(client, ttl)
}

func NewService(reader service.SharedFactsReader, opts ...service.Option) (*Service, error) {
	return service.New(reader, opts...)
}

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
