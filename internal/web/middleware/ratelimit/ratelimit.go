// Package ratelimit limits api requests per client ip.
// Counters live in memory, or with SharedStorage in the configured
// mysql or postgres database so every instance sees the same counts.
package ratelimit

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	storagemysql "github.com/gofiber/storage/mysql/v2"
	storagepostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/config"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/dsn"
)

const (
	// Table holds the counters in the shared database.
	Table = "rate_limits"

	defaultExpiration = time.Minute
	gcInterval        = 10 * time.Second
)

// New creates the limiter middleware. The second return value is the shared
// storage, nil for in memory counters. The caller closes it on shutdown.
func New(cfg *config.Config) (fiber.Handler, fiber.Storage, error) {
	rl := cfg.Webserver.RateLimit

	expiration := rl.Expiration
	if expiration <= 0 {
		expiration = defaultExpiration
	}

	var (
		storage fiber.Storage
		err     error
	)

	if rl.SharedStorage {
		storage, err = NewStorage(cfg)
		if err != nil {
			return nil, nil, err
		}
	}

	handler := limiter.New(limiter.Config{
		Max:               rl.Max,
		Expiration:        expiration,
		Storage:           storage,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c fiber.Ctx) error {
			log.Warn().Str("IP", c.IP()).Str("path", c.Path()).Msg("rate limit reached")

			return fiber.ErrTooManyRequests
		},
	})

	return handler, storage, nil
}

// NewStorage returns the shared counter storage for the configured engine.
// sqlite files are local to one instance, so they fall back to memory.
func NewStorage(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		uri, err := dsn.MySQL(&cfg.DB)
		if err != nil {
			return nil, err
		}

		return storagemysql.New(storagemysql.Config{
			ConnectionURI: uri,
			Table:         Table,
			GCInterval:    gcInterval,
		}), nil
	case config.EnginePostgres:
		return storagepostgres.New(storagepostgres.Config{
			ConnectionURI: dsn.Postgres(&cfg.DB),
			Table:         Table,
			GCInterval:    gcInterval,
		}), nil
	default:
		log.Warn().
			Str("engine", cfg.DB.GormEngine).
			Msg("shared rate limit storage needs mysql or postgres, using memory")

		return nil, nil //nolint:nilnil // nil storage selects the limiter's memory store
	}
}
