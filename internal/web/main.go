// Package web serves the system info api, the admin pages, /checkalive and /metrics.
package web

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/template/html/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/config"
	fiberlogger "github.com/GoPowerDNS-Admin/systeminfo/internal/logger/adapter/fiber"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/web/handler"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/web/handler/systeminfo"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/web/middleware/auth"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/web/middleware/ratelimit"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic and 503 during shutdown.
	CheckAlivePath = "/checkalive"

	// MetricsPath serves the prometheus metrics.
	MetricsPath = "/metrics"

	readBufferSize = 8192
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	limitStorage fiber.Storage
	addr         atomic.Value
	ready        chan struct{}
	readyOnce    sync.Once
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	s.alive.Store(true)

	err := s.App.Listen(addr, fiber.ListenConfig{
		DisableStartupMessage: !s.cfg.DevMode,
		ListenerAddrFunc: func(a net.Addr) {
			s.addr.Store(a.String())
			s.readyOnce.Do(func() { close(s.ready) })
		},
	})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.alive.Store(false)

		return err
	}

	return nil
}

// Ready is closed once the listener accepts connections.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the address the service listens on, empty before it is ready.
func (s *Service) Addr() string {
	addr, _ := s.addr.Load().(string)

	return addr
}

// Shutdown stops the http server. Unless fast shutdown is set, /checkalive
// fails for ShutDownTime seconds first so load balancers drain this instance.
func (s *Service) Shutdown() {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	if s.limitStorage != nil {
		if err := s.limitStorage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close rate limit storage")
		}
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// SetFastShutDown skips the drain period on shutdown.
func (s *Service) SetFastShutDown(fast bool) {
	s.fastShutDown = fast
}

// Alive reports whether /checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	templateEngine := html.NewFileSystem(http.FS(templateEmbedFS{embeddedTemplates}), ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: readBufferSize,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Immutable:      true,
			Views:          templateEngine,
			ErrorHandler:   errorHandler,
		},
	)

	service := &Service{
		cfg:   cfg,
		App:   app,
		db:    db,
		ready: make(chan struct{}),
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	app.Get(CheckAlivePath, service.checkAlive)

	if !cfg.Webserver.DisableMetrics {
		app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	tokenMiddleware := auth.New(cfg.Webserver.AdminTokenHash)

	apiHandlers := []any{tokenMiddleware}

	if cfg.Webserver.RateLimit.Enabled {
		limit, storage, err := ratelimit.New(cfg)
		if err != nil {
			return nil, err
		}

		service.limitStorage = storage
		apiHandlers = append(apiHandlers, limit)
	}

	api := app.Group(handler.APIPrefix, apiHandlers...)
	admin := app.Group(handler.AdminPrefix, tokenMiddleware)

	new(systeminfo.Service).Init(api, admin, cfg, db)

	app.Get(handler.RootPath, func(c fiber.Ctx) error {
		return c.Redirect().To(handler.AdminPrefix + systeminfo.Path)
	})

	return service, nil
}

func (s *Service) checkAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// errorHandler answers api errors as json and everything else as text.
func errorHandler(c fiber.Ctx, err error) error {
	if strings.HasPrefix(c.Path(), handler.APIPrefix+"/") {
		return handler.JSONErrorHandler(c, err)
	}

	return fiber.DefaultErrorHandler(c, err)
}
