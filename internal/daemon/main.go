// Package daemon wires the database, the migrations and the web service together.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/config"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/engine"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/migrations"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/web"
)

// ErrConfigNil is returned by New without a configuration.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// New opens the database, migrates it if configured and prepares the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := engine.Open(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err = migrations.Migrate(db); err != nil {
			_ = engine.Close(db)

			return nil, err
		}
	}

	if !migrations.Provisioned(db) {
		// the store still answers reads with defaults, writes fail until migrated
		log.Warn().Msg("system_info table is missing, run `systeminfo migrate` or enable DB.AutoMigrate")
	}

	webService, err := web.New(cfg, db)
	if err != nil {
		_ = engine.Close(db)

		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		db:         db,
		webService: webService,
	}, nil
}

// Run serves until ctx is done or the listener fails, then shuts down and closes the database.
func (d *Daemon) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	errCh := make(chan error, 1)

	go func() {
		errCh <- d.webService.Start(addr)
	}()

	select {
	case err := <-errCh:
		_ = engine.Close(d.db)

		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown request")
	}

	d.webService.Shutdown()

	err := <-errCh
	if closeErr := engine.Close(d.db); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close database")
	}

	return err
}

// Web returns the web service.
func (d *Daemon) Web() *web.Service {
	return d.webService
}
