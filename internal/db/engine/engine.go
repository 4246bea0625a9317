// Package engine opens the gorm database for the configured engine.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/config"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/logger/adapter/stdlogger"
)

const (
	pingTimeout   = 5 * time.Second
	slowThreshold = 200 * time.Millisecond
	memoryDB      = ":memory:"
)

// ErrConfigNil is returned when Open is called without a configuration.
var ErrConfigNil = errors.New("config is nil")

// Open connects to the configured database, applies the pool settings and pings it.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(cfg),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", cfg.DB.GormEngine)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	maxOpen := cfg.DB.MaxOpenConns
	if cfg.DB.GormEngine == config.EngineSQLite && cfg.DB.Path == memoryDB {
		// every connection to :memory: is its own database
		maxOpen = 1
	}

	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, errors.Wrapf(err, "failed to ping %s database", cfg.DB.GormEngine)
	}

	log.Info().
		Str("engine", cfg.DB.GormEngine).
		Str("name", databaseName(cfg)).
		Msg("database connected")

	return db, nil
}

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	source, err := dsn.Create(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gormmysql.Open(source), nil
	case config.EnginePostgres:
		return postgres.Open(source), nil
	default:
		if source != memoryDB {
			if err = os.MkdirAll(filepath.Dir(source), 0o750); err != nil { //nolint:mnd
				return nil, errors.Wrapf(err, "can't create database directory for %s", source)
			}
		}

		return sqlite.Open(source), nil
	}
}

// Close closes the connection pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// newGormLogger routes gorm's own logging through zerolog.
func newGormLogger(cfg *config.Config) logger.Interface {
	return logger.New(stdlogger.NewWithComponent("gorm"), logger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  gormLogLevel(cfg),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.DevMode {
		return logger.Info
	}

	switch cfg.Log.LogLevel {
	case "trace", "debug":
		return logger.Info
	case "info", "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

func databaseName(cfg *config.Config) string {
	if cfg.DB.GormEngine == config.EngineSQLite {
		return cfg.DB.Path
	}

	return cfg.DB.Name
}
