package config

import (
	"time"
)

const (
	// EngineMySQL selects the gorm mysql driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the gorm postgres driver.
	EnginePostgres = "postgres"
	// EngineSQLite selects the pure go sqlite driver.
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras          string
	Host            string
	Port            int `validate:"gte=0,lte=65535"`
	User            string
	Password        string
	Name            string
	GormEngine      string `validate:"required,oneof=mysql postgres sqlite"`
	Path            string // database file, sqlite only
	MaxOpenConns    int    `validate:"gte=0"`
	MaxIdleConns    int    `validate:"gte=0"`
	ConnMaxLifetime time.Duration
	AutoMigrate     bool // run migrations when the service starts
}
