package config

import (
	"time"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// RateLimit settings for the api routes.
type RateLimit struct {
	Enabled       bool          // enable rate limiting
	Max           int           // requests per client and window
	Expiration    time.Duration // window length
	SharedStorage bool          // keep counters in the configured mysql or postgres database
}

// Webserver implement webserver settings.
type Webserver struct {
	Port           int       // listening port for the webserver
	ShutDownTime   int       // wait time for shutdown
	URL            string    // base url for the webserver
	AdminTokenHash string    // argon2id hash of the admin bearer token, empty disables auth
	DisableMetrics bool      // do not serve /metrics
	RateLimit      RateLimit // rate limiting for /api
}
