package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrInvalidDB error if the db section fails validation.
	ErrInvalidDB = errors.New("toml config db section is invalid")

	// ErrEmptySQLitePath error if the sqlite engine is selected without a database file.
	ErrEmptySQLitePath = errors.New("toml config db.path can not be empty for the sqlite engine")

	// ErrRateLimitMax error if rate limiting is enabled without a positive maximum.
	ErrRateLimitMax = errors.New("toml config webserver.ratelimit.max must be greater than 0")
)
