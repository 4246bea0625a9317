// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables overriding single config keys,
	// e.g. SYSTEMINFO_DB_HOST overrides DB.Host.
	EnvPrefix = "SYSTEMINFO"

	// JSONConfigEnv holds a JSON document merged on top of the file and env config.
	JSONConfigEnv = "SYSTEMINFO_CONFIG_JSON"

	// MainConfigFile is the name of the main config file inside the config directory.
	MainConfigFile = "main.toml"

	defaultShutDownTime = 5
	maskedPassword      = "********"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c   = defaults()
		err error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, MainConfigFile))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, c)

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	if configAsJSON := os.Getenv(JSONConfigEnv); configAsJSON != "" {
		c, err = decodeAndMergeConfig(c, configAsJSON)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

// defaults returns the values used for keys missing in the config file.
func defaults() Config {
	return Config{
		Title: "systeminfo",
		DB: DB{
			GormEngine:  EngineSQLite,
			Path:        "./data/systeminfo.db",
			AutoMigrate: true,
		},
		Webserver: Webserver{
			ShutDownTime: defaultShutDownTime,
		},
	}
}

// bindEnvs registers every config key so viper looks up the matching
// environment variable even if the key is missing in the config file.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}

		key := append(append([]string{}, parts...), strings.ToLower(f.Name))

		if f.Type.Kind() == reflect.Struct && f.Type.PkgPath() != "time" {
			bindEnvs(v, reflect.New(f.Type).Elem().Interface(), key...)
			continue
		}

		_ = v.BindEnv(strings.Join(key, "."))
	}
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config from env")
	}

	return c, nil
}

// masked returns a copy of c safe to print.
func masked(c *Config) Config {
	out := *c
	if out.DB.Password != "" {
		out.DB.Password = maskedPassword
	}

	return out
}

// DumpConfig config as TOML String. The database password is masked.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(masked(c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String. The database password is masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(masked(c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if err := validator.New().Struct(c.DB); err != nil {
		return errors.Wrap(ErrInvalidDB, err.Error())
	}

	if c.DB.GormEngine == EngineSQLite && c.DB.Path == "" {
		return errors.Wrap(ErrEmptySQLitePath, invalidErrMessage)
	}

	if c.Webserver.RateLimit.Enabled && c.Webserver.RateLimit.Max <= 0 {
		return errors.Wrap(ErrRateLimitMax, invalidErrMessage)
	}

	return nil
}
