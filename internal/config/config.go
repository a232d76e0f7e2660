// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads CLI configuration from the environment.
// Values come from process environment variables, falling back to dotenv files
// (./.env, then $XDG_CONFIG_HOME/examdesk/config.env). Secrets such as the bearer
// credential never live here; they go to the OS keychain.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "examdesk/cli/internal/errors"
	"examdesk/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIURL   string        `env:"API_URL" envDefault:"http://localhost:10000"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
	LogLevel string        `env:"LOG_LEVEL" envDefault:"info"`
	Keyring  KeyringConfig `envPrefix:"KEYRING_"`
	Paths    PathsConfig   `envPrefix:"PATH_"`
}

// KeyringConfig selects where the bearer credential is stored.
type KeyringConfig struct {
	// Backend forces a single keyring backend (e.g. "file", "secret-service").
	// Empty lets the keyring library pick the best available one.
	Backend  string `env:"BACKEND"`
	Dir      string `env:"DIR"`
	Password string `env:"PASSWORD"`
}

// PathsConfig holds the Auth API paths relative to APIURL.
type PathsConfig struct {
	Login  string `env:"LOGIN" envDefault:"/login"`
	Me     string `env:"ME" envDefault:"/mylogin"`
	Logout string `env:"LOGOUT" envDefault:"/logout"`
	Slots  string `env:"SLOTS" envDefault:"/slots_availability"`
}

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "EXAMDESK_"

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads configuration from dotenv files and the process environment.
// The process environment always wins over dotenv values.
func Load() (Config, error) {
	environ := map[string]string{}
	for _, p := range dotenvFiles() {
		vals, err := godotenv.Read(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, apperrors.Wrap(apperrors.ConfigurationError, "cannot read "+p, err)
		}
		for k, v := range vals {
			if _, seen := environ[k]; !seen {
				environ[k] = v
			}
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	return FromEnvironment(environ)
}

// FromEnvironment parses configuration from an explicit variable map.
func FromEnvironment(environ map[string]string) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return c, apperrors.Wrap(apperrors.ConfigurationError, "invalid environment", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks values the env tags cannot express.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.New(apperrors.ConfigurationError,
			fmt.Sprintf("%sAPI_URL must be an absolute http(s) URL, got %q", EnvPrefix, c.APIURL))
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Timeout <= 0 {
		return apperrors.New(apperrors.ConfigurationError, EnvPrefix+"TIMEOUT must be positive")
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if !validLevels[c.LogLevel] {
		return apperrors.New(apperrors.ConfigurationError,
			fmt.Sprintf("%sLOG_LEVEL must be one of debug, info, warn, error; got %q", EnvPrefix, c.LogLevel))
	}
	return nil
}

// dotenvFiles lists dotenv files in priority order.
func dotenvFiles() []string {
	files := []string{".env"}
	if dir, err := xdg.ConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "config.env"))
	}
	return files
}
