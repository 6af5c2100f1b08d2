// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"RAKTAR_DB_PATH" envDefault:"./data/raktar.db"`
	SessionSecret string `env:"RAKTAR_SESSION_SECRET,required"`
	ServerHost    string `env:"RAKTAR_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"RAKTAR_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"RAKTAR_ENV" envDefault:"development"`
	LogLevel      string `env:"RAKTAR_LOG_LEVEL" envDefault:"info"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MinSessionSecretLength is the minimum required length for the session
// secret used to key CSRF token authentication.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("RAKTAR_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	return cfg, nil
}
