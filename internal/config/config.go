// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

// Package config loads server configuration from defaults, an optional
// YAML file, DERELICT_* environment variables, and command-line flags, in
// ascending precedence.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds all server settings.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Observability ObservabilityConfig `koanf:"observability"`
	Database      DatabaseConfig      `koanf:"database"`
	Log           LogConfig           `koanf:"log"`
	Game          GameConfig          `koanf:"game"`
}

// ServerConfig holds the HTTP gateway settings.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// ObservabilityConfig holds the metrics/health endpoint settings.
type ObservabilityConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// GameConfig holds gameplay settings.
type GameConfig struct {
	// StartRoom is where newly provisioned players begin.
	StartRoom string `koanf:"start_room"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:        ServerConfig{Addr: ":8080"},
		Observability: ObservabilityConfig{Addr: ":9090"},
		Log:           LogConfig{Level: "info", Format: "text"},
		Game:          GameConfig{StartRoom: "secondary-control-room"},
	}
}

// envPrefix is stripped from environment variables; the remainder maps to
// config keys with _ as the separator (DERELICT_DATABASE_URL → database.url).
const envPrefix = "DERELICT_"

// Load builds the effective configuration. path may be empty; flags may be
// nil. Later sources win: defaults < file < environment < flags.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, oops.Code("CONFIG_INVALID").With("path", path).Wrap(err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.TrimPrefix(s, envPrefix)
		// Only the first underscore separates section from key, so
		// START_ROOM stays start_room under game.
		return strings.Replace(strings.ToLower(key), "_", ".", 1)
	}), nil)
	if err != nil {
		return cfg, oops.Code("CONFIG_INVALID").With("source", "env").Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return cfg, oops.Code("CONFIG_INVALID").With("source", "flags").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks settings that have no workable zero value.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url is required (set DERELICT_DATABASE_URL or database.url in the config file)")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return oops.Code("CONFIG_INVALID").
			Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return oops.Code("CONFIG_INVALID").
			Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level)
	}
	if c.Game.StartRoom == "" {
		return oops.Code("CONFIG_INVALID").Errorf("game.start_room is required")
	}
	return nil
}
