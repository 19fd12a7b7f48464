// Package config loads server configuration from a YAML file with
// NEXUS_* environment overrides and sane defaults, so a bare binary
// starts without any file at all.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Room     RoomConfig     `mapstructure:"room"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig points at PostgreSQL; an empty URL switches snapshot
// persistence to the file store under Room.SaveDir.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RoomConfig controls per-room journaling and file persistence.
type RoomConfig struct {
	JournalEnabled bool   `mapstructure:"journal_enabled"`
	JournalDir     string `mapstructure:"journal_dir"`
	SaveDir        string `mapstructure:"save_dir"`
}

// Load reads the configuration. A missing file is not an error; the
// defaults and environment cover every key.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.url", "")
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("room.journal_enabled", true)
	v.SetDefault("room.journal_dir", "data/journals")
	v.SetDefault("room.save_dir", "data/saves")

	v.SetEnvPrefix("NEXUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return fmt.Errorf("server.address is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Room.JournalEnabled && strings.TrimSpace(c.Room.JournalDir) == "" {
		return fmt.Errorf("room.journal_dir is required when journaling is enabled")
	}
	return nil
}
