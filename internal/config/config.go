// Package config defines the application configuration and loads it from a
// YAML file. A missing file is not an error: every field has a usable
// default so the dashboard can start with nothing but a targets path.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"kpidash/pkg/constants"
)

// Configuration holds all runtime configuration for the dashboard.
type Configuration struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
	Targets   TargetsConfig   `mapstructure:"targets"`
	Warehouse WarehouseConfig `mapstructure:"warehouse"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`      // debug, info, warn, error
	Format     string `mapstructure:"format"`     // json, console
	OutputFile string `mapstructure:"outputFile"` // optional file output
}

// ServerConfig holds the HTTP listener options.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// TargetsConfig locates the targets file and tunes its read cache.
type TargetsConfig struct {
	Path            string `mapstructure:"path"`
	CacheTTLSeconds int    `mapstructure:"cacheTTLSeconds"`
}

// CacheTTL returns the targets read-cache TTL.
func (t TargetsConfig) CacheTTL() time.Duration {
	if t.CacheTTLSeconds <= 0 {
		return constants.DefaultTargetsCacheTTL
	}
	return time.Duration(t.CacheTTLSeconds) * time.Second
}

// WarehouseConfig locates the warehouse extract. An empty path disables the
// live source and the dashboard serves fallback actuals.
type WarehouseConfig struct {
	Path                string `mapstructure:"path"`
	CacheTTLSeconds     int    `mapstructure:"cacheTTLSeconds"`
	QueryTimeoutSeconds int    `mapstructure:"queryTimeoutSeconds"`
}

// Enabled reports whether a warehouse source is configured.
func (w WarehouseConfig) Enabled() bool { return w.Path != "" }

// CacheTTL returns the warehouse batch-cache TTL.
func (w WarehouseConfig) CacheTTL() time.Duration {
	if w.CacheTTLSeconds <= 0 {
		return constants.DefaultWarehouseCacheTTL
	}
	return time.Duration(w.CacheTTLSeconds) * time.Second
}

// QueryTimeout returns the per-query timeout.
func (w WarehouseConfig) QueryTimeout() time.Duration {
	if w.QueryTimeoutSeconds <= 0 {
		return constants.DefaultWarehouseQueryTimeout
	}
	return time.Duration(w.QueryTimeoutSeconds) * time.Second
}

// Default returns the configuration used when no config file exists.
func Default() *Configuration {
	return &Configuration{
		Server:  ServerConfig{Address: constants.DefaultServerAddress},
		Targets: TargetsConfig{Path: constants.DefaultTargetsFile},
	}
}

// LoadConfiguration loads the YAML configuration at configPath. A missing
// file returns the defaults without error; a present but unreadable or
// malformed file is an error.
func LoadConfiguration(configPath string) (*Configuration, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = constants.DefaultServerAddress
	}
	if cfg.Targets.Path == "" {
		cfg.Targets.Path = constants.DefaultTargetsFile
	}
	return cfg, nil
}
