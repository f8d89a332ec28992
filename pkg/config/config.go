// Package config provides configuration loading and validation for the
// custodytree CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidMaxSize     = errors.New("default max size must be positive")
	ErrInvalidLogLevel    = errors.New("unknown log level")
	ErrInvalidMetricsAddr = errors.New("metrics address must be host:port")
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Default configuration values.
const (
	defaultMaxSize     = 1024
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultMetricsAddr = "127.0.0.1:9090"
)

// Config holds the CLI's default settings. The tree's own max_size is
// always an explicit call argument, never implicit config;
// DefaultMaxSize seeds `custodytree create` when the user passes no
// --max-size flag, and any other command that finds no session yet.
type Config struct {
	DefaultMaxSize uint64 `mapstructure:"default_max_size"`
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	MetricsAddr    string `mapstructure:"metrics_addr"`
}

// LoadConfig loads configuration from file and environment variables.
// A missing config file is not an error, since every field has a
// default.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/custodytree")
	}

	viperCfg.SetEnvPrefix("CUSTODYTREE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) && !errors.Is(readErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&cfg)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("default_max_size", defaultMaxSize)
	viperCfg.SetDefault("log_level", defaultLogLevel)
	viperCfg.SetDefault("log_format", defaultLogFormat)
	viperCfg.SetDefault("otlp_endpoint", "")
	viperCfg.SetDefault("metrics_addr", defaultMetricsAddr)
}

func validateConfig(cfg *Config) error {
	if cfg.DefaultMaxSize == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSize, cfg.DefaultMaxSize)
	}

	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	if cfg.MetricsAddr != "" && !strings.Contains(cfg.MetricsAddr, ":") {
		return fmt.Errorf("%w: %q", ErrInvalidMetricsAddr, cfg.MetricsAddr)
	}

	return nil
}
