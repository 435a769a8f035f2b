package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/anight/teamcity-cli/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/teamcity-cli"
	configFileName = "config.yaml"
)

// Environment variable names recognized by Load. Environment values
// override the config file.
const (
	EnvURL      = "TEAMCITY_URL"
	EnvHost     = "TEAMCITY_HOST"
	EnvPort     = "TEAMCITY_PORT"
	EnvUser     = "TEAMCITY_USER"
	EnvPassword = "TEAMCITY_PASSWORD"
)

// ServerConfig describes how to reach the TeamCity server.
type ServerConfig struct {
	// URL is the full base URL of the server (e.g. https://tc.example.com).
	// When set it takes precedence over Host/Port.
	URL string `yaml:"url,omitempty"`
	// Host and Port build an http:// base URL when URL is not set.
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// Config is the root configuration structure stored in config.yaml.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Username string       `yaml:"username,omitempty"`
	Password string       `yaml:"password,omitempty"`
}

// DefaultPath returns the default configuration directory,
// ~/.config/teamcity-cli.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// Load reads the configuration from the given directory and applies
// environment overrides. A missing config.yaml is not an error; the
// defaults (plus environment) are returned.
func Load(configPath string) (Config, error) {
	var cfg Config

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
		}
		logging.Debug("config", "no config.yaml at %s, using defaults", configFilePath)
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Debug("config", "loaded configuration from %s", configFilePath)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvURL); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			logging.Warn("config", "ignoring invalid %s value %q", EnvPort, v)
		}
	}
	if v := os.Getenv(EnvUser); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		cfg.Password = v
	}
}

// BaseURL returns the server base URL, or an empty string when the
// configuration does not name a server.
func (c Config) BaseURL() string {
	if c.Server.URL != "" {
		return c.Server.URL
	}
	if c.Server.Host == "" {
		return ""
	}
	port := c.Server.Port
	if port == 0 {
		port = 80
	}
	return fmt.Sprintf("http://%s:%d", c.Server.Host, port)
}
