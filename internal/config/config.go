package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adaptived/cadence/internal/learning"
	"gopkg.in/yaml.v3"
)

// Config holds all cadence configuration.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Database DatabaseConfig  `yaml:"database"`
	Learning learning.Config `yaml:"learning"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37717,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Learning: learning.DefaultConfig(),
	}
}

// DefaultPath returns ~/.cadence/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".cadence", "config.yaml"), nil
}

// Load reads the config file at path, layering it over defaults, then
// applies environment overrides. A missing file is not an error; the
// defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv layers CADENCE_* environment overrides on top of the file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CADENCE_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("CADENCE_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("CADENCE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Server.Port = p
		}
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
