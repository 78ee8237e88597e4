// Package config loads server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DBConfig struct {
	// Path is the SQLite database file. Empty means the per-user
	// default under ~/.config/tasktime.
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load reads configuration from the file named by TASKTIME_CONFIG_PATH,
// if set, then applies TASKTIME_* environment overrides on top.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("TASKTIME_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if addr := os.Getenv("TASKTIME_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if dbPath := os.Getenv("TASKTIME_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TASKTIME_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if jsonStr := os.Getenv("TASKTIME_LOG_JSON"); jsonStr != "" {
		jsonLog, err := strconv.ParseBool(jsonStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TASKTIME_LOG_JSON: %w", err)
		}
		cfg.Log.JSON = jsonLog
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
