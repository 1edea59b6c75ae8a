// Package config loads service configuration from an optional YAML file and
// the environment. Environment variables win over file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gt=0,lt=65536"`
	AllowedOrigins []string `yaml:"allowedOrigins" validate:"dive,required"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver" validate:"oneof=sqlite postgres memory"`
	SqlitePath  string `yaml:"sqlitePath" validate:"required_if=Driver sqlite"`
	DatabaseURL string `yaml:"databaseURL" validate:"required_if=Driver postgres"`
}

type GraphConfig struct {
	SeedPath string `yaml:"seedPath" validate:"required"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Graph   GraphConfig   `yaml:"graph"`
	Log     LogConfig     `yaml:"log"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Storage: StorageConfig{
			Driver:     "sqlite",
			SqlitePath: "data/app.db",
		},
		Graph: GraphConfig{SeedPath: "data/seeds/city.json"},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads path (a missing file is fine), applies environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("load config: validate: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}

	cfg.Storage.Driver = Get("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.SqlitePath = Get("DB_PATH", cfg.Storage.SqlitePath)
	cfg.Storage.DatabaseURL = Get("DATABASE_URL", cfg.Storage.DatabaseURL)
	cfg.Graph.SeedPath = Get("GRAPH_SEED_PATH", cfg.Graph.SeedPath)
	cfg.Log.Level = Get("LOG_LEVEL", cfg.Log.Level)

	return nil
}

// Get returns the environment value for key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
