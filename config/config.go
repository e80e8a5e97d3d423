/*
Package config loads server configuration.

SOURCES (later wins):
  1. Defaults
  2. YAML file (optional, path given to Load)
  3. .env file in the working directory (optional)
  4. Environment variables
  5. Command-line flags (applied by cmd/server)

ENVIRONMENT:
  LEASES_PORT             HTTP server port
  LEASES_DB               SQLite database path (":memory:" for in-memory)
  LEASES_ALLOWED_ORIGINS  Comma-separated CORS origins
  LEASES_UPLOAD_URL       URL returned by the placeholder uploader
  LEASES_LOG_LEVEL        debug, info, warn or error

EXAMPLE (leases.yaml):
  port: 8080
  db: ./data/leases.db
  allowed_origins:
    - http://localhost:5173
  log_level: info
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	Port           int      `yaml:"port"`
	DBPath         string   `yaml:"db"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	UploadURL      string   `yaml:"upload_url"`
	LogLevel       string   `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           8080,
		DBPath:         "leases.db",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		LogLevel:       "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file and the environment. A blank or missing path is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("LEASES_PORT"); ok {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("LEASES_PORT: %w", err)
		}
		c.Port = port
	}
	if v, ok := os.LookupEnv("LEASES_DB"); ok {
		c.DBPath = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("LEASES_ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("LEASES_UPLOAD_URL"); ok {
		c.UploadURL = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("LEASES_LOG_LEVEL"); ok {
		c.LogLevel = strings.TrimSpace(v)
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("database path is required")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// Logger builds a zap logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	zc := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
