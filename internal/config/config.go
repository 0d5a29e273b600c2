// Package config loads the service settings from the environment. A .env
// file in the working directory is read first when present; variables that
// are already set take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the server.
type Config struct {
	Port     string `env:"PORT"      envDefault:"8080"`
	DocsPath string `env:"DOCS_PATH" envDefault:"/api-docs"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MaxRequestBytes   int64         `env:"MAX_REQUEST_BYTES"   envDefault:"1048576"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT"        envDefault:"5s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"2s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       envDefault:"10s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"        envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"    envDefault:"10s"`

	// Empty allows any origin.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Profile routes are registered only when a Firebase project is set.
	FirebaseProjectID            string `env:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are ignored.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// FirebaseEnabled reports whether Firebase-backed features can start.
func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseProjectID != ""
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("config: PORT must not be empty")
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("config: MAX_REQUEST_BYTES must be positive, got %d", c.MaxRequestBytes)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}
