// Package config handles loading and parsing application configuration.
// It supports these sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Neither: the config is read from environment variables alone.
//
// Values in the YAML file can always be overridden by the env var named in
// the field's env:"..." tag.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StorageDriver selects the repository backend.
	StorageDriver string `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"sqlite"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/storage.db"`

	// PostgresDSN is required when StorageDriver is "postgres".
	PostgresDSN string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`

	// Seed preloads demo students into an empty store at start-up.
	// No env-default: cleanenv would apply it over an explicit "seed: false".
	Seed bool `yaml:"seed" env:"SEED"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`

	// BaseURL prefixes hypermedia links, e.g. "http://localhost:8082".
	// Empty means links are relative ("/students/1").
	BaseURL string `yaml:"base_url" env:"HTTP_SERVER_BASE_URL"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Validate checks combinations cleanenv's tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite:
		if c.StoragePath == "" {
			return errors.New("storage_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres_dsn is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage_driver %q (want sqlite, postgres or memory)", c.StorageDriver)
	}
	return nil
}

// Load reads the config from path, or from the environment alone when path
// is empty, and validates it.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from env: %w", err)
		}
	} else {
		// os.Stat first gives a clear message rather than a cryptic
		// "open: no such file" from the reader.
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		// ReadConfig parses the YAML, then applies env overrides and
		// env-default values.
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to exit on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}
