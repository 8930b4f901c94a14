package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage_driver: "sqlite"
storage_path: "data/students.db"
seed: false
http_server:
  address: "0.0.0.0:9000"
  base_url: "http://localhost:9000"
  read_timeout: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "data/students.db", cfg.StoragePath)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPServer.Addr)
	assert.Equal(t, "http://localhost:9000", cfg.HTTPServer.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPServer.ReadTimeout)
	// Defaults fill what the file leaves out.
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.WriteTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.ShutdownTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage_driver: "sqlite"
http_server:
  address: "localhost:8082"
`)
	t.Setenv("HTTP_SERVER_ADDR", "localhost:7777")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:7777", cfg.HTTPServer.Addr)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost:5432/students")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "postgres://u:p@localhost:5432/students", cfg.PostgresDSN)
	assert.Equal(t, "dev", cfg.Env)
	assert.False(t, cfg.Seed)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"sqlite ok", Config{StorageDriver: DriverSQLite, StoragePath: "x.db"}, ""},
		{"sqlite no path", Config{StorageDriver: DriverSQLite}, "storage_path"},
		{"postgres no dsn", Config{StorageDriver: DriverPostgres}, "postgres_dsn"},
		{"memory ok", Config{StorageDriver: DriverMemory}, ""},
		{"unknown", Config{StorageDriver: "mongo"}, "unknown storage_driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
