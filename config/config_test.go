package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:3000",
		},
		Query: QueryConfig{
			DefaultLimit: 100,
			Concurrency:  5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "missing server URL",
			mutate:  func(cfg *Config) { cfg.Server.URL = "" },
			wantErr: "server.url is required",
		},
		{
			name:    "negative default limit",
			mutate:  func(cfg *Config) { cfg.Query.DefaultLimit = -1 },
			wantErr: "query.default_limit must not be negative",
		},
		{
			name:    "zero concurrency",
			mutate:  func(cfg *Config) { cfg.Query.Concurrency = 0 },
			wantErr: "query.concurrency must be at least 1",
		},
		{
			name:    "invalid logging level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantErr: "invalid logging level: verbose",
		},
		{
			name:    "invalid logging format",
			mutate:  func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("reads config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := `
server:
  url: http://db.example.com:3000
  token: secret
  schema: tenant1
  headers:
    X-Custom: "1"
query:
  default_limit: 50
logging:
  level: debug
  format: json
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "http://db.example.com:3000", cfg.Server.URL)
		assert.Equal(t, "secret", cfg.Server.Token)
		assert.Equal(t, "tenant1", cfg.Server.Schema)
		assert.Equal(t, "1", cfg.Server.Headers["X-Custom"])
		assert.Equal(t, 50, cfg.Query.DefaultLimit)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("applies defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := `
server:
  url: http://localhost:3000
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 100, cfg.Query.DefaultLimit)
		assert.Equal(t, 5, cfg.Query.Concurrency)
		assert.True(t, cfg.Safety.ConfirmDelete)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "console", cfg.Logging.Format)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid config fails validation", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := `
server:
  url: http://localhost:3000
logging:
  level: verbose
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid logging level")
	})
}
