package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, 10, cfg.DB.BootstrapMaxRetries)
	assert.Equal(t, 5, cfg.DB.BootstrapDelaySeconds)
	assert.Equal(t, "3000", cfg.App.HTTPPort)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "DB_HOST=db-from-file\nDB_NAME=from_file\nPORT=4000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	t.Setenv("DB_HOST", "db-from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "db-from-env", cfg.DB.Host)
	assert.Equal(t, "from_file", cfg.DB.Name)
	assert.Equal(t, "4000", cfg.App.HTTPPort)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestConfig_Validate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.DB.Host = "" },
			wantErr: "DB_HOST is required",
		},
		{
			name:    "zero retries",
			mutate:  func(c *Config) { c.DB.BootstrapMaxRetries = 0 },
			wantErr: "DB_BOOTSTRAP_MAX_RETRIES must be positive",
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.DB.BootstrapDelaySeconds = -1 },
			wantErr: "DB_BOOTSTRAP_DELAY_SECONDS must not be negative",
		},
		{
			name: "rate limit without capacity",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.BurstCapacity = 0
			},
			wantErr: "rate limit requires",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_SeparatorOnlyOriginsFailValidation(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.CORS.AllowedOrigins)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS_ALLOWED_ORIGINS must list at least one origin")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "usuarios", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=usuarios port=5432 sslmode=disable", c.DSN())
}
