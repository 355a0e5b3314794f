package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database_url: postgres://localhost/journal
jwt:
  secret: s3cret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "postgres://localhost/journal", cfg.DatabaseUrl)
	assert.Equal(t, int32(10), cfg.MaxConns)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, "UTC", cfg.Journal.DefaultTimezone)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
env: prod
database_url: postgres://file/journal
jwt:
  secret: from-file
journal:
  default_timezone: Europe/Berlin
`)
	t.Setenv("DATABASE_URL", "postgres://env/journal")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "postgres://env/journal", cfg.DatabaseUrl)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "Europe/Berlin", cfg.Journal.DefaultTimezone)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "env: local\n"))
	assert.Error(t, err, "database_url and jwt.secret are required")

	_, err = Load(writeConfig(t, `
database_url: postgres://localhost/journal
jwt:
  secret: s3cret
rate_limit:
  rps: -1
`))
	assert.Error(t, err)
}
