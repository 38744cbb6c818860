package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: "5000"
  mode: debug
database:
  driver: sqlite
  sqlite_path: data/test.db
jwt:
  secret: file-secret
  expire_hours: 2
storage:
  type: minio
  minio_bucket: videos
cors:
  allowed_origins:
    - http://localhost:3000
    - https://miniudemy.example.com
rate_limit:
  max_requests: 50
  window_minutes: 2
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	return dir
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := writeConfig(t, sampleConfig)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/test.db", cfg.Database.SQLitePath)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "minio", cfg.Storage.Type)
	assert.Equal(t, "videos", cfg.Storage.MinioBucket)
	assert.Equal(t, []string{"http://localhost:3000", "https://miniudemy.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 50, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 2, cfg.RateLimit.WindowMinutes)
	assert.Equal(t, dir, cfg.Dir)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PORT", "6000")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "6000", cfg.Server.Port)
}

func TestDotEnvIsLoaded(t *testing.T) {
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	t.Setenv("STORAGE_TYPE", "local")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("database:\n  driver: sqlite\nstorage:\n  local_path: "+uploads+"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=dotenv-secret\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.JWT.Secret)
	assert.Equal(t, 168*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.DirExists(t, uploads)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "mysql"}}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "short"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Mode = "release"
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.Error(t, cfg.Validate())
}
