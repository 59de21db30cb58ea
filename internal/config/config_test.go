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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsFromYAML(t *testing.T) {
	path := writeConfig(t, "port: 9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, time.Hour, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, int64(5*1024*1024), cfg.UploadMaxBytes())
	assert.Equal(t, "root:password@tcp(127.0.0.1:3306)/chephamsinhhoc?charset=utf8mb4&loc=Local&parseTime=true", cfg.DSN)
	assert.Empty(t, cfg.RedisURL, "redis stays off unless enabled")
}

func TestTokenTTLsFallBackWithoutLoad(t *testing.T) {
	var cfg AppConfig
	assert.Equal(t, time.Hour, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())

	cfg.JWT.AccessTTLMinutes = 15
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "env: production\njwt:\n  secret: from-file\n")
	t.Setenv(EnvJWTSecret, "from-env")
	t.Setenv(EnvDSN, "u:p@tcp(db:3306)/cms")
	t.Setenv(EnvRedisURL, "cache:6379")
	t.Setenv(EnvPort, "8081")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "u:p@tcp(db:3306)/cms", cfg.DSN)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.Equal(t, 8081, cfg.Port)
}

func TestLoadAdminPasswordDefaultsUsername(t *testing.T) {
	path := writeConfig(t, "admin:\n  email: ops@example.com\n")
	t.Setenv(EnvAdminPassword, "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
	assert.Equal(t, "ops@example.com", cfg.Admin.Email)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "port: 8000\nmeilisearch:\n  enable: true\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := writeConfig(t, "port: 70000\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRequiresBucketForS3(t *testing.T) {
	path := writeConfig(t, "s3:\n  enable: true\n  region: ap-southeast-1\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "s3.bucket")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestRedisURLValue(t *testing.T) {
	cfg := RedisRuntimeConfig{Host: "cache", Port: 6380, DB: 2, Password: "secret", TLS: true}
	assert.Equal(t, "rediss://:secret@cache:6380/2", cfg.URLValue())

	cfg = RedisRuntimeConfig{URL: "redis://explicit:6379/0"}
	assert.Equal(t, "redis://explicit:6379/0", cfg.URLValue())
}

func TestRuntimePathsResolveAgainstHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	cfg := &AppConfig{}
	assert.Equal(t, filepath.Join(home, "logs"), cfg.LogDir())
	assert.Equal(t, filepath.Join(home, "static"), cfg.StaticDir())

	cfg.Paths.Static = "public/uploads"
	assert.Equal(t, filepath.Join(home, "public", "uploads"), cfg.StaticDir())

	abs := filepath.Join(t.TempDir(), "media")
	cfg.Paths.Static = abs
	assert.Equal(t, abs, cfg.StaticDir())
}
