package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_ENV", "HTTP_ADDR", "DATABASE_URL", "JWT_SECRET", "JWT_TTL",
		"CORS_ALLOWED_ORIGINS", "PAGE_SIZE_DEFAULT", "PAGE_SIZE_MAX",
		"AUTO_MIGRATE", "LOOKUP_DEBOUNCE",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "brokerdesk.db", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 20, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.True(t, cfg.AutoMigrate)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "brokerdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9090"
page_size_default: "10"
cors_allowed_origins: "https://a.example, https://b.example"
auto_migrate: "false"
`), 0o600))
	t.Setenv("HTTP_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoadRejectsDefaultSecretInProd(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/brokerdesk")

	_, err := Load("")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_TTL", "soon")
	_, err := Load("")
	assert.ErrorContains(t, err, "JWT_TTL")

	clearEnv(t)
	t.Setenv("PAGE_SIZE_DEFAULT", "50")
	t.Setenv("PAGE_SIZE_MAX", "10")
	_, err = Load("")
	assert.ErrorContains(t, err, "PAGE_SIZE_MAX")
}
