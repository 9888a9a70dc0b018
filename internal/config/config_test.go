package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromFile(t *testing.T, content string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_PATH", path)
	t.Cleanup(func() { AppConfig = nil })

	LoadConfig()
	return AppConfig
}

func TestLoadConfig_FileDefaults(t *testing.T) {
	cfg := loadFromFile(t, "jwt:\n  secret: s3cret\napplication:\n  items_per_page: 20\n")

	assert.True(t, cfg.RegistrationOpen())
	assert.Equal(t, 20, cfg.Application.ItemsPerPage)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.Nonce.Secret)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, 100, cfg.MailQueue.Size)
}

func TestLoadConfig_FileClosesRegistration(t *testing.T) {
	cfg := loadFromFile(t, "application:\n  enable_registration: false\n")
	assert.False(t, cfg.RegistrationOpen())
}

func TestLoadConfig_EnvMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ambassadors")
	t.Setenv("ENABLE_REGISTRATION", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example.edu,https://b.example.edu")
	t.Cleanup(func() { AppConfig = nil })

	LoadConfig()
	cfg := AppConfig

	assert.False(t, cfg.RegistrationOpen())
	assert.Equal(t, []string{"https://a.example.edu", "https://b.example.edu"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}
