package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("CLIENT_URL", "")
	t.Setenv("JWT_EXPIRE", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.FrontendURL)
	assert.Equal(t, time.Hour, cfg.Auth.JWTExpire)
	assert.Equal(t, 100, cfg.MySQL.MaxOpenConns)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("CLIENT_URL", "https://portal.example.com")
	t.Setenv("JWT_EXPIRE", "7d")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1")
	t.Setenv("APP_ENV", "development")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "https://portal.example.com", cfg.Server.FrontendURL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.JWTExpire)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.Server.TrustedProxies)
	assert.True(t, cfg.IsDevelopment())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("PORT", "")
		t.Setenv("FRONTEND_URL", "")
		t.Setenv("CLIENT_URL", "")
		t.Setenv("KAFKA_BROKERS", "")
		return FromEnv()
	}

	cfg := base()
	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.Port = "abc"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.FrontendURL = "javascript:alert(1)"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.FrontendURL = "http://localhost:3000"
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, LoadEnvFile(), "missing .env is fine")

	t.Setenv("ATHENA_ENV_FILE_KEY", "")
	require.NoError(t, os.Unsetenv("ATHENA_ENV_FILE_KEY"))
	require.NoError(t, os.WriteFile(".env", []byte("ATHENA_ENV_FILE_KEY=loaded\n"), 0o600))
	require.NoError(t, LoadEnvFile())
	assert.Equal(t, "loaded", os.Getenv("ATHENA_ENV_FILE_KEY"))

	require.NoError(t, os.Remove(".env"))
	require.NoError(t, os.Mkdir(".env", 0o700))
	assert.Error(t, LoadEnvFile())
}
