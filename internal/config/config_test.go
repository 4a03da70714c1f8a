package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithPath("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "enrollment-api", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "melody_master", cfg.Database.DBName)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.OTel.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "30m")

	cfg, err := LoadWithPath("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
}

func TestLoad_MalformedEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("this is not an env file\n"), 0o600))

	_, err := LoadWithPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate_RejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "production")

	_, err := LoadWithPath("nonexistent.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestValidate_BadPort(t *testing.T) {
	cfg, err := LoadWithPath("nonexistent.env")
	require.NoError(t, err)

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "secret",
		DBName:   "melody_master",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=app password=secret dbname=melody_master sslmode=require",
		d.DSN(),
	)
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{}
	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	cfg.App.Environment = "development"
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.IsDevelopment())
}
