package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dubon/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9000")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("JWT_TTL", "2h")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("APP_PORT: \":7000\"\nREDIS_ADDR: localhost:6379\n"), 0o600))
	t.Setenv("CONFIG_FILE", file)

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.AppPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := config.Load(viper.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}
