package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "ristorante_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("GATEWAY_TIMEOUT", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "ristorante_test", cfg.MongoDB.Database)
	require.Equal(t, "localhost", cfg.Redis.Host)
	require.Equal(t, "6379", cfg.Redis.Port)
	require.Equal(t, "admin", cfg.Admin.Username)
	require.Equal(t, "s3cret", cfg.Admin.Password)
	require.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
	require.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
}

func TestLoadConfig_DevelopmentFallbacks(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MONGODB_URI", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, devAdminPassword, cfg.Admin.Password)
	require.Equal(t, devJWTSecret, cfg.JWT.Secret)
	require.Empty(t, cfg.MongoDB.URI)
	require.Equal(t, "5000", cfg.Server.Port)
}
