package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, int32(20), cfg.Database.MaxConns)
	require.Equal(t, 24*time.Hour, cfg.Session.TTL)
	require.NotEmpty(t, cfg.Server.CORSOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EVENT_MANAGER_SERVER_PORT", "9090")
	t.Setenv("EVENT_MANAGER_DATABASE_HOST", "db.internal")
	t.Setenv("EVENT_MANAGER_SESSION_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "events", SSLMode: "disable",
	}
	require.Equal(t, "host=localhost port=5432 user=u password=p dbname=events sslmode=disable", d.DSN())
}
