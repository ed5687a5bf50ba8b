package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mochkris/compras-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "compras", cfg.DB.DBName)
	assert.Equal(t, 60, cfg.JWT.Expiration)
}

func TestLoad_NivelDeLogDesdeEntorno(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_ENV", "production")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "production", cfg.App.Env)
}

func TestDBConfig_DSNEscapaCredenciales(t *testing.T) {
	c := config.DBConfig{
		Host:     "db.mochkris.local",
		Port:     5432,
		User:     "compras",
		Password: "p@ss/word",
		DBName:   "compras",
		SSLMode:  "require",
	}
	dsn := c.DSN()
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "sslmode=require")
}
