package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseViper() *viper.Viper {
	v := viper.New()
	v.Set("JWT_SECRET", "test-secret")
	v.Set("SESSION_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(baseViper())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, "MLC", cfg.Meli.DefaultSite)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, time.Minute, cfg.Cache.TTL())
	assert.Equal(t, 10, cfg.Session.SearchHistoryMax)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestFromViper_EnvStrings(t *testing.T) {
	v := baseViper()
	v.Set("HTTP_PORT", "9090")
	v.Set("MELI_RPS", "2.5")
	v.Set("DB_AUTO_MIGRATE", "false")
	v.Set("CACHE_DRIVER", "redis")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 2.5, cfg.Meli.RPS)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "redis", cfg.Cache.Driver)
}

func TestFromViper_Validacion(t *testing.T) {
	t.Run("sin JWT_SECRET", func(t *testing.T) {
		v := baseViper()
		v.Set("JWT_SECRET", "")
		_, err := fromViper(v)
		assert.Error(t, err)
	})
	t.Run("clave de sesión corta", func(t *testing.T) {
		v := baseViper()
		v.Set("SESSION_SECRET_KEY", "corta")
		_, err := fromViper(v)
		assert.Error(t, err)
	})
	t.Run("driver de caché desconocido", func(t *testing.T) {
		v := baseViper()
		v.Set("CACHE_DRIVER", "memcached")
		_, err := fromViper(v)
		assert.Error(t, err)
	})
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/x?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
