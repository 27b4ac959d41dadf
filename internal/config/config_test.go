package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GEOCODE_CACHE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, -6.914744, cfg.Store.Lat)
	assert.Equal(t, 107.609810, cfg.Store.Lon)
	assert.Equal(t, 10000.0, cfg.Store.RadiusMeters)
	assert.Equal(t, 12, cfg.Store.DefaultZoom)
	assert.Equal(t, 500*time.Millisecond, cfg.Autocomplete.Delay)
	assert.Equal(t, 3, cfg.Geocode.MinChars)
	assert.Equal(t, 5, cfg.Geocode.MaxResults)
	assert.Equal(t, "none", cfg.Cache.Backend)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidateCacheBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Read()
	cfg.Cache.Backend = "postgres"
	cfg.Cache.DatabaseURL = ""
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg.Cache.Backend = "memcached"
	assert.ErrorContains(t, cfg.Validate(), "unknown GEOCODE_CACHE")

	cfg.Cache.Backend = "redis"
	assert.NoError(t, cfg.Validate())
}

func TestValidateStore(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Read()
	cfg.Store.RadiusMeters = 0
	assert.Error(t, cfg.Validate())

	cfg = Read()
	cfg.Store.Lat = 91
	assert.Error(t, cfg.Validate())
}

func TestGetters(t *testing.T) {
	t.Setenv("X_INT", "42")
	t.Setenv("X_BAD_INT", "forty")
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_LIST", " a, ,b ,c")

	assert.Equal(t, 42, GetInt("X_INT", 1))
	assert.Equal(t, 1, GetInt("X_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, GetDuration("X_DUR", time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, GetList("X_LIST"))
	assert.Nil(t, GetList("X_UNSET_LIST"))
	assert.Equal(t, "fallback", Get("X_UNSET", "fallback"))
}
