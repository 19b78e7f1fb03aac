package config

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ADDR", "DATABASE_FILE", "CORS_ORIGINS", "SEED_DATA", "LOG_LEVEL",
		"HASHIDS_ALPHABET", "HASHIDS_MIN_LENGTH", "HASHIDS_SALT", "SECRET_KEY", "HASHIDS_BACKEND",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "./data/users.db", cfg.DatabaseFile)
	assert.Empty(t, cfg.CORSOrigins)
	assert.False(t, cfg.SeedData)

	// Absent options stay absent
	assert.Nil(t, cfg.Hashids.Alphabet)
	assert.Nil(t, cfg.Hashids.MinLength)
	assert.Nil(t, cfg.Hashids.Salt)
	assert.Equal(t, "hashids", cfg.Hashids.Backend)
}

func TestLoadReadsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":9090")
	t.Setenv("CORS_ORIGINS", "http://lvh.me, http://lvh.me:8080,")
	t.Setenv("SEED_DATA", "true")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("HASHIDS_ALPHABET", "abcdefghijklmnopqrstuvwxyz")
	t.Setenv("HASHIDS_MIN_LENGTH", "8")
	t.Setenv("SECRET_KEY", "secret!")
	t.Setenv("HASHIDS_BACKEND", "sqids")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"http://lvh.me", "http://lvh.me:8080"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedData)
	assert.Equal(t, log.ErrorLevel, cfg.LogLevel)

	require.NotNil(t, cfg.Hashids.Alphabet)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", *cfg.Hashids.Alphabet)
	require.NotNil(t, cfg.Hashids.MinLength)
	assert.Equal(t, 8, *cfg.Hashids.MinLength)
	require.NotNil(t, cfg.Hashids.Salt)
	assert.Equal(t, "secret!", *cfg.Hashids.Salt)
	assert.Equal(t, "sqids", cfg.Hashids.Backend)
}

func TestHashidsSaltTakesPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "session secret")
	t.Setenv("HASHIDS_SALT", "hashids salt")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Hashids.Salt)
	assert.Equal(t, "hashids salt", *cfg.Hashids.Salt)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	for key, value := range map[string]string{
		"HASHIDS_MIN_LENGTH": "eight",
		"SEED_DATA":          "maybe",
		"LOG_LEVEL":          "loud",
	} {
		clearEnv(t)
		t.Setenv(key, value)
		_, err := Load()
		assert.Error(t, err, key)
	}
}
