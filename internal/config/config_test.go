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
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.HTTPPort)
	assert.Equal(t, 6, cfg.Game.MaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Game.SessionTTL)
	assert.Equal(t, "sqlite", cfg.Stats.Backend)
	assert.Len(t, cfg.Words.SourceURLs, 2)
	assert.False(t, cfg.Production())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("GAME_MAX_ATTEMPTS", "4")
	t.Setenv("APP_ENV", "production")
	t.Setenv("WORDS_SOURCE_URLS", "http://a,http://b,http://c")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 4, cfg.Game.MaxAttempts)
	assert.True(t, cfg.Production())
	assert.Equal(t, []string{"http://a", "http://b", "http://c"}, cfg.Words.SourceURLs)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("http-port: \"9999\"\ngame:\n  max-attempts: 8\n"), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.Equal(t, 8, cfg.Game.MaxAttempts)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("redis stats without address", func(t *testing.T) {
		t.Setenv("STATS_BACKEND", "redis")
		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STATS_BACKEND", "postgres")
		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
	})
}
