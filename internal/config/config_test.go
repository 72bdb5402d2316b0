package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NAVIX_DB_PATH", t.TempDir()+"/test.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:0", cfg.ServerAddr)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.OptimizerBaseURL)
	assert.Equal(t, 1000*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.SettleDelay)
	assert.Empty(t, cfg.MapAccessToken)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NAVIX_DB_PATH", t.TempDir()+"/test.db")
	t.Setenv("NAVIX_API_URL", "https://optimizer.example.com")
	t.Setenv("NAVIX_MAP_ACCESS_TOKEN", "tk-123")
	t.Setenv("NAVIX_POLL_INTERVAL_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://optimizer.example.com", cfg.OptimizerBaseURL)
	assert.Equal(t, "tk-123", cfg.MapAccessToken)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
}

func TestTileURL(t *testing.T) {
	cfg := &Config{MapTileURL: "https://tiles.example.com/{z}/{x}/{y}.png"}
	assert.Equal(t, "https://tiles.example.com/{z}/{x}/{y}.png", cfg.TileURL())

	cfg.MapAccessToken = "tk-123"
	assert.Equal(t, "https://tiles.example.com/{z}/{x}/{y}.png?access_token=tk-123", cfg.TileURL())

	cfg.MapTileURL = "https://tiles.example.com/{z}/{x}/{y}.png?style=dark"
	assert.Equal(t, "https://tiles.example.com/{z}/{x}/{y}.png?style=dark&access_token=tk-123", cfg.TileURL())
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("NAVIX_DB_PATH", t.TempDir()+"/test.db")
	t.Setenv("NAVIX_POLL_INTERVAL_MS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000*time.Millisecond, cfg.PollInterval)
}
