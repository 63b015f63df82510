package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("NOTIFIER", "")
	t.Setenv("TICK_INTERVAL_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "careminder.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, NotifierLog, cfg.Notifier)
	assert.Equal(t, time.Minute, cfg.TickInterval)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownNotifier(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("NOTIFIER", "smoke-signals")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadTelegramNeedsToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("NOTIFIER", NotifierTelegram)
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, NotifierTelegram, cfg.Notifier)
}

func TestLoadTickIntervalSeconds(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("NOTIFIER", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TICK_INTERVAL_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.TickInterval)

	// Garbage falls back to the minute default.
	t.Setenv("TICK_INTERVAL_SECONDS", "soon")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.TickInterval)
}
