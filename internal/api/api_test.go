package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-clock/internal/config"
	"shift-clock/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Database.Dir = filepath.Join(t.TempDir(), "data")
	cfg.Time.Location = "UTC"
	return cfg
}

func TestOpen(t *testing.T) {
	cfg := testConfig(t)
	cfg.Billing.RateCardPath = filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(cfg.Billing.RateCardPath, []byte("defaultRate: 55\n"), 0o644))

	rt, err := Open(cfg, logging.Discard())
	require.NoError(t, err)
	defer rt.Close()

	assert.FileExists(t, cfg.GetDatabasePath())
	assert.Equal(t, 55.0, rt.RateCards.Current().DefaultRate)
	assert.Equal(t, "USD", rt.RateCards.Current().Currency)

	entry, err := rt.API.ClockIn(context.Background(), "user-1", "evt-1")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
}

func TestOpen_Errors(t *testing.T) {
	t.Run("unknown location", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Time.Location = "Mars/Olympus_Mons"

		_, err := Open(cfg, logging.Discard())
		assert.Error(t, err)
	})

	t.Run("missing rate card", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Billing.RateCardPath = filepath.Join(t.TempDir(), "missing.yaml")

		_, err := Open(cfg, logging.Discard())
		assert.Error(t, err)
	})
}

type countingCloser struct{ calls int }

func (c *countingCloser) Close() error {
	c.calls++
	return nil
}

func TestRuntime_Close(t *testing.T) {
	assert.NoError(t, NewRuntime(nil, nil, nil).Close())

	closer := &countingCloser{}
	require.NoError(t, NewRuntime(nil, nil, closer).Close())
	assert.Equal(t, 1, closer.calls)
}
