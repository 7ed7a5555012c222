package invoice

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-clock/internal/logging"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeCard(t, "defaultRate: 10\n")
	store, err := NewRateCardStore(path, RateCard{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, store, 20*time.Millisecond, logging.Discard())
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("defaultRate: 42\n"), 0o644))

	assert.Eventually(t, func() bool {
		return store.Current().DefaultRate == 42
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatch_RequiresPath(t *testing.T) {
	err := Watch(context.Background(), NewStaticRateCardStore(RateCard{}), time.Millisecond, logging.Discard())
	assert.Error(t, err)
}
