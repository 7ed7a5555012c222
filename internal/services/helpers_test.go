package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shift-clock/internal/clock"
	"shift-clock/internal/invoice"
	"shift-clock/internal/logging"
	"shift-clock/internal/repository/sqlite"
)

// Monday 2024-03-04 09:00 UTC
var shiftStart = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func setupServices(t *testing.T, opts Options, card invoice.RateCard) (*ServiceContainer, *clock.Mock) {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	clk := clock.NewMock(shiftStart)
	assembler := invoice.NewAssembler(invoice.NewStaticRateCardStore(card))
	return NewServiceContainer(repo, assembler, clk, opts, logging.Discard()), clk
}

func setupDefaultServices(t *testing.T) (*ServiceContainer, *clock.Mock) {
	t.Helper()
	return setupServices(t, Options{Location: time.UTC}, invoice.RateCard{Currency: "USD", DefaultRate: 20})
}
