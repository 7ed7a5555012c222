package api

import (
	"io"
	"log/slog"

	"shift-clock/internal/clock"
	"shift-clock/internal/config"
	"shift-clock/internal/errors"
	"shift-clock/internal/invoice"
	"shift-clock/internal/services"
)

// Runtime is an opened BusinessAPI together with the resources behind it.
type Runtime struct {
	API       BusinessAPI
	RateCards *invoice.RateCardStore

	closer io.Closer
}

// NewRuntime bundles an API with its rate cards and the resource to release
// on Close. closer may be nil.
func NewRuntime(businessAPI BusinessAPI, rateCards *invoice.RateCardStore, closer io.Closer) *Runtime {
	return &Runtime{API: businessAPI, RateCards: rateCards, closer: closer}
}

// Open builds the BusinessAPI described by cfg: the SQLite store, the rate
// card and the services over them.
func Open(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	loc, err := cfg.GetLocation()
	if err != nil {
		return nil, errors.NewInvalidInputError("time.location", cfg.Time.Location, err.Error())
	}

	store, err := invoice.NewRateCardStore(cfg.Billing.RateCardPath, invoice.RateCard{
		Currency:    cfg.Billing.Currency,
		DefaultRate: cfg.Billing.DefaultRate,
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeInvalidInput, "load rate card")
	}

	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, err
	}

	container := services.NewServiceContainer(repo, invoice.NewAssembler(store), clock.Real{}, services.Options{
		MaxSessionDuration: cfg.Session.MaxDuration,
		Location:           loc,
	}, logger)

	return NewRuntime(NewBusinessAPI(container), store, repo), nil
}

// Close releases the database.
func (r *Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
