// Package server exposes the clock and billing operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shift-clock/internal/api"
)

type App struct {
	host string
	port int

	slog   *slog.Logger
	router chi.Router

	api api.BusinessAPI
}

func New(slog *slog.Logger, businessAPI api.BusinessAPI) *App {
	app := &App{
		host: "localhost",
		port: 8080,

		router: chi.NewRouter(),
		slog:   slog,

		api: businessAPI,
	}

	app.RegisterRoutes()

	return app
}

func (a *App) WithHost(host string) *App {
	a.host = host
	return a
}

func (a *App) WithPort(port uint) *App {
	a.port = int(port)
	return a
}

// Handler returns the routed handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Serve listens until ctx is canceled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	server := http.Server{
		Addr:    addr,
		Handler: a.router,

		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()

	a.slog.Info("server started listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	a.slog.Info("server stopped", "addr", addr)
	return nil
}
