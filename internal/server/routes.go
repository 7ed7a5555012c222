package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func (a *App) RegisterRoutes() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(render.SetContentType(render.ContentTypeJSON))

	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/clock-in", a.handleClockIn)
		r.Post("/clock-out", a.handleClockOut)
		r.Post("/breaks/start", a.handleStartBreak)
		r.Post("/breaks/end", a.handleEndBreak)
		r.Get("/status", a.handleStatus)
		r.Get("/history", a.handleHistory)
	})

	a.router.Route("/events/{eventID}/users/{userID}", func(r chi.Router) {
		r.Get("/time-entries", a.handleEventTimeEntries)
		r.Get("/summary", a.handleEventSummary)
		r.Get("/invoice", a.handleInvoice)
	})

	a.router.Post("/admin/sessions/close-stale", a.handleCloseStale)
}
