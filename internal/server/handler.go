package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"shift-clock/internal/domain"
	"shift-clock/internal/errors"
)

func (a *App) showError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.ShouldLogError(err) {
		a.slog.Error("request failed", "request_id", middleware.GetReqID(r.Context()), "path", r.URL.Path, "error", err)
	}
	_ = render.Render(w, r, newErrorResponse(err))
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (a *App) handleClockIn(w http.ResponseWriter, r *http.Request) {
	req := &ClockInRequest{}
	if err := render.Bind(r, req); err != nil {
		if !errors.IsAppError(err) {
			err = errors.NewInvalidInputError("body", "", err.Error())
		}
		a.showError(w, r, err)
		return
	}

	entry, err := a.api.ClockIn(r.Context(), chi.URLParam(r, "userID"), req.EventID)
	if err != nil {
		a.showError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, newEntryResponse(entry))
}

func (a *App) handleClockOut(w http.ResponseWriter, r *http.Request) {
	result, err := a.api.ClockOut(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		a.showError(w, r, err)
		return
	}

	resp := &ClockOutResponse{Entry: newEntryResponse(result.Entry)}
	if result.Warning != nil {
		resp.Warning = &WarningResponse{Code: result.Warning.Code, Message: result.Warning.Message}
	}
	_ = render.Render(w, r, resp)
}

func (a *App) handleStartBreak(w http.ResponseWriter, r *http.Request) {
	a.renderEntry(w, r, a.api.StartBreak)
}

func (a *App) handleEndBreak(w http.ResponseWriter, r *http.Request) {
	a.renderEntry(w, r, a.api.EndBreak)
}

func (a *App) renderEntry(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, userID string) (*domain.TimeEntry, error)) {
	entry, err := action(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		a.showError(w, r, err)
		return
	}
	_ = render.Render(w, r, newEntryResponse(entry))
}

func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.api.GetStatus(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		a.showError(w, r, err)
		return
	}
	render.JSON(w, r, status)
}

func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	date := r.URL.Query().Get("date")

	timeline, err := a.api.GetHistory(r.Context(), userID, date)
	if err != nil {
		a.showError(w, r, err)
		return
	}
	if timeline == nil {
		timeline = domain.Timeline{}
	}
	render.JSON(w, r, HistoryResponse{UserID: userID, Date: date, Events: timeline})
}

func (a *App) handleEventTimeEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := a.api.GetEventTimeEntries(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "userID"))
	if err != nil {
		a.showError(w, r, err)
		return
	}
	_ = render.RenderList(w, r, newEntryList(entries))
}

func (a *App) handleEventSummary(w http.ResponseWriter, r *http.Request) {
	rate, err := rateParam(r)
	if err != nil {
		a.showError(w, r, err)
		return
	}

	summary, err := a.api.SummarizeEvent(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "userID"), rate)
	if err != nil {
		a.showError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

func (a *App) handleInvoice(w http.ResponseWriter, r *http.Request) {
	rate, err := rateParam(r)
	if err != nil {
		a.showError(w, r, err)
		return
	}

	inv, err := a.api.BuildInvoice(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "userID"), rate)
	if err != nil {
		a.showError(w, r, err)
		return
	}
	render.JSON(w, r, inv)
}

func (a *App) handleCloseStale(w http.ResponseWriter, r *http.Request) {
	closed, err := a.api.CloseStaleSessions(r.Context())
	if err != nil {
		a.showError(w, r, err)
		return
	}
	_ = render.RenderList(w, r, newEntryList(closed))
}
