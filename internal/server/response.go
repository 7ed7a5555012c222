package server

import (
	"net/http"

	"github.com/go-chi/render"

	"shift-clock/internal/domain"
	"shift-clock/internal/errors"
)

type EntryResponse struct {
	*domain.TimeEntry
	State       domain.SessionState `json:"state"`
	IsClockedIn bool                `json:"isClockedIn"`
	IsOnBreak   bool                `json:"isOnBreak"`
}

func newEntryResponse(entry *domain.TimeEntry) *EntryResponse {
	return &EntryResponse{
		TimeEntry:   entry,
		State:       entry.State(),
		IsClockedIn: entry.IsClockedIn(),
		IsOnBreak:   entry.IsOnBreak(),
	}
}

func (e *EntryResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func newEntryList(entries []*domain.TimeEntry) []render.Renderer {
	list := make([]render.Renderer, 0, len(entries))
	for _, entry := range entries {
		list = append(list, newEntryResponse(entry))
	}
	return list
}

type WarningResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ClockOutResponse struct {
	Entry   *EntryResponse   `json:"entry"`
	Warning *WarningResponse `json:"warning,omitempty"`
}

func (c *ClockOutResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type HistoryResponse struct {
	UserID string          `json:"userId"`
	Date   string          `json:"date,omitempty"`
	Events domain.Timeline `json:"events"`
}

type ErrorResponse struct {
	HTTPStatusCode int    `json:"-"`
	Code           string `json:"code"`
	Message        string `json:"message"`
}

func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func newErrorResponse(err error) *ErrorResponse {
	return &ErrorResponse{
		HTTPStatusCode: statusFor(err),
		Code:           errors.GetErrorCode(err),
		Message:        errors.GetUserMessage(err),
	}
}

// statusFor maps an error to its HTTP status: rejected clock actions are
// conflicts, bad input is a bad request.
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeState:
		return http.StatusConflict
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
