package server

import (
	"net/http"
	"strconv"
	"strings"

	"shift-clock/internal/errors"
)

type ClockInRequest struct {
	EventID string `json:"eventId"`
}

// ClockInRequest satisfies [render.Binder]
func (req *ClockInRequest) Bind(r *http.Request) error {
	req.EventID = strings.TrimSpace(req.EventID)
	if req.EventID == "" {
		return errors.NewInvalidInputError("eventId", req.EventID, "is required")
	}
	return nil
}

// rateParam reads the optional rate query parameter.
func rateParam(r *http.Request) (*float64, error) {
	raw := r.URL.Query().Get("rate")
	if raw == "" {
		return nil, nil
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.NewInvalidInputError("rate", raw, "must be a number")
	}
	return &rate, nil
}
