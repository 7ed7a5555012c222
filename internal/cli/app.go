package cli

import (
	"io"
	"os"
	"strings"
	"time"

	"shift-clock/internal/api"
	"shift-clock/internal/config"
	"shift-clock/internal/errors"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App carries what every command handler needs: the business API, the
// resolved configuration and where to print.
type App struct {
	api    api.BusinessAPI
	config *config.Config
	out    io.Writer
}

// NewAppWithConfig creates a CLI application with the given configuration
func NewAppWithConfig(businessAPI api.BusinessAPI, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{api: businessAPI, config: cfg, out: os.Stdout}
}

// WithOutput redirects command output
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// userID returns the configured identity every clock action acts for
func (a *App) userID() (string, error) {
	userID := strings.TrimSpace(a.config.Application.UserID)
	if userID == "" {
		return "", errors.NewInvalidInputError("user", "", "set --user or SC_USER_ID")
	}
	return userID, nil
}

// location returns the configured location, falling back to local time
func (a *App) location() *time.Location {
	if loc, err := a.config.GetLocation(); err == nil {
		return loc
	}
	return time.Local
}

// formatTime renders t in the configured location and display format
func (a *App) formatTime(t time.Time) string {
	return t.In(a.location()).Format(a.config.Time.DisplayFormat)
}

func (a *App) formatTimePtr(t *time.Time, open string) string {
	if t == nil {
		return open
	}
	return a.formatTime(*t)
}
