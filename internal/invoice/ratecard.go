// Package invoice assembles billable summaries into invoice lines using a
// rate card loaded from YAML.
package invoice

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultRateCardPath is read when no path is configured.
const DefaultRateCardPath = ".shiftclock-rates.yaml"

// RateCard holds the admin-entered rates and tax for invoices.
type RateCard struct {
	Currency    string               `yaml:"currency"`
	DefaultRate float64              `yaml:"defaultRate"`
	TaxPercent  float64              `yaml:"taxPercent"`
	Events      map[string]EventRate `yaml:"events"`
}

// EventRate overrides the default rate for one event.
type EventRate struct {
	Name string  `yaml:"name"`
	Rate float64 `yaml:"rate"`
}

// RateFor returns the hourly rate for an event, falling back to the default.
func (rc *RateCard) RateFor(eventID string) float64 {
	if er, ok := rc.Events[eventID]; ok && er.Rate != 0 {
		return er.Rate
	}
	return rc.DefaultRate
}

// Describe returns the display name of an event, or its ID.
func (rc *RateCard) Describe(eventID string) string {
	if er, ok := rc.Events[eventID]; ok && er.Name != "" {
		return er.Name
	}
	return eventID
}

func (rc *RateCard) validate() error {
	if rc.TaxPercent < 0 || rc.TaxPercent > 100 {
		return fmt.Errorf("taxPercent must be between 0 and 100, got %v", rc.TaxPercent)
	}
	if rc.DefaultRate < 0 {
		return fmt.Errorf("defaultRate cannot be negative, got %v", rc.DefaultRate)
	}
	return nil
}

// ParseRateCard decodes and validates a YAML rate card.
func ParseRateCard(data []byte) (*RateCard, error) {
	card := &RateCard{}
	if err := yaml.Unmarshal(data, card); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
	}
	if err := card.validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// LoadRateCard reads the rate card at path. With an empty path the default
// file is tried and its absence yields an empty card.
func LoadRateCard(path string) (*RateCard, error) {
	useDefault := path == ""
	if useDefault {
		path = DefaultRateCardPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && useDefault {
			return &RateCard{}, nil
		}
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	return ParseRateCard(data)
}

// RateCardStore holds the current rate card and swaps it on reload.
type RateCardStore struct {
	mu       sync.RWMutex
	card     *RateCard
	path     string
	fallback RateCard
}

// NewRateCardStore loads the card at path. Currency and default rate left
// empty by the file are taken from fallback.
func NewRateCardStore(path string, fallback RateCard) (*RateCardStore, error) {
	s := &RateCardStore{path: path, fallback: fallback}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticRateCardStore wraps a fixed card that is never reloaded.
func NewStaticRateCardStore(card RateCard) *RateCardStore {
	return &RateCardStore{card: &card, fallback: card}
}

// Path returns the watched file, or "" for a static store.
func (s *RateCardStore) Path() string {
	return s.path
}

// Current returns the active card.
func (s *RateCardStore) Current() *RateCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.card
}

// Reload re-reads the file. The previous card stays active on error.
func (s *RateCardStore) Reload() error {
	if s.path == "" && s.card != nil {
		return nil
	}

	card, err := LoadRateCard(s.path)
	if err != nil {
		return err
	}
	if card.Currency == "" {
		card.Currency = s.fallback.Currency
	}
	if card.DefaultRate == 0 {
		card.DefaultRate = s.fallback.DefaultRate
	}

	s.mu.Lock()
	s.card = card
	s.mu.Unlock()
	return nil
}
