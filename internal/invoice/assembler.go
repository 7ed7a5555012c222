package invoice

import (
	"math"

	"shift-clock/internal/billing"
	"shift-clock/internal/errors"
)

// Line is one invoiced time entry.
type Line struct {
	EntryID     string   `json:"entryId"`
	EventID     string   `json:"eventId"`
	Description string   `json:"description"`
	Hours       float64  `json:"hours"`
	Rate        float64  `json:"rate"`
	Amount      float64  `json:"amount"`
	Flags       []string `json:"flags,omitempty"`
}

// Rejection is a summary that could not be invoiced.
type Rejection struct {
	EntryID string `json:"entryId"`
	EventID string `json:"eventId"`
	Code    string `json:"code"`
	Reason  string `json:"reason"`
}

// Invoice is the assembled result for one user.
type Invoice struct {
	UserID      string      `json:"userId"`
	Currency    string      `json:"currency"`
	Lines       []Line      `json:"lines"`
	Rejected    []Rejection `json:"rejected,omitempty"`
	Subtotal    float64     `json:"subtotal"`
	TaxPercent  float64     `json:"taxPercent"`
	Tax         float64     `json:"tax"`
	Total       float64     `json:"total"`
	NeedsReview bool        `json:"needsReview"`
}

// Assembler builds invoices from billing summaries.
type Assembler struct {
	rates *RateCardStore
}

// NewAssembler creates an Assembler reading rates from store.
func NewAssembler(store *RateCardStore) *Assembler {
	return &Assembler{rates: store}
}

// RateFor returns the current hourly rate of an event.
func (a *Assembler) RateFor(eventID string) float64 {
	return a.rates.Current().RateFor(eventID)
}

// Assemble turns summaries into invoice lines. Lines flagged with an invalid
// rate are rejected instead of invoiced at zero. Lines from open or
// over-long sessions are kept with their flags and mark the invoice for
// review. Money is summed in cents.
func (a *Assembler) Assemble(userID string, summaries []billing.Summary) Invoice {
	card := a.rates.Current()
	inv := Invoice{
		UserID:     userID,
		Currency:   card.Currency,
		Lines:      []Line{},
		TaxPercent: card.TaxPercent,
	}

	var subtotalCents int64
	for _, s := range summaries {
		if s.Flags.Has(billing.FlagInvalidRate) {
			rateErr := errors.NewInvalidRateError(s.Rate)
			inv.Rejected = append(inv.Rejected, Rejection{
				EntryID: s.EntryID,
				EventID: s.EventID,
				Code:    rateErr.Code,
				Reason:  rateErr.Message,
			})
			continue
		}

		line := Line{
			EntryID:     s.EntryID,
			EventID:     s.EventID,
			Description: card.Describe(s.EventID),
			Hours:       s.BillableHours,
			Rate:        s.Rate,
			Amount:      s.LineTotal,
		}
		if s.Flags != 0 {
			line.Flags = s.Flags.Names()
			inv.NeedsReview = true
		}
		inv.Lines = append(inv.Lines, line)
		subtotalCents += toCents(s.LineTotal)
	}

	taxCents := int64(math.Round(float64(subtotalCents) * card.TaxPercent / 100))
	inv.Subtotal = fromCents(subtotalCents)
	inv.Tax = fromCents(taxCents)
	inv.Total = fromCents(subtotalCents + taxCents)
	return inv
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}
