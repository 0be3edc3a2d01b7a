package models

import "time"

type QuoteStatus string

const (
	QuoteRequested QuoteStatus = "requested"
	QuotePriced    QuoteStatus = "priced"
	QuoteApproved  QuoteStatus = "approved"
	QuoteDeclined  QuoteStatus = "declined"
)

// Quote is a priced (or not yet priced) inspection request.
// AmountCents is zero until the quote has been priced.
type Quote struct {
	ID          string      `json:"id"`
	Address     string      `json:"address"`
	Status      QuoteStatus `json:"status"`
	AmountCents int64       `json:"amount_cents"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
