package sale

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod represents how a ticket was settled at the register.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentCheque PaymentMethod = "CHEQUE"
	// PaymentFree marks a free handover (e.g. a zero-amount donation ticket).
	PaymentFree PaymentMethod = "FREE"
)

// Line is one persisted sale line. PresetID is set only when the cart line
// referenced a real preset identifier; symbolic preset tags are folded into
// Notes instead.
type Line struct {
	Category  string     `json:"category"`
	Quantity  int        `json:"quantity"`
	Weight    float64    `json:"weight"`
	UnitPrice float64    `json:"unit_price"`
	Total     float64    `json:"total_price"`
	PresetID  *uuid.UUID `json:"preset_id"`
	Notes     *string    `json:"notes"`
}

// Sale is the persisted ticket.
type Sale struct {
	ID             uuid.UUID     `json:"id"`
	SessionID      string        `json:"session_id"`
	Items          []Line        `json:"items"`
	TotalAmount    float64       `json:"total_amount"`
	DonationAmount float64       `json:"donation_amount"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	Note           *string       `json:"note,omitempty"`
	RecordedAt     time.Time     `json:"recorded_at"`
}

// Finalization carries the checkout figures. OverrideTotal supersedes the
// sum of line totals when set; an explicit zero is a valid final amount and
// must not be confused with "no override", hence the pointer.
type Finalization struct {
	DonationAmount float64  `json:"donation_amount"`
	PaymentMethod  string   `json:"payment_method"`
	OverrideTotal  *float64 `json:"override_total_amount,omitempty"`
	Note           string   `json:"note,omitempty"`
}
