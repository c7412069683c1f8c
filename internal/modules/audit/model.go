package audit

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a cash-register audit event.
type Kind string

const (
	KindTicketOpened     Kind = "TICKET_OPENED"
	KindTicketReset      Kind = "TICKET_RESET"
	KindPaymentValidated Kind = "PAYMENT_VALIDATED"
	KindAnomalyDetected  Kind = "ANOMALY_DETECTED"
)

// CartLine is a frozen copy of one cart line at the moment an event fired.
type CartLine struct {
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	Weight    float64 `json:"weight"`
	UnitPrice float64 `json:"price"`
	Total     float64 `json:"total"`
}

// CartSnapshot captures the cart state attached to an audit event.
type CartSnapshot struct {
	ItemCount int        `json:"item_count"`
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
}

// Entry is one append-only record of the register audit trail.
type Entry struct {
	ID          uuid.UUID    `json:"id"`
	Kind        Kind         `json:"kind"`
	SessionID   string       `json:"session_id"`
	Cart        CartSnapshot `json:"cart"`
	Anomaly     bool         `json:"anomaly"`
	Description string       `json:"description,omitempty"`
	At          time.Time    `json:"at"`
}
