package session

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a cash session. A session only
// ever moves open → closed.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Session is one operator's working period at a register, bounded by
// open/close, accumulating sales.
type Session struct {
	ID             uuid.UUID  `json:"id"`
	OperatorID     uuid.UUID  `json:"operator_id"`
	SiteID         uuid.UUID  `json:"site_id"`
	RegisterID     *uuid.UUID `json:"register_id,omitempty"`
	InitialAmount  float64    `json:"initial_amount"`
	CurrentAmount  float64    `json:"current_amount"`
	Status         Status     `json:"status"`
	OpenedAt       time.Time  `json:"opened_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	TotalSales     *float64   `json:"total_sales,omitempty"`
	TotalItems     *int       `json:"total_items,omitempty"`
	TotalDonations *float64   `json:"total_donations,omitempty"`
}

// RegisterStatus reports whether a physical register already has an active
// session.
type RegisterStatus struct {
	IsActive  bool       `json:"is_active"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
}

// OpenParams is the input to Manager.Open. InitialAmount is the raw operator
// input and may use a comma or dot decimal separator.
type OpenParams struct {
	OperatorID    string `json:"operator_id"`
	SiteID        string `json:"site_id"`
	RegisterID    string `json:"register_id,omitempty"`
	InitialAmount string `json:"initial_amount"`
}

// CreateParams is what the collaborator needs to create a fresh session.
type CreateParams struct {
	OperatorID    string  `json:"operator_id"`
	SiteID        string  `json:"site_id"`
	RegisterID    string  `json:"register_id,omitempty"`
	InitialAmount float64 `json:"initial_amount"`
}

// CloseData carries the end-of-day reconciliation figures.
type CloseData struct {
	ActualAmount    float64 `json:"actual_amount"`
	VarianceComment string  `json:"variance_comment,omitempty"`
}

// UpdateFields is a partial session update; nil fields are left untouched.
type UpdateFields struct {
	CurrentAmount  *float64 `json:"current_amount,omitempty"`
	TotalSales     *float64 `json:"total_sales,omitempty"`
	TotalItems     *int     `json:"total_items,omitempty"`
	TotalDonations *float64 `json:"total_donations,omitempty"`
}

func (s *Session) apply(f UpdateFields) {
	if f.CurrentAmount != nil {
		s.CurrentAmount = *f.CurrentAmount
	}
	if f.TotalSales != nil {
		s.TotalSales = f.TotalSales
	}
	if f.TotalItems != nil {
		s.TotalItems = f.TotalItems
	}
	if f.TotalDonations != nil {
		s.TotalDonations = f.TotalDonations
	}
}
