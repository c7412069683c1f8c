package category

import (
	"time"

	"github.com/google/uuid"
)

// Kind says which side of the counter a category applies to.
type Kind string

const (
	KindSale     Kind = "sale"
	KindDonation Kind = "donation"
	KindBoth     Kind = "both"
)

// Category is one entry of the sale/donation category tree administered for
// the registers (EEE codes, textile, furniture, ...).
type Category struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Label         string    `json:"label"`
	Kind          Kind      `json:"kind"`
	UnitPriceHint *float64  `json:"unit_price_hint,omitempty"`
	Active        bool      `json:"active"`
	DisplayOrder  int       `json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpsertRequest holds the data for creating or updating a category.
type UpsertRequest struct {
	Code          string   `json:"code"`
	Label         string   `json:"label"`
	Kind          string   `json:"kind"`
	UnitPriceHint *float64 `json:"unit_price_hint,omitempty"`
	DisplayOrder  int      `json:"display_order"`
}
