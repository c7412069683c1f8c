package cart

import "github.com/google/uuid"

// SaleItem is one line of the pending sale. IDs are generated locally and
// never leave the register; the persisted sale gets its own identifiers.
type SaleItem struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	Weight    float64   `json:"weight"`
	UnitPrice float64   `json:"price"`
	Total     float64   `json:"total"`
	PresetRef string    `json:"preset,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// AddParams describes a line to append. Total is always recomputed from
// quantity × price, whatever the caller sends.
type AddParams struct {
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	Weight    float64 `json:"weight"`
	UnitPrice float64 `json:"price"`
	PresetRef string  `json:"preset,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// UpdateParams edits an existing line. Nil optional fields keep their
// current value.
type UpdateParams struct {
	Quantity  int     `json:"quantity"`
	Weight    float64 `json:"weight"`
	UnitPrice float64 `json:"price"`
	PresetRef *string `json:"preset,omitempty"`
	Note      *string `json:"note,omitempty"`
}
