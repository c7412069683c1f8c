package operator

import (
	"time"

	"github.com/google/uuid"
)

// Role scopes what an operator may do on the register.
type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
)

// Operator is a person allowed to open a session on this register. PINs are
// stored hashed and never serialized.
type Operator struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	PINHash   string    `json:"-"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest holds the data for registering an operator.
type CreateRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
	PIN  string `json:"pin"`
}

// LoginRequest is the register login payload.
type LoginRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}
