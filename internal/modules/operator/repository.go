package operator

import "context"

// Repository defines data access for operators.
type Repository interface {
	Create(ctx context.Context, o *Operator) error
	GetByID(ctx context.Context, id string) (*Operator, error)
	GetByName(ctx context.Context, name string) (*Operator, error)
	List(ctx context.Context, activeOnly bool) ([]*Operator, error)
}
