package category

import "context"

// Repository defines data access for categories.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	GetByCode(ctx context.Context, code string) (*Category, error)
	List(ctx context.Context, activeOnly bool) ([]*Category, error)
	Update(ctx context.Context, c *Category) error
	Deactivate(ctx context.Context, id string) error
}
