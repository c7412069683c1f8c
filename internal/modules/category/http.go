package category

import (
	"context"
	"errors"
	"net/http"

	"github.com/recyclerie/caisse-backend/internal/backend"
)

type httpRepo struct{ api *backend.Client }

// NewHTTPRepository uses the central backend's category administration
// endpoints (connected mode).
func NewHTTPRepository(api *backend.Client) Repository { return &httpRepo{api: api} }

func (r *httpRepo) Create(ctx context.Context, c *Category) error {
	return r.api.Post(ctx, "/api/v1/categories", c, c)
}

func (r *httpRepo) GetByID(ctx context.Context, id string) (*Category, error) {
	var c Category
	if err := r.api.Get(ctx, "/api/v1/categories/"+id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *httpRepo) GetByCode(ctx context.Context, code string) (*Category, error) {
	var c Category
	err := r.api.Get(ctx, "/api/v1/categories/code/"+code, &c)
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *httpRepo) List(ctx context.Context, activeOnly bool) ([]*Category, error) {
	path := "/api/v1/categories"
	if activeOnly {
		path += "?active=true"
	}
	var out []*Category
	if err := r.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *httpRepo) Update(ctx context.Context, c *Category) error {
	return r.api.Patch(ctx, "/api/v1/categories/"+c.ID.String(), c, c)
}

func (r *httpRepo) Deactivate(ctx context.Context, id string) error {
	return r.api.Post(ctx, "/api/v1/categories/"+id+"/deactivate", nil, nil)
}
