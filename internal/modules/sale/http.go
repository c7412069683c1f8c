package sale

import (
	"context"
	"fmt"

	"github.com/recyclerie/caisse-backend/internal/backend"
)

type httpRecorder struct{ api *backend.Client }

// NewHTTPRecorder posts sales to the central backend (connected mode).
func NewHTTPRecorder(api *backend.Client) Recorder { return &httpRecorder{api: api} }

func (r *httpRecorder) RecordSale(ctx context.Context, s *Sale) error {
	return r.api.Post(ctx, "/api/v1/sales", s, nil)
}

func (r *httpRecorder) ListBySession(ctx context.Context, sessionID string, limit int) ([]*Sale, error) {
	var sales []*Sale
	path := fmt.Sprintf("/api/v1/sales?session_id=%s&limit=%d", sessionID, limit)
	if err := r.api.Get(ctx, path, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}
