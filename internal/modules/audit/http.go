package audit

import (
	"context"
	"fmt"

	"github.com/recyclerie/caisse-backend/internal/backend"
)

type httpSink struct{ api *backend.Client }

// NewHTTPSink forwards audit entries to the central backend (connected mode).
func NewHTTPSink(api *backend.Client) Sink { return &httpSink{api: api} }

func (s *httpSink) Append(ctx context.Context, e Entry) error {
	return s.api.Post(ctx, "/api/v1/audit", e, nil)
}

func (s *httpSink) List(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	path := fmt.Sprintf("/api/v1/audit?limit=%d", limit)
	if sessionID != "" {
		path += "&session_id=" + sessionID
	}
	var entries []Entry
	if err := s.api.Get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
