package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/recyclerie/caisse-backend/internal/backend"
)

type httpBackend struct{ api *backend.Client }

// NewHTTPBackend talks to the central backend's session endpoints
// (connected mode).
func NewHTTPBackend(api *backend.Client) Backend { return &httpBackend{api: api} }

func (b *httpBackend) RegisterStatus(ctx context.Context, registerID string) (*RegisterStatus, error) {
	var status RegisterStatus
	err := b.api.Get(ctx, "/api/v1/registers/"+registerID+"/session-status", &status)
	if isNotFound(err) {
		return &RegisterStatus{IsActive: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (b *httpBackend) CurrentSession(ctx context.Context, operatorID string) (*Session, error) {
	var s Session
	err := b.api.Get(ctx, "/api/v1/sessions/current?operator_id="+operatorID, &s)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *httpBackend) Session(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := b.api.Get(ctx, "/api/v1/sessions/"+id, &s)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *httpBackend) CreateSession(ctx context.Context, p CreateParams) (*Session, error) {
	var s Session
	err := b.api.Post(ctx, "/api/v1/sessions", p, &s)
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *httpBackend) CloseSession(ctx context.Context, id string) error {
	return b.api.Post(ctx, "/api/v1/sessions/"+id+"/close", nil, nil)
}

func (b *httpBackend) CloseSessionWithAmounts(ctx context.Context, id string, actualAmount float64, varianceComment string) (*Session, error) {
	body := CloseData{ActualAmount: actualAmount, VarianceComment: varianceComment}
	var s Session
	err := b.api.Post(ctx, "/api/v1/sessions/"+id+"/close", body, &s)
	if isNotFound(err) {
		// the backend deleted an empty session instead of closing it
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *httpBackend) UpdateSession(ctx context.Context, id string, f UpdateFields) (*Session, error) {
	var s Session
	if err := b.api.Patch(ctx, "/api/v1/sessions/"+id, f, &s); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update session: %w", err)
	}
	return &s, nil
}

func isNotFound(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
