package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service defines category administration logic.
type Service interface {
	CreateCategory(ctx context.Context, req UpsertRequest) (*Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*Category, error)
	UpdateCategory(ctx context.Context, id string, req UpsertRequest) (*Category, error)
	DeactivateCategory(ctx context.Context, id string) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCategory(ctx context.Context, req UpsertRequest) (*Category, error) {
	kind, err := validate(req)
	if err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if existing, err := s.repo.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, fmt.Errorf("category code %s already exists", code)
	}

	c := &Category{
		ID:            uuid.New(),
		Code:          code,
		Label:         req.Label,
		Kind:          kind,
		UnitPriceHint: req.UnitPriceHint,
		Active:        true,
		DisplayOrder:  req.DisplayOrder,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCategory(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListCategories(ctx context.Context, activeOnly bool) ([]*Category, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) UpdateCategory(ctx context.Context, id string, req UpsertRequest) (*Category, error) {
	kind, err := validate(req)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("category not found: %w", err)
	}

	c.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	c.Label = req.Label
	c.Kind = kind
	c.UnitPriceHint = req.UnitPriceHint
	c.DisplayOrder = req.DisplayOrder
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeactivateCategory(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

func validate(req UpsertRequest) (Kind, error) {
	if strings.TrimSpace(req.Code) == "" {
		return "", fmt.Errorf("code is required")
	}
	if strings.TrimSpace(req.Label) == "" {
		return "", fmt.Errorf("label is required")
	}
	kind := Kind(strings.ToLower(req.Kind))
	switch kind {
	case KindSale, KindDonation, KindBoth:
		return kind, nil
	default:
		return "", fmt.Errorf("invalid kind: %s (allowed: sale, donation, both)", req.Kind)
	}
}
