package category

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mu          sync.Mutex
	byID        map[string]*Category
	byCode      map[string]*Category
	deactivated []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:   map[string]*Category{},
		byCode: map[string]*Category{},
	}
}

func (m *mockRepo) Create(_ context.Context, c *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID.String()] = c
	m.byCode[c.Code] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *mockRepo) GetByCode(_ context.Context, code string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byCode[code], nil
}

func (m *mockRepo) List(_ context.Context, activeOnly bool) ([]*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Category
	for _, c := range m.byID {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, c *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID.String()] = c
	return nil
}

func (m *mockRepo) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deactivated = append(m.deactivated, id)
	if c, ok := m.byID[id]; ok {
		c.Active = false
	}
	return nil
}

func TestCreateCategory_NormalizesCodeAndDefaults(t *testing.T) {
	sut := NewService(newMockRepo())

	c, err := sut.CreateCategory(context.Background(), UpsertRequest{
		Code:  " eee-1 ",
		Label: "Petit électroménager",
		Kind:  "SALE",
	})

	require.NoError(t, err)
	assert.Equal(t, "EEE-1", c.Code)
	assert.Equal(t, KindSale, c.Kind)
	assert.True(t, c.Active)
}

func TestCreateCategory_RejectsMissingFields(t *testing.T) {
	sut := NewService(newMockRepo())

	_, err := sut.CreateCategory(context.Background(), UpsertRequest{Label: "x", Kind: "sale"})
	assert.EqualError(t, err, "code is required")

	_, err = sut.CreateCategory(context.Background(), UpsertRequest{Code: "X", Kind: "sale"})
	assert.EqualError(t, err, "label is required")
}

func TestCreateCategory_RejectsUnknownKind(t *testing.T) {
	sut := NewService(newMockRepo())

	_, err := sut.CreateCategory(context.Background(), UpsertRequest{Code: "X", Label: "x", Kind: "rental"})
	assert.ErrorContains(t, err, "invalid kind")
}

func TestCreateCategory_RejectsDuplicateCode(t *testing.T) {
	repo := newMockRepo()
	sut := NewService(repo)

	_, err := sut.CreateCategory(context.Background(), UpsertRequest{Code: "EEE-1", Label: "a", Kind: "sale"})
	require.NoError(t, err)

	_, err = sut.CreateCategory(context.Background(), UpsertRequest{Code: "EEE-1", Label: "b", Kind: "sale"})
	assert.ErrorContains(t, err, "already exists")

	// the duplicate check sees the normalized code, not the raw input
	_, err = sut.CreateCategory(context.Background(), UpsertRequest{Code: " eee-1 ", Label: "c", Kind: "sale"})
	assert.ErrorContains(t, err, "already exists")
}

func TestUpdateCategory_ReplacesFields(t *testing.T) {
	repo := newMockRepo()
	sut := NewService(repo)

	c, err := sut.CreateCategory(context.Background(), UpsertRequest{Code: "EEE-1", Label: "a", Kind: "sale"})
	require.NoError(t, err)

	hint := 3.5
	got, err := sut.UpdateCategory(context.Background(), c.ID.String(), UpsertRequest{
		Code:          "eee-1",
		Label:         "Petit électroménager",
		Kind:          "both",
		UnitPriceHint: &hint,
		DisplayOrder:  4,
	})

	require.NoError(t, err)
	assert.Equal(t, "EEE-1", got.Code)
	assert.Equal(t, KindBoth, got.Kind)
	require.NotNil(t, got.UnitPriceHint)
	assert.Equal(t, 3.5, *got.UnitPriceHint)
	assert.Equal(t, 4, got.DisplayOrder)
}

func TestDeactivateCategory_HidesFromActiveList(t *testing.T) {
	repo := newMockRepo()
	sut := NewService(repo)

	c, err := sut.CreateCategory(context.Background(), UpsertRequest{Code: "EEE-1", Label: "a", Kind: "sale"})
	require.NoError(t, err)

	require.NoError(t, sut.DeactivateCategory(context.Background(), c.ID.String()))

	active, err := sut.ListCategories(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, active)
}
