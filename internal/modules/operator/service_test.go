package operator

import (
	"context"
	"sync"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mu     sync.Mutex
	byName map[string]*Operator
}

func newMockRepo() *mockRepo {
	return &mockRepo{byName: map[string]*Operator{}}
}

func (m *mockRepo) Create(_ context.Context, o *Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byName[o.Name] = o
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.byName {
		if o.ID.String() == id {
			return o, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) GetByName(_ context.Context, name string) (*Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byName[name], nil
}

func (m *mockRepo) List(_ context.Context, activeOnly bool) ([]*Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Operator
	for _, o := range m.byName {
		if activeOnly && !o.Active {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func TestCreateOperator_HashesPIN(t *testing.T) {
	sut := NewService(newMockRepo(), "secret")

	o, err := sut.CreateOperator(context.Background(), CreateRequest{Name: "Marie", PIN: "1234"})

	require.NoError(t, err)
	assert.Equal(t, RoleCashier, o.Role, "role defaults to cashier")
	assert.NotEmpty(t, o.PINHash)
	assert.NotContains(t, o.PINHash, "1234")
	assert.True(t, o.Active)
}

func TestCreateOperator_ValidatesPIN(t *testing.T) {
	sut := NewService(newMockRepo(), "secret")

	_, err := sut.CreateOperator(context.Background(), CreateRequest{Name: "Marie", PIN: "12"})
	assert.EqualError(t, err, "pin must be 4 to 8 digits")

	_, err = sut.CreateOperator(context.Background(), CreateRequest{Name: "Marie", PIN: "12a4"})
	assert.EqualError(t, err, "pin must contain digits only")
}

func TestCreateOperator_RejectsUnknownRole(t *testing.T) {
	sut := NewService(newMockRepo(), "secret")

	_, err := sut.CreateOperator(context.Background(), CreateRequest{Name: "Marie", PIN: "1234", Role: "admin"})
	assert.ErrorContains(t, err, "invalid role")
}

func TestCreateOperator_RejectsDuplicateName(t *testing.T) {
	sut := NewService(newMockRepo(), "secret")

	_, err := sut.CreateOperator(context.Background(), CreateRequest{Name: "Marie", PIN: "1234"})
	require.NoError(t, err)

	_, err = sut.CreateOperator(context.Background(), CreateRequest{Name: "Marie", PIN: "5678"})
	assert.ErrorContains(t, err, "already exists")
}

func TestLogin_ReturnsVerifiableToken(t *testing.T) {
	sut := NewService(newMockRepo(), "secret")

	o, err := sut.CreateOperator(context.Background(), CreateRequest{Name: "Marie", PIN: "1234", Role: "manager"})
	require.NoError(t, err)

	token, err := sut.Login(context.Background(), LoginRequest{Name: "Marie", PIN: "1234"})
	require.NoError(t, err)

	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, o.ID.String(), claims.Subject)
}

func TestLogin_WrongPINFails(t *testing.T) {
	sut := NewService(newMockRepo(), "secret")

	_, err := sut.CreateOperator(context.Background(), CreateRequest{Name: "Marie", PIN: "1234"})
	require.NoError(t, err)

	_, err = sut.Login(context.Background(), LoginRequest{Name: "Marie", PIN: "9999"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestLogin_UnknownOperatorFails(t *testing.T) {
	sut := NewService(newMockRepo(), "secret")

	_, err := sut.Login(context.Background(), LoginRequest{Name: "ghost", PIN: "1234"})
	assert.EqualError(t, err, "invalid credentials")
}
