package operator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service defines operator management and register login.
type Service interface {
	CreateOperator(ctx context.Context, req CreateRequest) (*Operator, error)
	ListOperators(ctx context.Context) ([]*Operator, error)
	// Login verifies the PIN and returns a register-scoped token.
	Login(ctx context.Context, req LoginRequest) (string, error)
}

type service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  12 * time.Hour,
	}
}

func (s *service) CreateOperator(ctx context.Context, req CreateRequest) (*Operator, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := validatePIN(req.PIN); err != nil {
		return nil, err
	}

	role := Role(strings.ToLower(req.Role))
	switch role {
	case RoleCashier, RoleManager:
	case "":
		role = RoleCashier
	default:
		return nil, fmt.Errorf("invalid role: %s (allowed: cashier, manager)", req.Role)
	}

	if existing, err := s.repo.GetByName(ctx, name); err == nil && existing != nil {
		return nil, fmt.Errorf("operator %s already exists", name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	o := &Operator{
		ID:      uuid.New(),
		Name:    name,
		Role:    role,
		PINHash: string(hash),
		Active:  true,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) ListOperators(ctx context.Context) ([]*Operator, error) {
	return s.repo.List(ctx, true)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (string, error) {
	o, err := s.repo.GetByName(ctx, strings.TrimSpace(req.Name))
	if err != nil || o == nil || !o.Active {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(o.PINHash), []byte(req.PIN)); err != nil {
		return "", errors.New("invalid credentials")
	}

	claims := &jwt.StandardClaims{
		Subject:   o.ID.String(),
		ExpiresAt: time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func validatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 8 {
		return fmt.Errorf("pin must be 4 to 8 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return fmt.Errorf("pin must contain digits only")
		}
	}
	return nil
}
