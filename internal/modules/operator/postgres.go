package operator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, o *Operator) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO operators (id, name, role, pin_hash, active)
		VALUES ($1,$2,$3,$4,$5)`,
		o.ID, o.Name, o.Role, o.PINHash, o.Active)
	if err != nil {
		return fmt.Errorf("insert operator: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Operator, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid operator id: %w", err)
	}
	return scanOperator(r.db.QueryRowContext(ctx, `
		SELECT id, name, role, pin_hash, active, created_at
		FROM operators WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByName(ctx context.Context, name string) (*Operator, error) {
	o, err := scanOperator(r.db.QueryRowContext(ctx, `
		SELECT id, name, role, pin_hash, active, created_at
		FROM operators WHERE name=$1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]*Operator, error) {
	query := `SELECT id, name, role, pin_hash, active, created_at FROM operators`
	if activeOnly {
		query += ` WHERE active=true`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Operator
	for rows.Next() {
		var o Operator
		if err := rows.Scan(&o.ID, &o.Name, &o.Role, &o.PINHash, &o.Active, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

func scanOperator(row *sql.Row) (*Operator, error) {
	var o Operator
	err := row.Scan(&o.ID, &o.Name, &o.Role, &o.PINHash, &o.Active, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
