package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const categoryColumns = `id, code, label, kind, unit_price_hint, active, display_order, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories
		  (id, code, label, kind, unit_price_hint, active, display_order)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.Code, c.Label, c.Kind, c.UnitPriceHint, c.Active, c.DisplayOrder)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Category, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}
	return scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE code=$1`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE active=true`
	}
	query += ` ORDER BY display_order, code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Label, &c.Kind, &c.UnitPriceHint,
			&c.Active, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET code=$2, label=$3, kind=$4, unit_price_hint=$5, display_order=$6, updated_at=NOW()
		WHERE id=$1`,
		c.ID, c.Code, c.Label, c.Kind, c.UnitPriceHint, c.DisplayOrder)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *postgresRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET active=false, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("category %s not found", id)
	}
	return nil
}

func scanCategory(row *sql.Row) (*Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Code, &c.Label, &c.Kind, &c.UnitPriceHint,
		&c.Active, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
