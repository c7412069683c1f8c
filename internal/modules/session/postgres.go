package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresBackend struct{ db *sql.DB }

// NewPostgresBackend records sessions in the register's local database
// (standalone mode). It implements the same contract as the central backend,
// so the Manager cannot tell the two apart.
func NewPostgresBackend(db *sql.DB) Backend { return &postgresBackend{db: db} }

const sessionColumns = `id, operator_id, site_id, register_id, initial_amount, current_amount,
       status, opened_at, closed_at, total_sales, total_items, total_donations`

func (b *postgresBackend) RegisterStatus(ctx context.Context, registerID string) (*RegisterStatus, error) {
	var id uuid.UUID
	err := b.db.QueryRowContext(ctx, `
		SELECT id FROM sessions WHERE register_id=$1 AND status='open'
		ORDER BY opened_at DESC LIMIT 1`, registerID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return &RegisterStatus{IsActive: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &RegisterStatus{IsActive: true, SessionID: &id}, nil
}

func (b *postgresBackend) CurrentSession(ctx context.Context, operatorID string) (*Session, error) {
	row := b.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions WHERE operator_id=$1 AND status='open'
		ORDER BY opened_at DESC LIMIT 1`, operatorID)
	return scanSession(row)
}

func (b *postgresBackend) Session(ctx context.Context, id string) (*Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}
	row := b.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions WHERE id=$1`, uid)
	return scanSession(row)
}

func (b *postgresBackend) CreateSession(ctx context.Context, p CreateParams) (*Session, error) {
	operatorID, err := uuid.Parse(p.OperatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator id: %w", err)
	}
	siteID, err := uuid.Parse(p.SiteID)
	if err != nil {
		return nil, fmt.Errorf("invalid site id: %w", err)
	}
	var registerID *uuid.UUID
	if p.RegisterID != "" {
		rid, err := uuid.Parse(p.RegisterID)
		if err != nil {
			return nil, fmt.Errorf("invalid register id: %w", err)
		}
		registerID = &rid
	}

	s := &Session{
		ID:            uuid.New(),
		OperatorID:    operatorID,
		SiteID:        siteID,
		RegisterID:    registerID,
		InitialAmount: p.InitialAmount,
		CurrentAmount: p.InitialAmount,
		Status:        StatusOpen,
		OpenedAt:      time.Now().UTC(),
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO sessions
		  (id, operator_id, site_id, register_id, initial_amount, current_amount, status, opened_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		s.ID, s.OperatorID, s.SiteID, s.RegisterID,
		s.InitialAmount, s.CurrentAmount, s.Status, s.OpenedAt)
	if err != nil {
		// the partial unique index on open sessions enforces one per register
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s, nil
}

func (b *postgresBackend) CloseSession(ctx context.Context, id string) error {
	res, err := b.db.ExecContext(ctx, `
		UPDATE sessions SET status='closed', closed_at=NOW()
		WHERE id=$1 AND status='open'`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("session %s is not open", id)
	}
	return nil
}

func (b *postgresBackend) CloseSessionWithAmounts(ctx context.Context, id string, actualAmount float64, varianceComment string) (*Session, error) {
	// empty sessions are deleted rather than kept as a closed husk
	var sales sql.NullFloat64
	err := b.db.QueryRowContext(ctx,
		`SELECT total_sales FROM sessions WHERE id=$1 AND status='open'`, id).Scan(&sales)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s is not open", id)
	}
	if err != nil {
		return nil, err
	}

	if !sales.Valid || sales.Float64 == 0 {
		if _, err := b.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=$1`, id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, err = b.db.ExecContext(ctx, `
		UPDATE sessions
		SET status='closed', closed_at=NOW(), current_amount=$2, variance_comment=$3
		WHERE id=$1`, id, actualAmount, varianceComment)
	if err != nil {
		return nil, err
	}
	return b.Session(ctx, id)
}

func (b *postgresBackend) UpdateSession(ctx context.Context, id string, f UpdateFields) (*Session, error) {
	s, err := b.Session(ctx, id)
	if err != nil || s == nil {
		return s, err
	}
	s.apply(f)

	_, err = b.db.ExecContext(ctx, `
		UPDATE sessions
		SET current_amount=$2, total_sales=$3, total_items=$4, total_donations=$5
		WHERE id=$1`,
		s.ID, s.CurrentAmount, s.TotalSales, s.TotalItems, s.TotalDonations)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	return s, nil
}

func scanSession(row *sql.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.OperatorID, &s.SiteID, &s.RegisterID,
		&s.InitialAmount, &s.CurrentAmount, &s.Status, &s.OpenedAt,
		&s.ClosedAt, &s.TotalSales, &s.TotalItems, &s.TotalDonations)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
