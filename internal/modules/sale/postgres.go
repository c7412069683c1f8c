package sale

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRecorder struct{ db *sql.DB }

// NewPostgresRecorder persists sales in the register's local database
// (standalone mode).
func NewPostgresRecorder(db *sql.DB) Recorder { return &postgresRecorder{db: db} }

// RecordSale inserts the sale and all its lines inside a single transaction.
func (r *postgresRecorder) RecordSale(ctx context.Context, s *Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales
		  (id, session_id, total_amount, donation_amount, payment_method, note, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.SessionID, s.TotalAmount, s.DonationAmount, s.PaymentMethod, s.Note, s.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for _, line := range s.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items
			  (sale_id, category, quantity, weight, unit_price, total_price, preset_id, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			s.ID, line.Category, line.Quantity, line.Weight,
			line.UnitPrice, line.Total, line.PresetID, line.Notes)
		if err != nil {
			return fmt.Errorf("insert sale_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRecorder) ListBySession(ctx context.Context, sessionID string, limit int) ([]*Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, total_amount, donation_amount, payment_method, note, recorded_at
		FROM sales WHERE session_id=$1
		ORDER BY recorded_at DESC LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.SessionID, &s.TotalAmount, &s.DonationAmount,
			&s.PaymentMethod, &s.Note, &s.RecordedAt); err != nil {
			return nil, err
		}
		sales = append(sales, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range sales {
		s.Items, err = r.listItems(ctx, s.ID.String())
		if err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (r *postgresRecorder) listItems(ctx context.Context, saleID string) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, quantity, weight, unit_price, total_price, preset_id, notes
		FROM sale_items WHERE sale_id=$1 ORDER BY id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.Category, &l.Quantity, &l.Weight,
			&l.UnitPrice, &l.Total, &l.PresetID, &l.Notes); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
