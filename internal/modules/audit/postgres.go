package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type postgresSink struct{ db *sql.DB }

// NewPostgresSink stores audit entries in the register's local database
// (standalone mode).
func NewPostgresSink(db *sql.DB) Sink { return &postgresSink{db: db} }

func (s *postgresSink) Append(ctx context.Context, e Entry) error {
	items, err := json.Marshal(e.Cart.Items)
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log
		  (id, kind, session_id, item_count, items, total, anomaly, description, at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		e.ID, e.Kind, e.SessionID, e.Cart.ItemCount, items, e.Cart.Total,
		e.Anomaly, e.Description, e.At)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *postgresSink) List(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, kind, session_id, item_count, items, total, anomaly, description, at
	          FROM audit_log`
	args := []interface{}{}
	if sessionID != "" {
		query += ` WHERE session_id=$1`
		args = append(args, sessionID)
	}
	query += fmt.Sprintf(` ORDER BY at DESC LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var items []byte
		if err := rows.Scan(&e.ID, &e.Kind, &e.SessionID, &e.Cart.ItemCount,
			&items, &e.Cart.Total, &e.Anomaly, &e.Description, &e.At); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &e.Cart.Items); err != nil {
				return nil, fmt.Errorf("decode cart items: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
