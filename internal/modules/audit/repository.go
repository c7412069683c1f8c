package audit

import "context"

// Sink persists audit entries. Implementations are best-effort collaborators:
// the Logger never lets a Sink failure reach the operation that produced the
// event.
type Sink interface {
	// Append stores one entry.
	Append(ctx context.Context, e Entry) error

	// List returns the most recent entries, newest first, optionally
	// filtered by session.
	List(ctx context.Context, sessionID string, limit int) ([]Entry, error)
}
