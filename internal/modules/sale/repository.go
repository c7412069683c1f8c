package sale

import "context"

// Recorder is the sale-recording collaborator. Unlike the audit trail, a
// recording failure always surfaces to the caller.
type Recorder interface {
	// RecordSale persists a completed ticket.
	RecordSale(ctx context.Context, s *Sale) error

	// ListBySession returns a session's recorded sales, newest first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*Sale, error)
}
