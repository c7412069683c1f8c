package session

import (
	"context"
	"errors"
)

// ErrConflict is returned by Backend.CreateSession when the register or
// operator already has an open session elsewhere.
var ErrConflict = errors.New("a session is already open")

// Backend is the session-recording collaborator. In connected mode it is the
// central REST backend; in standalone mode the register's local database.
// Lookup methods return (nil, nil) when nothing matches.
type Backend interface {
	// RegisterStatus reports whether the given register has an active session.
	RegisterStatus(ctx context.Context, registerID string) (*RegisterStatus, error)

	// CurrentSession returns the operator's currently open session, if any.
	CurrentSession(ctx context.Context, operatorID string) (*Session, error)

	// Session fetches a session by id.
	Session(ctx context.Context, id string) (*Session, error)

	// CreateSession opens a brand new session. Returns ErrConflict when one
	// is already open for the same register or operator.
	CreateSession(ctx context.Context, p CreateParams) (*Session, error)

	// CloseSession closes a session without reconciliation figures.
	CloseSession(ctx context.Context, id string) error

	// CloseSessionWithAmounts closes a session recording the counted cash and
	// a variance comment. The collaborator may delete an empty session
	// outright instead of closing it, in which case it returns (nil, nil);
	// both outcomes are success.
	CloseSessionWithAmounts(ctx context.Context, id string, actualAmount float64, varianceComment string) (*Session, error)

	// UpdateSession applies a partial update and returns the canonical copy.
	UpdateSession(ctx context.Context, id string, f UpdateFields) (*Session, error)
}
