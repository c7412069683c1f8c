package session

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Cache.Load when no session is cached.
var ErrCacheMiss = errors.New("no cached session")

// Cache is the durable mirror of the active session, kept so a register
// survives a process restart without losing its session reference. It is a
// derived copy only: the Manager always re-validates it against the Backend
// before trusting it.
type Cache interface {
	Load(ctx context.Context) (*Session, error)
	Store(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}
