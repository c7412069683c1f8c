package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/recyclerie/caisse-backend/internal/money"
)

// Manager owns the single active session reference of a register and
// mediates every lifecycle transition with the Backend collaborator.
//
// Expected failures never escape as errors: each operation resolves to a
// success flag and the last human-readable failure is exposed through Err(),
// matching what the register UI renders.
type Manager struct {
	backend Backend
	cache   Cache
	log     *zap.Logger

	mu      sync.Mutex
	current *Session
	lastErr string
	loading bool

	sfg singleflight.Group
}

func NewManager(backend Backend, cache Cache, log *zap.Logger) *Manager {
	return &Manager{backend: backend, cache: cache, log: log}
}

// Current returns a copy of the active session, or nil when the register has
// no open session.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	c := *m.current
	return &c
}

// CurrentID returns the active session id, or "" when there is none.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.ID.String()
}

// Err returns the message of the last failed operation, cleared on the next
// successful one.
func (m *Manager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Loading reports whether a lifecycle call is in flight. The UI uses it to
// disable duplicate triggers; the Manager itself does not serialize calls.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Open establishes the active session. An already-active session on the same
// register, then the operator's own open session, are adopted before a new
// one is created; a creation conflict retries the register lookup once.
func (m *Manager) Open(ctx context.Context, p OpenParams) (*Session, bool) {
	amount, err := money.ParseAmount(p.InitialAmount)
	if err != nil {
		m.setErr(fmt.Sprintf("invalid initial amount: %v", err))
		return nil, false
	}
	if p.OperatorID == "" || p.SiteID == "" {
		m.setErr("operator and site are required to open a session")
		return nil, false
	}

	m.setLoading(true)
	defer m.setLoading(false)

	if p.RegisterID != "" {
		s, found, err := m.adoptRegisterSession(ctx, p.RegisterID)
		if err != nil {
			m.setErr(fmt.Sprintf("could not check register status: %v", err))
			return nil, false
		}
		if found {
			return s, true
		}
	}

	existing, err := m.backend.CurrentSession(ctx, p.OperatorID)
	if err != nil {
		m.setErr(fmt.Sprintf("could not look up current session: %v", err))
		return nil, false
	}
	if existing != nil && existing.Status == StatusOpen {
		m.adopt(ctx, existing)
		return existing, true
	}

	created, err := m.backend.CreateSession(ctx, CreateParams{
		OperatorID:    p.OperatorID,
		SiteID:        p.SiteID,
		RegisterID:    p.RegisterID,
		InitialAmount: amount,
	})
	if errors.Is(err, ErrConflict) && p.RegisterID != "" {
		// someone else just opened on this register; adopt theirs
		s, found, retryErr := m.adoptRegisterSession(ctx, p.RegisterID)
		if retryErr == nil && found {
			return s, true
		}
		m.setErr("a session is already open for this register")
		return nil, false
	}
	if err != nil {
		m.setErr(fmt.Sprintf("could not open session: %v", err))
		return nil, false
	}

	m.adopt(ctx, created)
	return created, true
}

func (m *Manager) adoptRegisterSession(ctx context.Context, registerID string) (*Session, bool, error) {
	status, err := m.backend.RegisterStatus(ctx, registerID)
	if err != nil {
		return nil, false, err
	}
	if status == nil || !status.IsActive || status.SessionID == nil {
		return nil, false, nil
	}
	s, err := m.backend.Session(ctx, status.SessionID.String())
	if err != nil {
		return nil, false, err
	}
	if s == nil || s.Status != StatusOpen {
		return nil, false, nil
	}
	m.adopt(ctx, s)
	return s, true, nil
}

// Close ends the active session. Reconciliation figures, when supplied, are
// forwarded to the collaborator; closing an absent or different session is a
// failing no-op.
func (m *Manager) Close(ctx context.Context, sessionID string, data *CloseData) bool {
	m.mu.Lock()
	if m.current == nil || m.current.ID.String() != sessionID || m.current.Status != StatusOpen {
		m.lastErr = "no active session to close"
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()

	m.setLoading(true)
	defer m.setLoading(false)

	var err error
	if data != nil {
		// an empty session may be deleted outright by the collaborator; a
		// nil session back is still a successful close
		_, err = m.backend.CloseSessionWithAmounts(ctx, sessionID, data.ActualAmount, data.VarianceComment)
	} else {
		err = m.backend.CloseSession(ctx, sessionID)
	}
	if err != nil {
		m.setErr(fmt.Sprintf("could not close session: %v", err))
		return false
	}

	m.mu.Lock()
	m.current = nil
	m.lastErr = ""
	m.mu.Unlock()

	if cerr := m.cache.Clear(ctx); cerr != nil {
		m.log.Warn("session cache clear failed", zap.Error(cerr))
	}
	return true
}

// Resume adopts an existing session by id, but only if it is still open.
func (m *Manager) Resume(ctx context.Context, sessionID string) bool {
	m.setLoading(true)
	defer m.setLoading(false)

	s, err := m.backend.Session(ctx, sessionID)
	if err != nil {
		m.setErr(fmt.Sprintf("could not fetch session: %v", err))
		return false
	}
	if s == nil {
		m.setErr("session not found")
		return false
	}
	if s.Status != StatusOpen {
		m.setErr("session is closed and cannot be resumed")
		return false
	}
	m.adopt(ctx, s)
	return true
}

// Refresh re-validates the active (or cached) session against the
// collaborator, typically after a reconnect. A session the collaborator no
// longer reports as open is dropped; otherwise the canonical copy is
// re-adopted. Concurrent refreshes collapse into one backend call.
func (m *Manager) Refresh(ctx context.Context) bool {
	_, err, _ := m.sfg.Do("refresh", func() (interface{}, error) {
		m.mu.Lock()
		cur := m.current
		m.mu.Unlock()

		if cur == nil {
			cached, err := m.cache.Load(ctx)
			if err != nil {
				if !errors.Is(err, ErrCacheMiss) {
					m.log.Warn("session cache load failed", zap.Error(err))
				}
				return nil, nil // nothing to refresh
			}
			cur = cached
		}

		s, err := m.backend.Session(ctx, cur.ID.String())
		if err != nil {
			return nil, err
		}
		if s == nil || s.Status != StatusOpen {
			m.mu.Lock()
			m.current = nil
			m.mu.Unlock()
			if cerr := m.cache.Clear(ctx); cerr != nil {
				m.log.Warn("session cache clear failed", zap.Error(cerr))
			}
			return nil, nil
		}
		m.adopt(ctx, s)
		return nil, nil
	})
	if err != nil {
		m.setErr(fmt.Sprintf("could not refresh session: %v", err))
		return false
	}
	return true
}

// Update applies a partial update through the collaborator. When the updated
// session is the active one, the canonical copy replaces it in place.
func (m *Manager) Update(ctx context.Context, sessionID string, f UpdateFields) bool {
	updated, err := m.backend.UpdateSession(ctx, sessionID, f)
	if err != nil {
		m.setErr(fmt.Sprintf("could not update session: %v", err))
		return false
	}
	if updated == nil {
		m.setErr("session not found")
		return false
	}

	m.mu.Lock()
	isActive := m.current != nil && m.current.ID == updated.ID
	if isActive {
		m.current = updated
		m.lastErr = ""
	}
	m.mu.Unlock()

	if isActive {
		if cerr := m.cache.Store(ctx, updated); cerr != nil {
			m.log.Warn("session cache store failed", zap.Error(cerr))
		}
	}
	return true
}

// ApplySale folds a recorded sale into the active session's running totals.
// Cash payments also move the drawer amount.
func (m *Manager) ApplySale(ctx context.Context, totalAmount float64, itemCount int, donationAmount float64, cash bool) bool {
	m.mu.Lock()
	cur := m.current
	if cur == nil {
		m.lastErr = "no active session"
		m.mu.Unlock()
		return false
	}

	sales := totalAmount
	if cur.TotalSales != nil {
		sales += *cur.TotalSales
	}
	items := itemCount
	if cur.TotalItems != nil {
		items += *cur.TotalItems
	}
	donations := donationAmount
	if cur.TotalDonations != nil {
		donations += *cur.TotalDonations
	}

	f := UpdateFields{TotalSales: &sales, TotalItems: &items, TotalDonations: &donations}
	if cash {
		drawer := cur.CurrentAmount + totalAmount + donationAmount
		f.CurrentAmount = &drawer
	}
	id := cur.ID.String()
	m.mu.Unlock()

	return m.Update(ctx, id, f)
}

func (m *Manager) adopt(ctx context.Context, s *Session) {
	m.mu.Lock()
	m.current = s
	m.lastErr = ""
	m.mu.Unlock()

	if err := m.cache.Store(ctx, s); err != nil {
		m.log.Warn("session cache store failed", zap.Error(err))
	}
}

func (m *Manager) setErr(msg string) {
	m.mu.Lock()
	m.lastErr = msg
	m.mu.Unlock()
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
