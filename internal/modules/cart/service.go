package cart

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recyclerie/caisse-backend/internal/modules/audit"
)

// SessionSource tells the store which session the cart belongs to.
type SessionSource interface {
	CurrentID() string
}

// Store holds the ordered lines of the pending sale and the ticket note.
//
// The first add into an empty cart is the semantic "ticket opened" event; an
// add into a non-empty cart whose open was never tracked is recorded as an
// anomaly but still applied (log-and-allow), so the operator's entry is
// never silently swallowed. Quantity, weight and price are accepted as-is
// here; positivity is checked at submission time so lines stay freely
// editable mid-entry.
type Store struct {
	audit    *audit.Logger
	sessions SessionSource
	log      *zap.Logger

	mu           sync.Mutex
	items        []SaleItem
	note         string
	ticketOpened bool
	sessionID    string // session the opened flag belongs to
}

func NewStore(auditLog *audit.Logger, sessions SessionSource, log *zap.Logger) *Store {
	return &Store{audit: auditLog, sessions: sessions, log: log}
}

// Add appends a line with a fresh local id and returns it.
func (s *Store) Add(p AddParams) SaleItem {
	item := SaleItem{
		ID:        uuid.New(),
		Category:  p.Category,
		Quantity:  p.Quantity,
		Weight:    p.Weight,
		UnitPrice: p.UnitPrice,
		Total:     float64(p.Quantity) * p.UnitPrice,
		PresetRef: p.PresetRef,
		Note:      p.Note,
	}

	s.mu.Lock()
	s.syncSessionLocked()
	wasEmpty := len(s.items) == 0
	before := s.snapshotLocked()
	s.items = append(s.items, item)
	after := s.snapshotLocked()
	opened := s.ticketOpened
	if !opened {
		s.ticketOpened = true
	}
	sid := s.sessionID
	s.mu.Unlock()

	switch {
	case wasEmpty && !opened:
		s.audit.TicketOpened(sid, after, false)
	case !wasEmpty && !opened:
		s.audit.Anomaly(sid, before, "item added but no ticket is explicitly opened")
		s.audit.TicketOpened(sid, after, true)
	}
	return item
}

// Update recomputes the line total from quantity × price and keeps any
// optional field that was not supplied. Unknown ids are a no-op.
func (s *Store) Update(id uuid.UUID, p UpdateParams) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items[i].Quantity = p.Quantity
		s.items[i].Weight = p.Weight
		s.items[i].UnitPrice = p.UnitPrice
		s.items[i].Total = float64(p.Quantity) * p.UnitPrice
		if p.PresetRef != nil {
			s.items[i].PresetRef = *p.PresetRef
		}
		if p.Note != nil {
			s.items[i].Note = *p.Note
		}
		return true
	}
	return false
}

// Remove deletes the matching line; removing an absent id is a no-op. A
// removal that empties the cart ends the ticket, so the next add opens a
// fresh one.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			if len(s.items) == 0 {
				s.ticketOpened = false
			}
			return
		}
	}
}

// Clear empties the cart, resets the ticket note and the opened flag. A
// non-empty cart is snapshotted and recorded as a ticket reset.
func (s *Store) Clear() {
	s.mu.Lock()
	wasEmpty := len(s.items) == 0
	before := s.snapshotLocked()
	sid := s.sessionID
	s.items = nil
	s.note = ""
	s.ticketOpened = false
	s.mu.Unlock()

	if !wasEmpty {
		s.audit.TicketReset(sid, before)
	}
}

// Items returns a copy of the current lines in entry order.
func (s *Store) Items() []SaleItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SaleItem, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns the number of lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total sums the line totals.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Total
	}
	return total
}

// Note returns the free-text ticket note.
func (s *Store) Note() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.note
}

// SetNote replaces the free-text ticket note.
func (s *Store) SetNote(note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.note = note
}

// Snapshot freezes the cart state for audit purposes.
func (s *Store) Snapshot() audit.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() audit.CartSnapshot {
	snap := audit.CartSnapshot{ItemCount: len(s.items)}
	for _, item := range s.items {
		snap.Items = append(snap.Items, audit.CartLine{
			Category:  item.Category,
			Quantity:  item.Quantity,
			Weight:    item.Weight,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
		snap.Total += item.Total
	}
	return snap
}

// syncSessionLocked resets the opened flag when the active session changed
// since the last cart operation.
func (s *Store) syncSessionLocked() {
	sid := s.sessions.CurrentID()
	if sid != s.sessionID {
		s.sessionID = sid
		s.ticketOpened = false
	}
}
