package sale

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recyclerie/caisse-backend/internal/backend"
	"github.com/recyclerie/caisse-backend/internal/modules/audit"
	"github.com/recyclerie/caisse-backend/internal/modules/cart"
	"github.com/recyclerie/caisse-backend/internal/modules/session"
)

// SessionSource provides the active session and accumulates sale totals
// into it.
type SessionSource interface {
	Current() *session.Session
	ApplySale(ctx context.Context, totalAmount float64, itemCount int, donationAmount float64, cash bool) bool
}

// Cart is the pending-sale collection the engine drains on success.
type Cart interface {
	Items() []cart.SaleItem
	Note() string
	Snapshot() audit.CartSnapshot
	Clear()
}

// Engine converts the current cart into a persisted sale. On success the
// cart is cleared; on failure it is left untouched so the operator can
// retry without re-entering anything.
type Engine struct {
	recorder Recorder
	sessions SessionSource
	cart     Cart
	audit    *audit.Logger
	log      *zap.Logger

	mu      sync.Mutex
	lastErr string
	loading bool
}

func NewEngine(recorder Recorder, sessions SessionSource, c Cart, auditLog *audit.Logger, log *zap.Logger) *Engine {
	return &Engine{recorder: recorder, sessions: sessions, cart: c, audit: auditLog, log: log}
}

// Err returns the message of the last failed submission.
func (e *Engine) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Loading reports whether a submission is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Submit records the current cart as a sale. The authoritative total is the
// explicit override when provided (an explicit zero counts), otherwise the
// sum of line totals.
func (e *Engine) Submit(ctx context.Context, fin Finalization) bool {
	sess := e.sessions.Current()
	if sess == nil {
		e.fail("no active session")
		return false
	}

	items := e.cart.Items()
	if len(items) == 0 {
		e.fail("cannot submit an empty sale")
		return false
	}

	method := PaymentMethod(strings.ToUpper(fin.PaymentMethod))
	switch method {
	case PaymentCash, PaymentCard, PaymentCheque, PaymentFree:
	default:
		e.fail(fmt.Sprintf("invalid payment method: %s (allowed: CASH, CARD, CHEQUE, FREE)", fin.PaymentMethod))
		return false
	}

	var sum float64
	itemCount := 0
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			e.fail(fmt.Sprintf("quantity must be greater than zero for %s", item.Category))
			return false
		}
		if item.UnitPrice < 0 {
			e.fail(fmt.Sprintf("price cannot be negative for %s", item.Category))
			return false
		}
		sum += item.Total
		itemCount += item.Quantity

		presetID, notes := presetFields(item)
		lines = append(lines, Line{
			Category:  item.Category,
			Quantity:  item.Quantity,
			Weight:    item.Weight,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
			PresetID:  presetID,
			Notes:     notes,
		})
	}

	total := sum
	if fin.OverrideTotal != nil {
		total = *fin.OverrideTotal
	}
	if total < 0 || fin.DonationAmount < 0 {
		e.fail("amounts cannot be negative")
		return false
	}

	record := &Sale{
		ID:             uuid.New(),
		SessionID:      sess.ID.String(),
		Items:          lines,
		TotalAmount:    total,
		DonationAmount: fin.DonationAmount,
		PaymentMethod:  method,
		RecordedAt:     time.Now().UTC(),
	}
	note := strings.TrimSpace(fin.Note)
	if note == "" {
		note = strings.TrimSpace(e.cart.Note())
	}
	if note != "" {
		record.Note = &note
	}

	e.setLoading(true)
	defer e.setLoading(false)

	snapshot := e.cart.Snapshot()
	if err := e.recorder.RecordSale(ctx, record); err != nil {
		e.fail(failureMessage(err))
		return false
	}

	e.audit.PaymentValidated(record.SessionID, snapshot)
	e.cart.Clear()

	if !e.sessions.ApplySale(ctx, total, itemCount, fin.DonationAmount, method == PaymentCash) {
		// the sale is recorded; a totals update failure must not undo that
		e.log.Warn("session totals update failed after sale",
			zap.String("sale_id", record.ID.String()),
			zap.String("session_id", record.SessionID))
	}

	e.mu.Lock()
	e.lastErr = ""
	e.mu.Unlock()
	return true
}

// presetFields maps a cart line's preset reference onto the wire payload.
// Only a canonical 8-4-4-4-12 identifier travels as preset_id; symbolic tags
// like "don-0" are prefixed into the notes as `preset_type:<tag>` so the
// information survives the round trip.
func presetFields(item cart.SaleItem) (*uuid.UUID, *string) {
	note := strings.TrimSpace(item.Note)

	if item.PresetRef == "" {
		if note == "" {
			return nil, nil
		}
		return nil, &note
	}

	if len(item.PresetRef) == 36 {
		if id, err := uuid.Parse(item.PresetRef); err == nil {
			if note == "" {
				return &id, nil
			}
			return &id, &note
		}
	}

	tagged := "preset_type:" + item.PresetRef
	if note != "" {
		tagged = tagged + ";" + note
	}
	return nil, &tagged
}

// failureMessage extracts the most specific human-readable description from
// a recording failure: structured per-field validation first, then a detail
// string, then the raw error, then a generic fallback.
func failureMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "sale could not be recorded"
}

func (e *Engine) fail(msg string) {
	e.mu.Lock()
	e.lastErr = msg
	e.mu.Unlock()
}

func (e *Engine) setLoading(v bool) {
	e.mu.Lock()
	e.loading = v
	e.mu.Unlock()
}
