package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger records cart lifecycle events. Every call dispatches a detached
// write: the caller's operation is never blocked and never fails because the
// audit trail is unreachable. Failed writes go to the diagnostic log only.
type Logger struct {
	sink    Sink
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewLogger(sink Sink, log *zap.Logger) *Logger {
	return &Logger{
		sink:    sink,
		log:     log,
		timeout: 5 * time.Second,
	}
}

// TicketOpened records the cart's empty → non-empty transition. The anomaly
// flag marks opens that were reconstructed after an untracked item add.
func (l *Logger) TicketOpened(sessionID string, cart CartSnapshot, anomaly bool) {
	l.dispatch(Entry{
		Kind:      KindTicketOpened,
		SessionID: sessionID,
		Cart:      cart,
		Anomaly:   anomaly,
	})
}

// TicketReset records a cart being cleared while it still held items.
func (l *Logger) TicketReset(sessionID string, cart CartSnapshot) {
	l.dispatch(Entry{
		Kind:      KindTicketReset,
		SessionID: sessionID,
		Cart:      cart,
	})
}

// PaymentValidated records a successfully submitted sale.
func (l *Logger) PaymentValidated(sessionID string, cart CartSnapshot) {
	l.dispatch(Entry{
		Kind:      KindPaymentValidated,
		SessionID: sessionID,
		Cart:      cart,
	})
}

// Anomaly records an unexpected sequence of cart operations.
func (l *Logger) Anomaly(sessionID string, cart CartSnapshot, description string) {
	l.dispatch(Entry{
		Kind:        KindAnomalyDetected,
		SessionID:   sessionID,
		Cart:        cart,
		Anomaly:     true,
		Description: description,
	})
}

func (l *Logger) dispatch(e Entry) {
	e.ID = uuid.New()
	e.At = time.Now().UTC()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		if err := l.sink.Append(ctx, e); err != nil {
			l.log.Warn("audit write failed",
				zap.String("kind", string(e.Kind)),
				zap.String("session_id", e.SessionID),
				zap.Error(err))
		}
	}()
}

// Drain waits for in-flight audit writes. Used on shutdown and in tests;
// normal callers never wait.
func (l *Logger) Drain() {
	l.wg.Wait()
}
