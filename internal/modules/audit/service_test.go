package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memSink struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (s *memSink) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *memSink) List(context.Context, string, int) ([]Entry, error) {
	return nil, nil
}

func (s *memSink) all() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func TestLogger_StampsEntries(t *testing.T) {
	sink := &memSink{}
	sut := NewLogger(sink, zap.NewNop())

	sut.TicketOpened("session-1", CartSnapshot{ItemCount: 1, Total: 5}, false)
	sut.Drain()

	entries := sink.all()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, KindTicketOpened, e.Kind)
	assert.Equal(t, "session-1", e.SessionID)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.At.IsZero())
	assert.False(t, e.Anomaly)
}

func TestLogger_AnomalyCarriesDescription(t *testing.T) {
	sink := &memSink{}
	sut := NewLogger(sink, zap.NewNop())

	sut.Anomaly("session-1", CartSnapshot{}, "item added but no ticket is explicitly opened")
	sut.Drain()

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, KindAnomalyDetected, entries[0].Kind)
	assert.True(t, entries[0].Anomaly)
	assert.Equal(t, "item added but no ticket is explicitly opened", entries[0].Description)
}

func TestLogger_SinkFailureNeverReachesTheCaller(t *testing.T) {
	sink := &memSink{err: errors.New("disk full")}
	sut := NewLogger(sink, zap.NewNop())

	// must not panic, block or surface the error
	sut.PaymentValidated("session-1", CartSnapshot{ItemCount: 2, Total: 12})
	sut.TicketReset("session-1", CartSnapshot{ItemCount: 2, Total: 12})
	sut.Drain()

	assert.Empty(t, sink.all())
}

func TestLogger_ConcurrentDispatchesAllLand(t *testing.T) {
	sink := &memSink{}
	sut := NewLogger(sink, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sut.TicketOpened("session-1", CartSnapshot{}, false)
		}()
	}
	wg.Wait()
	sut.Drain()

	assert.Len(t, sink.all(), 20)
}
