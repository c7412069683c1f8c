package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/recyclerie/caisse-backend/internal/modules/audit"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (s *recordingSink) Append(_ context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *recordingSink) List(context.Context, string, int) ([]audit.Entry, error) {
	return nil, nil
}

// byKind counts entries per kind; dispatch order of detached audit writes is
// not guaranteed, so tests never assert on slice order.
func (s *recordingSink) byKind() map[audit.Kind][]audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[audit.Kind][]audit.Entry{}
	for _, e := range s.entries {
		out[e.Kind] = append(out[e.Kind], e)
	}
	return out
}

type stubSessions struct {
	mu sync.Mutex
	id string
}

func (s *stubSessions) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *stubSessions) set(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

func newTestStore() (*Store, *recordingSink, *stubSessions, *audit.Logger) {
	sink := &recordingSink{}
	logger := audit.NewLogger(sink, zap.NewNop())
	sessions := &stubSessions{id: "session-1"}
	return NewStore(logger, sessions, zap.NewNop()), sink, sessions, logger
}

func TestAdd_DerivesLineTotal(t *testing.T) {
	sut, _, _, logger := newTestStore()

	item := sut.Add(AddParams{Category: "EEE-1", Quantity: 3, Weight: 2.5, UnitPrice: 10})
	logger.Drain()

	assert.Equal(t, 30.0, item.Total)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, 30.0, sut.Total())
}

func TestAdd_SumInvariantHoldsAtEveryStep(t *testing.T) {
	sut, _, _, logger := newTestStore()
	defer logger.Drain()

	adds := []AddParams{
		{Category: "A", Quantity: 1, UnitPrice: 10},
		{Category: "B", Quantity: 2, UnitPrice: 2.5},
		{Category: "C", Quantity: 4, UnitPrice: 0},
	}
	var want float64
	for _, p := range adds {
		sut.Add(p)
		want += float64(p.Quantity) * p.UnitPrice

		var got float64
		for _, item := range sut.Items() {
			got += item.Total
		}
		assert.Equal(t, want, got)
		assert.Equal(t, want, sut.Total())
	}
}

func TestAdd_FirstItemOpensTicket(t *testing.T) {
	sut, sink, _, logger := newTestStore()

	sut.Add(AddParams{Category: "EEE-1", Quantity: 1, Weight: 2.5, UnitPrice: 10})
	logger.Drain()

	kinds := sink.byKind()
	require.Len(t, kinds[audit.KindTicketOpened], 1)
	opened := kinds[audit.KindTicketOpened][0]
	assert.False(t, opened.Anomaly)
	assert.Equal(t, "session-1", opened.SessionID)
	assert.Equal(t, 1, opened.Cart.ItemCount)
	assert.Equal(t, 10.0, opened.Cart.Total)
	assert.Empty(t, kinds[audit.KindAnomalyDetected])
}

func TestAdd_SecondItemIsSilent(t *testing.T) {
	sut, sink, _, logger := newTestStore()

	sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 1})
	sut.Add(AddParams{Category: "B", Quantity: 1, UnitPrice: 2})
	logger.Drain()

	kinds := sink.byKind()
	assert.Len(t, kinds[audit.KindTicketOpened], 1)
	assert.Empty(t, kinds[audit.KindAnomalyDetected])
}

func TestAdd_UntrackedNonEmptyCartLogsAnomalyAndStillApplies(t *testing.T) {
	sut, sink, sessions, logger := newTestStore()

	sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 1})
	// session handover while the cart still holds an item: the opened flag
	// is reset but the cart is not
	sessions.set("session-2")

	sut.Add(AddParams{Category: "B", Quantity: 1, UnitPrice: 2})
	logger.Drain()

	assert.Equal(t, 2, sut.Count(), "log-and-allow: the add must not be blocked")

	kinds := sink.byKind()
	require.Len(t, kinds[audit.KindAnomalyDetected], 1)
	anomaly := kinds[audit.KindAnomalyDetected][0]
	assert.Equal(t, "item added but no ticket is explicitly opened", anomaly.Description)
	assert.Equal(t, "session-2", anomaly.SessionID)

	require.Len(t, kinds[audit.KindTicketOpened], 2)
	flagged := 0
	for _, e := range kinds[audit.KindTicketOpened] {
		if e.Anomaly {
			flagged++
		}
	}
	assert.Equal(t, 1, flagged, "the reconstructed open is flagged, the original is not")
}

func TestAdd_AnomalyIsNotRepeatedOnFollowingAdds(t *testing.T) {
	sut, sink, sessions, logger := newTestStore()

	sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 1})
	sessions.set("session-2")
	sut.Add(AddParams{Category: "B", Quantity: 1, UnitPrice: 2})
	sut.Add(AddParams{Category: "C", Quantity: 1, UnitPrice: 3})
	logger.Drain()

	assert.Len(t, sink.byKind()[audit.KindAnomalyDetected], 1)
}

func TestUpdate_RecomputesTotal(t *testing.T) {
	sut, _, _, logger := newTestStore()
	defer logger.Drain()

	item := sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 10})
	require.True(t, sut.Update(item.ID, UpdateParams{Quantity: 5, Weight: 1.5, UnitPrice: 3}))

	got := sut.Items()[0]
	assert.Equal(t, 15.0, got.Total)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, 1.5, got.Weight)
}

func TestUpdate_KeepsUnspecifiedOptionals(t *testing.T) {
	sut, _, _, logger := newTestStore()
	defer logger.Drain()

	item := sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 10, PresetRef: "don-0", Note: "fragile"})
	require.True(t, sut.Update(item.ID, UpdateParams{Quantity: 2, UnitPrice: 10}))

	got := sut.Items()[0]
	assert.Equal(t, "don-0", got.PresetRef)
	assert.Equal(t, "fragile", got.Note)

	note := "new note"
	require.True(t, sut.Update(item.ID, UpdateParams{Quantity: 2, UnitPrice: 10, Note: &note}))
	assert.Equal(t, "new note", sut.Items()[0].Note)
}

func TestUpdate_UnknownIDIsANoop(t *testing.T) {
	sut, _, _, logger := newTestStore()
	defer logger.Drain()

	sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 10})
	assert.False(t, sut.Update(uuid.New(), UpdateParams{Quantity: 9, UnitPrice: 9}))
	assert.Equal(t, 10.0, sut.Items()[0].Total)
}

func TestRemove_IsIdempotent(t *testing.T) {
	sut, _, _, logger := newTestStore()
	defer logger.Drain()

	item := sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 10})
	sut.Remove(item.ID)
	sut.Remove(item.ID) // second removal is a no-op
	assert.Equal(t, 0, sut.Count())
}

func TestRemove_EmptyingTheCartEndsTheTicket(t *testing.T) {
	sut, sink, _, logger := newTestStore()

	item := sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 10})
	sut.Remove(item.ID)
	sut.Add(AddParams{Category: "B", Quantity: 1, UnitPrice: 2})
	logger.Drain()

	// the add after the cart emptied is a fresh ticket open, not a silent one
	kinds := sink.byKind()
	assert.Len(t, kinds[audit.KindTicketOpened], 2)
	assert.Empty(t, kinds[audit.KindAnomalyDetected])
}

func TestRemove_PartialRemovalKeepsTheTicket(t *testing.T) {
	sut, sink, _, logger := newTestStore()

	sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 10})
	item := sut.Add(AddParams{Category: "B", Quantity: 1, UnitPrice: 2})
	sut.Remove(item.ID)
	sut.Add(AddParams{Category: "C", Quantity: 1, UnitPrice: 3})
	logger.Drain()

	assert.Len(t, sink.byKind()[audit.KindTicketOpened], 1)
}

func TestClear_LogsResetWithPreClearSnapshot(t *testing.T) {
	sut, sink, _, logger := newTestStore()

	sut.Add(AddParams{Category: "A", Quantity: 2, UnitPrice: 5})
	sut.SetNote("client pressé")
	sut.Clear()
	logger.Drain()

	assert.Equal(t, 0, sut.Count())
	assert.Equal(t, "", sut.Note())

	resets := sink.byKind()[audit.KindTicketReset]
	require.Len(t, resets, 1)
	assert.Equal(t, 1, resets[0].Cart.ItemCount)
	assert.Equal(t, 10.0, resets[0].Cart.Total)
}

func TestClear_EmptyCartLogsNothing(t *testing.T) {
	sut, sink, _, logger := newTestStore()

	sut.Clear()
	logger.Drain()

	assert.Empty(t, sink.byKind()[audit.KindTicketReset])
}

func TestClear_ResetsOpenedFlag(t *testing.T) {
	sut, sink, _, logger := newTestStore()

	sut.Add(AddParams{Category: "A", Quantity: 1, UnitPrice: 1})
	sut.Clear()
	sut.Add(AddParams{Category: "B", Quantity: 1, UnitPrice: 2})
	logger.Drain()

	// a fresh ticket after the reset, not an anomaly
	kinds := sink.byKind()
	assert.Len(t, kinds[audit.KindTicketOpened], 2)
	assert.Empty(t, kinds[audit.KindAnomalyDetected])
}
