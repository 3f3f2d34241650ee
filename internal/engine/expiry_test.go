package engine

import (
	"testing"
	"time"

	"ordercore/internal/domain"
)

// mutableClock is a test clock whose current time can be advanced.
type mutableClock struct {
	now time.Time
}

func (c *mutableClock) Now() time.Time { return c.now }

func (c *mutableClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// recordingDispatcher captures dispatched expiries in order.
type recordingDispatcher struct {
	orderIDs   []domain.OrderID
	expiredAts []time.Time
}

func (d *recordingDispatcher) DispatchExpired(orderID domain.OrderID, expiredAt time.Time) {
	d.orderIDs = append(d.orderIDs, orderID)
	d.expiredAts = append(d.expiredAts, expiredAt)
}

func testGTDOrder(t *testing.T, f *domain.OrderFactory, expireTime time.Time) *domain.Order {
	t.Helper()
	symbol, err := domain.NewSymbol("AUDUSD", domain.VenueFXCM)
	if err != nil {
		t.Fatalf("NewSymbol: %v", err)
	}
	price, err := domain.NewPrice("1.00000")
	if err != nil {
		t.Fatalf("NewPrice: %v", err)
	}
	order, err := f.Limit(symbol, domain.SideBuy, 100000, price, &domain.OrderOptions{
		TimeInForce: domain.TIFGTD,
		ExpireTime:  &expireTime,
	})
	if err != nil {
		t.Fatalf("Limit: %v", err)
	}
	return order
}

func newTestMonitor(t *testing.T) (*ExpiryMonitor, *mutableClock, *recordingDispatcher, *domain.OrderFactory) {
	t.Helper()
	clock := &mutableClock{now: time.Unix(0, 0).UTC()}
	dispatcher := &recordingDispatcher{}
	monitor := NewExpiryMonitor(time.Second, clock, dispatcher)
	factory := domain.NewOrderFactory("001", "001", clock)
	return monitor, clock, dispatcher, factory
}

func TestExpiryMonitor_AddAndTrackedCount(t *testing.T) {
	monitor, clock, _, factory := newTestMonitor(t)

	first := testGTDOrder(t, factory, clock.Now().Add(time.Hour))
	second := testGTDOrder(t, factory, clock.Now().Add(2*time.Hour))
	monitor.Add(first)
	monitor.Add(second)

	if got := monitor.TrackedCount(); got != 2 {
		t.Errorf("TrackedCount() = %d, want 2", got)
	}
}

func TestExpiryMonitor_AddWithoutExpireTimeIgnored(t *testing.T) {
	monitor, _, _, factory := newTestMonitor(t)

	symbol, err := domain.NewSymbol("AUDUSD", domain.VenueFXCM)
	if err != nil {
		t.Fatalf("NewSymbol: %v", err)
	}
	order, err := factory.Market(symbol, domain.SideBuy, 100000, nil)
	if err != nil {
		t.Fatalf("Market: %v", err)
	}
	monitor.Add(order)

	if got := monitor.TrackedCount(); got != 0 {
		t.Errorf("TrackedCount() = %d, want 0", got)
	}
}

func TestExpiryMonitor_TickDispatchesDueOrders(t *testing.T) {
	monitor, clock, dispatcher, factory := newTestMonitor(t)

	soon := testGTDOrder(t, factory, clock.Now().Add(time.Minute))
	later := testGTDOrder(t, factory, clock.Now().Add(time.Hour))
	monitor.Add(soon)
	monitor.Add(later)

	monitor.Tick()
	if len(dispatcher.orderIDs) != 0 {
		t.Fatalf("dispatched %d orders before any was due", len(dispatcher.orderIDs))
	}

	clock.Advance(time.Minute)
	monitor.Tick()
	if len(dispatcher.orderIDs) != 1 {
		t.Fatalf("dispatched %d orders, want 1", len(dispatcher.orderIDs))
	}
	if dispatcher.orderIDs[0] != soon.ID {
		t.Errorf("dispatched order = %v, want %v", dispatcher.orderIDs[0], soon.ID)
	}
	if !dispatcher.expiredAts[0].Equal(*soon.ExpireTime) {
		t.Errorf("expiredAt = %v, want %v", dispatcher.expiredAts[0], *soon.ExpireTime)
	}
	if got := monitor.TrackedCount(); got != 1 {
		t.Errorf("TrackedCount() = %d, want 1", got)
	}
}

func TestExpiryMonitor_TickDispatchesInExpiryOrder(t *testing.T) {
	monitor, clock, dispatcher, factory := newTestMonitor(t)

	// Added out of expire-time order.
	third := testGTDOrder(t, factory, clock.Now().Add(3*time.Minute))
	first := testGTDOrder(t, factory, clock.Now().Add(time.Minute))
	second := testGTDOrder(t, factory, clock.Now().Add(2*time.Minute))
	monitor.Add(third)
	monitor.Add(first)
	monitor.Add(second)

	clock.Advance(time.Hour)
	monitor.Tick()

	want := []domain.OrderID{first.ID, second.ID, third.ID}
	if len(dispatcher.orderIDs) != len(want) {
		t.Fatalf("dispatched %d orders, want %d", len(dispatcher.orderIDs), len(want))
	}
	for i, id := range want {
		if dispatcher.orderIDs[i] != id {
			t.Errorf("dispatch[%d] = %v, want %v", i, dispatcher.orderIDs[i], id)
		}
	}
	if got := monitor.TrackedCount(); got != 0 {
		t.Errorf("TrackedCount() = %d, want 0", got)
	}
}

func TestExpiryMonitor_RemoveStopsTracking(t *testing.T) {
	monitor, clock, dispatcher, factory := newTestMonitor(t)

	order := testGTDOrder(t, factory, clock.Now().Add(time.Minute))
	monitor.Add(order)
	monitor.Remove(order.ID)

	if got := monitor.TrackedCount(); got != 0 {
		t.Fatalf("TrackedCount() = %d, want 0", got)
	}

	clock.Advance(time.Hour)
	monitor.Tick()
	if len(dispatcher.orderIDs) != 0 {
		t.Errorf("dispatched %d orders after Remove, want 0", len(dispatcher.orderIDs))
	}
}

func TestExpiryMonitor_RemoveUnknownOrderIsNoop(t *testing.T) {
	monitor, _, _, _ := newTestMonitor(t)
	monitor.Remove("missing")

	if got := monitor.TrackedCount(); got != 0 {
		t.Errorf("TrackedCount() = %d, want 0", got)
	}
}

func TestExpiryMonitor_ReAddReplacesEntry(t *testing.T) {
	monitor, clock, dispatcher, factory := newTestMonitor(t)

	order := testGTDOrder(t, factory, clock.Now().Add(time.Minute))
	monitor.Add(order)
	monitor.Add(order)

	if got := monitor.TrackedCount(); got != 1 {
		t.Fatalf("TrackedCount() = %d, want 1", got)
	}

	clock.Advance(time.Hour)
	monitor.Tick()
	if len(dispatcher.orderIDs) != 1 {
		t.Errorf("dispatched %d orders, want 1", len(dispatcher.orderIDs))
	}
}
