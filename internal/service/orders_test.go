package service

import (
	"context"
	"io"
	"testing"

	"kassenboard/internal/common/logger"
	"kassenboard/internal/domain"
	"kassenboard/internal/store"
)

type broadcastCall struct {
	event string
	data  any
}

type mockBus struct {
	calls []broadcastCall
}

func (m *mockBus) Broadcast(event string, data any) {
	m.calls = append(m.calls, broadcastCall{event: event, data: data})
}

type mockNotifier struct {
	events []string
}

func (m *mockNotifier) Publish(_ context.Context, event string, _ any) {
	m.events = append(m.events, event)
}

func newTestService() (*OrderService, *mockBus, *mockNotifier) {
	bus := &mockBus{}
	notifier := &mockNotifier{}
	svc := NewOrderService(store.NewMemory(), bus, notifier, logger.NewWriter("orders", io.Discard))
	return svc, bus, notifier
}

func TestPlace_SemmelScenario(t *testing.T) {
	svc, bus, notifier := newTestService()

	o := svc.Place(context.Background(), domain.PlaceOrderRequest{
		Table:  "5",
		Items:  []domain.OrderItem{{Name: "Semmel", Price: 0.50}},
		Total:  0.50,
		Waiter: "Anna",
	})

	if o.ID != 1 {
		t.Errorf("expected id 1, got %d", o.ID)
	}
	if o.Status != "Neu" {
		t.Errorf("expected status Neu, got %q", o.Status)
	}
	if o.Waiter != "Anna" {
		t.Errorf("expected waiter Anna, got %q", o.Waiter)
	}
	if o.Total != 0.50 {
		t.Errorf("expected total 0.50, got %v", o.Total)
	}
	if len(bus.calls) != 1 || bus.calls[0].event != domain.EventNewOrder {
		t.Fatalf("expected one newOrder broadcast, got %v", bus.calls)
	}
	sent, ok := bus.calls[0].data.(domain.Order)
	if !ok || sent.ID != 1 {
		t.Errorf("broadcast carries wrong order: %+v", bus.calls[0].data)
	}
	if len(notifier.events) != 1 || notifier.events[0] != domain.EventNewOrder {
		t.Errorf("expected one newOrder notification, got %v", notifier.events)
	}
}

func TestPlace_Defaults(t *testing.T) {
	svc, _, _ := newTestService()

	o := svc.Place(context.Background(), domain.PlaceOrderRequest{
		Table: "3",
		Items: []domain.OrderItem{{Name: "Steak m. Semmel", Price: 5.00}},
		Total: 5.00,
	})

	if o.Waiter != domain.DefaultWaiter {
		t.Errorf("expected default waiter %q, got %q", domain.DefaultWaiter, o.Waiter)
	}
	if o.Timestamp == "" {
		t.Error("expected server-assigned display timestamp")
	}
	if o.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if o.Items[0].Quantity != 1 {
		t.Errorf("expected quantity to default to 1, got %d", o.Items[0].Quantity)
	}
}

func TestPlace_BackToBackIDs(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first := svc.Place(ctx, domain.PlaceOrderRequest{Table: "1", Total: 3.00, Waiter: "Max"})
	second := svc.Place(ctx, domain.PlaceOrderRequest{Table: "9", Total: 7.50})

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected ids 1 then 2, got %d then %d", first.ID, second.ID)
	}
}

func TestUpdateStatus_Broadcasts(t *testing.T) {
	svc, bus, notifier := newTestService()
	ctx := context.Background()

	svc.Place(ctx, domain.PlaceOrderRequest{Table: "5", Total: 0.50, Waiter: "Anna"})
	bus.calls = nil
	notifier.events = nil

	svc.UpdateStatus(ctx, 1, "Fertig")

	if len(bus.calls) != 1 || bus.calls[0].event != domain.EventStatusChanged {
		t.Fatalf("expected exactly one orderStatusChanged broadcast, got %v", bus.calls)
	}
	change, ok := bus.calls[0].data.(domain.StatusChange)
	if !ok || change.OrderID != 1 || change.NewStatus != "Fertig" {
		t.Errorf("unexpected payload: %+v", bus.calls[0].data)
	}
	if len(notifier.events) != 1 {
		t.Errorf("expected one notification, got %v", notifier.events)
	}

	snap := svc.Snapshot()
	if len(snap) != 1 || snap[0].Status != "Fertig" {
		t.Errorf("store status not updated: %+v", snap)
	}
}

func TestUpdateStatus_UnknownIDIsSilent(t *testing.T) {
	svc, bus, notifier := newTestService()

	svc.UpdateStatus(context.Background(), 42, "Fertig")

	if len(bus.calls) != 0 {
		t.Errorf("expected no broadcast for unknown id, got %v", bus.calls)
	}
	if len(notifier.events) != 0 {
		t.Errorf("expected no notification for unknown id, got %v", notifier.events)
	}
}

func TestUpdateStatus_AnyLabelAccepted(t *testing.T) {
	svc, bus, _ := newTestService()
	ctx := context.Background()

	svc.Place(ctx, domain.PlaceOrderRequest{Table: "2", Total: 4.00})
	bus.calls = nil

	// No enforced transition graph: any string replaces any other.
	svc.UpdateStatus(ctx, 1, "Fertig")
	svc.UpdateStatus(ctx, 1, "Neu")

	if len(bus.calls) != 2 {
		t.Fatalf("expected both transitions broadcast, got %d", len(bus.calls))
	}
	snap := svc.Snapshot()
	if snap[0].Status != "Neu" {
		t.Errorf("expected status Neu after backwards transition, got %q", snap[0].Status)
	}
}
