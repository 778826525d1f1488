package service

import (
	"context"
	"time"

	"kassenboard/internal/common/logger"
	"kassenboard/internal/domain"
	"kassenboard/internal/store"
)

// Broadcaster fans an event out to every connected client.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// Notifier mirrors board events to an external sink. Failures stay inside
// the implementation; the lifecycle never blocks on it.
type Notifier interface {
	Publish(ctx context.Context, event string, data any)
}

// OrderService turns client payloads into stored orders and announces every
// change on the board.
type OrderService struct {
	store  store.Orders
	bus    Broadcaster
	notify Notifier
	lg     *logger.Logger
}

func NewOrderService(st store.Orders, bus Broadcaster, notify Notifier, lg *logger.Logger) *OrderService {
	return &OrderService{store: st, bus: bus, notify: notify, lg: lg}
}

// Place materializes req into an Order, persists it and broadcasts it.
// The payload is taken verbatim, including the client-computed total; only
// waiter name and display timestamp get defaults when absent.
func (s *OrderService) Place(ctx context.Context, req domain.PlaceOrderRequest) domain.Order {
	now := time.Now()
	o := domain.Order{
		Table:     req.Table,
		Items:     normalizeItems(req.Items),
		Total:     req.Total,
		Waiter:    req.Waiter,
		Timestamp: req.Timestamp,
		Status:    domain.StatusNew,
		CreatedAt: now,
	}
	if o.Waiter == "" {
		o.Waiter = domain.DefaultWaiter
	}
	if o.Timestamp == "" {
		o.Timestamp = now.Format("2.1.2006, 15:04:05")
	}

	_ = s.store.Insert(ctx, &o)
	s.lg.Info("order_placed", map[string]any{"order_id": o.ID, "table": o.Table, "waiter": o.Waiter, "total": o.Total})

	s.bus.Broadcast(domain.EventNewOrder, o)
	s.notify.Publish(ctx, domain.EventNewOrder, o)
	return o
}

// UpdateStatus is fire and forget: an unknown identifier is dropped without
// a broadcast or an error, a known one is mutated and announced exactly once.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, newStatus string) {
	if !s.store.UpdateStatus(ctx, id, newStatus) {
		s.lg.Debug("status_update_ignored", map[string]any{"order_id": id, "status": newStatus})
		return
	}
	s.lg.Info("status_changed", map[string]any{"order_id": id, "status": newStatus})

	change := domain.StatusChange{OrderID: id, NewStatus: newStatus}
	s.bus.Broadcast(domain.EventStatusChanged, change)
	s.notify.Publish(ctx, domain.EventStatusChanged, change)
}

// Snapshot returns the current active-order set for a newly joined client.
func (s *OrderService) Snapshot() []domain.Order {
	return s.store.Active()
}

func normalizeItems(items []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Quantity <= 0 {
			out[i].Quantity = 1
		}
	}
	return out
}
