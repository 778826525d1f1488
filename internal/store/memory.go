package store

import (
	"context"
	"sync"

	"kassenboard/internal/domain"
)

// Memory is the ephemeral store. Orders are appended in placement order and
// never evicted while the process lives; only a restart clears the board.
type Memory struct {
	mu     sync.Mutex
	orders []domain.Order
	nextID int
}

func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) LoadActive(ctx context.Context) error { return nil }

// Insert appends o to the snapshot. When o.ID is zero the next local
// identifier is assigned; otherwise the caller brought a backend-assigned ID
// and the counter is advanced past it.
func (m *Memory) Insert(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		o.ID = m.nextID
	}
	if o.ID >= m.nextID {
		m.nextID = o.ID + 1
	}
	m.orders = append(m.orders, *o)
	return nil
}

func (m *Memory) UpdateStatus(ctx context.Context, id int, status string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			return true
		}
	}
	return false
}

func (m *Memory) Active() []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

func (m *Memory) Get(id int) (domain.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			return m.orders[i], true
		}
	}
	return domain.Order{}, false
}

// Replace swaps the whole snapshot, used by the durable store after a reload.
// nextID becomes one past the highest replaced identifier, or 1 when empty.
func (m *Memory) Replace(orders []domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = orders
	m.nextID = 1
	for i := range orders {
		if orders[i].ID >= m.nextID {
			m.nextID = orders[i].ID + 1
		}
	}
}
