// Package store holds the working set of orders on the board.
//
// Two implementations exist: Memory keeps everything process-local, Postgres
// mirrors a durable table set into an embedded Memory store that remains the
// visible truth for connected clients. Which one runs is decided once at
// startup from configuration.
package store

import (
	"context"

	"kassenboard/internal/domain"
)

type Orders interface {
	// LoadActive replaces the in-memory snapshot with all non-terminal
	// orders from the durable backend. No-op for the ephemeral store.
	LoadActive(ctx context.Context) error

	// Insert persists o and assigns its ID (backend sequence when durable,
	// local counter otherwise). The order is always visible in the
	// snapshot afterwards, even when the durable write failed.
	Insert(ctx context.Context, o *domain.Order) error

	// UpdateStatus sets the status of the order with the given id and
	// reports whether the order was present in the snapshot. An unknown id
	// is a no-op, not an error.
	UpdateStatus(ctx context.Context, id int, status string) bool

	// Active returns a copy of the current snapshot.
	Active() []domain.Order

	Get(id int) (domain.Order, bool)
}
