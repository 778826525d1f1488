package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"kassenboard/internal/common/logger"
	"kassenboard/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id           SERIAL PRIMARY KEY,
	table_no     TEXT NOT NULL,
	waiter       TEXT NOT NULL DEFAULT 'Unbekannt',
	total        NUMERIC(10,2) NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'Neu',
	display_time TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS order_items (
	id       SERIAL PRIMARY KEY,
	order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	name     TEXT NOT NULL,
	price    NUMERIC(10,2) NOT NULL DEFAULT 0,
	quantity INTEGER NOT NULL DEFAULT 1
);`

// Postgres mirrors orders into the durable tables while serving all reads
// from an embedded Memory snapshot. The snapshot is the visible truth: a
// failed durable write is logged and the in-memory side still advances, so
// the two can diverge until the next restart.
type Postgres struct {
	pool *pgxpool.Pool
	mem  *Memory
	lg   *logger.Logger
}

func NewPostgres(pool *pgxpool.Pool, lg *logger.Logger) *Postgres {
	return &Postgres{pool: pool, mem: NewMemory(), lg: lg}
}

// EnsureSchema creates the order tables when missing. The caller decides
// whether a failure is fatal; at startup it is not.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// LoadActive reloads every order that has not reached the terminal status,
// newest first, and replaces the in-memory snapshot. The local ID counter
// resumes one past the highest loaded identifier.
func (s *Postgres) LoadActive(ctx context.Context) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, table_no, waiter, total, status, display_time, created_at
		FROM orders
		WHERE status <> $1
		ORDER BY created_at DESC`, domain.StatusDone)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	ids := make([]int, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Table, &o.Waiter, &o.Total, &o.Status, &o.Timestamp, &o.CreatedAt); err != nil {
			return fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	if len(ids) > 0 {
		if err := s.loadItems(ctx, ids, orders); err != nil {
			return err
		}
	}

	s.mem.Replace(orders)
	s.lg.Info("orders_loaded", map[string]any{"count": len(orders)})
	return nil
}

func (s *Postgres) loadItems(ctx context.Context, ids []int, orders []domain.Order) error {
	rows, err := s.pool.Query(ctx, `
		SELECT order_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]*domain.Order, len(orders))
	for i := range orders {
		byID[orders[i].ID] = &orders[i]
	}
	for rows.Next() {
		var orderID int
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.Name, &it.Price, &it.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// Insert writes the order and its line items in one transaction and takes
// the backend-assigned identifier. When the durable write fails the order
// falls back to a locally assigned ID and still enters the snapshot.
func (s *Postgres) Insert(ctx context.Context, o *domain.Order) error {
	if err := s.insertTx(ctx, o); err != nil {
		s.lg.Error("order_persist_failed", err, map[string]any{"table": o.Table})
		o.ID = 0
	}
	return s.mem.Insert(ctx, o)
}

func (s *Postgres) insertTx(ctx context.Context, o *domain.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (table_no, waiter, total, status, display_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		o.Table, o.Waiter, o.Total, o.Status, o.Timestamp, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, name, price, quantity)
			VALUES ($1, $2, $3, $4)`,
			o.ID, it.Name, it.Price, it.Quantity,
		); err != nil {
			return fmt.Errorf("insert order item %q: %w", it.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// UpdateStatus updates the durable row (best effort) and the snapshot copy.
func (s *Postgres) UpdateStatus(ctx context.Context, id int, status string) bool {
	if _, err := s.pool.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, status); err != nil {
		s.lg.Error("status_persist_failed", err, map[string]any{"order_id": id, "status": status})
	}
	return s.mem.UpdateStatus(ctx, id, status)
}

func (s *Postgres) Active() []domain.Order { return s.mem.Active() }

func (s *Postgres) Get(id int) (domain.Order, bool) { return s.mem.Get(id) }
