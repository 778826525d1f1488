// Package hub is the realtime fan-out fabric: it owns the set of connected
// clients and runs the single event loop through which every inbound request
// and outbound broadcast passes. Handlers therefore never run concurrently
// on shared state.
package hub

import (
	"context"
	"encoding/json"

	"kassenboard/internal/common/logger"
	"kassenboard/internal/domain"
)

// Handler processes inbound client events and serves the connect snapshot.
type Handler interface {
	Place(ctx context.Context, req domain.PlaceOrderRequest) domain.Order
	UpdateStatus(ctx context.Context, id int, newStatus string)
	Snapshot() []domain.Order
}

type inbound struct {
	from *Client
	env  domain.Envelope
}

type Hub struct {
	handler Handler
	lg      *logger.Logger

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     chan inbound
}

func New(lg *logger.Logger) *Hub {
	return &Hub{
		lg:         lg,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan inbound, 64),
	}
}

// Bind attaches the event handler. Must happen before Run; it exists only
// because the handler broadcasts through the hub, so neither side can be
// constructed after the other.
func (h *Hub) Bind(handler Handler) { h.handler = handler }

// Run processes registrations and client events until ctx is canceled.
// Everything in here executes on one goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			c.enqueue(h.marshal(domain.EventInitialOrders, h.handler.Snapshot()))
			h.lg.Info("client_connected", map[string]any{"conn_id": c.id, "clients": len(h.clients)})
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.lg.Info("client_disconnected", map[string]any{"conn_id": c.id, "clients": len(h.clients)})
			}
		case ev := <-h.events:
			h.dispatch(ctx, ev)
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, ev inbound) {
	switch ev.env.Event {
	case domain.EventPlaceOrder:
		var req domain.PlaceOrderRequest
		if err := json.Unmarshal(ev.env.Data, &req); err != nil {
			h.lg.Error("bad_payload", err, map[string]any{"conn_id": ev.from.id, "event": ev.env.Event})
			return
		}
		h.handler.Place(ctx, req)
	case domain.EventUpdateStatus:
		var change domain.StatusChange
		if err := json.Unmarshal(ev.env.Data, &change); err != nil {
			h.lg.Error("bad_payload", err, map[string]any{"conn_id": ev.from.id, "event": ev.env.Event})
			return
		}
		h.handler.UpdateStatus(ctx, change.OrderID, change.NewStatus)
	default:
		h.lg.Debug("unknown_event", map[string]any{"conn_id": ev.from.id, "event": ev.env.Event})
	}
}

// Broadcast sends an event to every connected client, the originator
// included. Called by the handler from inside dispatch, so it runs on the
// loop goroutine and may touch the client set directly. A client whose send
// buffer is full is dropped rather than stalling the board.
func (h *Hub) Broadcast(event string, data any) {
	msg := h.marshal(event, data)
	if msg == nil {
		return
	}
	for c := range h.clients {
		if !c.enqueue(msg) {
			h.drop(c)
			h.lg.Error("client_dropped", nil, map[string]any{"conn_id": c.id, "reason": "send buffer full"})
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	c.closeSend()
}

func (h *Hub) marshal(event string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		h.lg.Error("marshal_failed", err, map[string]any{"event": event})
		return nil
	}
	msg, err := json.Marshal(domain.Envelope{Event: event, Data: raw})
	if err != nil {
		h.lg.Error("marshal_failed", err, map[string]any{"event": event})
		return nil
	}
	return msg
}
