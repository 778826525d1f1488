package domain

import "encoding/json"

// Realtime channel event names. Kept in sync with the waiter and kitchen
// frontends; renaming any of these breaks the wire protocol.
const (
	EventInitialOrders = "initialOrders"     // server -> new client
	EventPlaceOrder    = "placeOrder"        // client -> server
	EventNewOrder      = "newOrder"          // server -> all clients
	EventUpdateStatus  = "updateOrderStatus" // client -> server
	EventStatusChanged = "orderStatusChanged"
)

// Envelope frames every message on the realtime channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// PlaceOrderRequest is the placeOrder payload. Fields are trusted verbatim;
// only waiter and timestamp get server-side defaults.
type PlaceOrderRequest struct {
	Table     string      `json:"table"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Waiter    string      `json:"waiter,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// StatusChange is both the updateOrderStatus request and the
// orderStatusChanged notification payload.
type StatusChange struct {
	OrderID   int    `json:"orderId"`
	NewStatus string `json:"newStatus"`
}
