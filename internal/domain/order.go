package domain

import "time"

// Order statuses as they appear on the board. The store does not enforce a
// closed set; clients may send any label and it is broadcast as-is.
const (
	StatusNew        = "Neu"
	StatusInProgress = "In Arbeit"
	StatusDone       = "Fertig"
)

// DefaultWaiter is used when a placement request carries no waiter name.
const DefaultWaiter = "Unbekannt"

type MenuItem struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderItem is a denormalized line item: the client supplies name and price
// verbatim, there is no foreign key back to the menu.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID        int         `json:"id"`
	Table     string      `json:"table"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Waiter    string      `json:"waiter"`
	Timestamp string      `json:"timestamp"` // client-facing display string
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}
