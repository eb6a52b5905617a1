package order

import "time"

// Event types emitted on the orders topic.
const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
	EventDeleted       = "order.deleted"
)

// Event is the envelope published for every successful order mutation. Flag
// and Value are only set for status changes.
type Event struct {
	Type    string    `json:"type"`
	OrderID string    `json:"orderId"`
	Flag    string    `json:"flag,omitempty"`
	Value   bool      `json:"value,omitempty"`
	At      time.Time `json:"at"`
}
