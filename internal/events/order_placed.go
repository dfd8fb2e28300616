package events

import "time"

// OrderPlaced announces a successful submission. Downstream consumers use
// it for the post-purchase follow-up (community invite, notifications); it
// carries no more than they need.
type OrderPlaced struct {
	EventType string           `json:"eventType"`
	EventID   string           `json:"eventId"`
	OrderID   string           `json:"orderId"`
	SessionID string           `json:"sessionId"`
	Items     []OrderItemEvent `json:"items"`
	Subtotal  int64            `json:"subtotal"`
	Timestamp time.Time        `json:"timestamp"`
}

type OrderItemEvent struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

const EventTypeOrderPlaced = "OrderPlaced"
