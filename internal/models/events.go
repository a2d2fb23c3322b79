package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when a table submits a new order
type OrderPlacedEvent struct {
	BaseEvent
	CommandeID  string      `json:"commande_id"`
	TableNumber string      `json:"table_numero"`
	Items       []EventItem `json:"items"`
}

// OrderStatusChangedEvent published when the kitchen moves an order to a
// new status
type OrderStatusChangedEvent struct {
	BaseEvent
	CommandeID  string `json:"commande_id"`
	TableNumber string `json:"table_numero"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
}

// EventItem represents one order line in events
type EventItem struct {
	DishName string  `json:"dish"`
	Quantity int     `json:"qty"`
	Total    float64 `json:"total"`
}
