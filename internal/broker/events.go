package broker

import (
	"context"

	"commande-service/internal/models"
)

// EventPublisher publishes order lifecycle events for downstream
// consumers (kitchen displays, analytics). Events are best-effort: the
// order flow never fails because a publish did.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderPlaced publishes an OrderPlaced event keyed by commande_id
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return ep.producer.PublishEvent(ctx, event.CommandeID, event)
}

// PublishOrderStatusChanged publishes an OrderStatusChanged event keyed
// by commande_id
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return ep.producer.PublishEvent(ctx, event.CommandeID, event)
}
