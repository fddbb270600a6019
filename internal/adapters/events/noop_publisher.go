package events

import (
	"context"

	"delivery-mitra-service/internal/ports"
)

// NoopPublisher drops every event. Used when no message broker is
// configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatus(ctx context.Context, ev ports.OrderStatusEvent) error {
	return nil
}
