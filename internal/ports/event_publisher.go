package ports

import (
	"context"
	"time"
)

// OrderStatusEvent is emitted after an order status change has been
// persisted.
type OrderStatusEvent struct {
	OrderID    int       `json:"order_id"`
	AgentID    int       `json:"agent_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Port: best-effort fan-out of order status transitions. A publish failure
// never rolls back the transition; callers log and continue.
type EventPublisher interface {
	PublishStatus(ctx context.Context, ev OrderStatusEvent) error
}
