package ports

import (
	"context"
	"delivery-mitra-service/internal/domain"
)

// Port: a boundary for reading and advancing Order records.
type OrderRepository interface {
	// Return the agent's most recently created order whose status is not
	// Delivered, with the customer joined. found is false when the agent
	// has no open order; that is a valid outcome, not an error.
	FindActiveByAgent(ctx context.Context, agentID int) (order *domain.Order, found bool, err error)

	// Persist a status change. The update is guarded: it applies only
	// while the stored status still equals from, so a status can never
	// move backwards. A guard miss returns an error and changes nothing.
	UpdateStatus(ctx context.Context, orderID int, from, to domain.OrderStatus) error
}
