package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-mitra-service/internal/domain"
)

// SQL-backed implementation of the OrderRepository port.
type SQLOrderRepository struct{ DB *sql.DB }

func NewSQLOrderRepository(db *sql.DB) *SQLOrderRepository {
	return &SQLOrderRepository{DB: db}
}

// Return the agent's most recent order that is not Delivered, with the
// customer joined. sql.ErrNoRows is the single normalization point for
// "no open order": it becomes (nil, false, nil), never an error.
func (s *SQLOrderRepository) FindActiveByAgent(ctx context.Context, agentID int) (*domain.Order, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("sql order repository: DB is nil")
	}

	query := `
	SELECT
		o.order_id,
		o.agent_id,
		o.status,
		o.created_at,
		c.full_name,
		c.delivery_address,
		c.lat,
		c.lon
	FROM orders o
	JOIN customers c ON c.customer_id = o.customer_id
	WHERE o.agent_id = $1
		AND o.status <> $2
	ORDER BY o.created_at DESC
	LIMIT 1;
	`

	var o domain.Order
	var status string
	err := s.DB.QueryRowContext(ctx, query, agentID, string(domain.StatusDelivered)).Scan(
		&o.OrderID,
		&o.AgentID,
		&status,
		&o.CreatedAt,
		&o.Customer.FullName,
		&o.Customer.DeliveryAddress,
		&o.Customer.Coords.Lat,
		&o.Customer.Coords.Lon,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find active order: %w", err)
	}

	o.Status = domain.OrderStatus(status)
	return &o, true, nil
}

// Persist a forward status transition. The WHERE clause re-checks the
// current status so a concurrent or repeated update can never regress an
// order; a guard miss updates nothing and returns an error.
func (s *SQLOrderRepository) UpdateStatus(ctx context.Context, orderID int, from, to domain.OrderStatus) error {
	if s.DB == nil {
		return errors.New("sql order repository: DB is nil")
	}
	if !from.CanAdvanceTo(to) {
		return fmt.Errorf("update order status: illegal transition %q -> %q", from, to)
	}

	query := `
	UPDATE orders
	SET status = $1
	WHERE order_id = $2
		AND status = $3;
	`

	res, err := s.DB.ExecContext(ctx, query, string(to), orderID, string(from))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update order status: order %d is no longer in status %q", orderID, from)
	}

	return nil
}
