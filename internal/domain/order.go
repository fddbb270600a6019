package domain

import "time"

type OrderStatus string

const (
	StatusAssigned       OrderStatus = "Assigned"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
)

// Customer receiving an order. Read-only: joined from the order row,
// never written back.
type Customer struct {
	FullName        string
	DeliveryAddress string
	Coords          Coordinates
}

// Order is a delivery task assigned to an agent. Status is mutated
// exclusively through delivery-lifecycle transitions and persisted
// through the order repository.
type Order struct {
	OrderID   int
	AgentID   int
	Status    OrderStatus
	Customer  Customer
	CreatedAt time.Time
}

// TrafficSnapshot is derived per task from the traffic provider and never
// persisted on the order. EtdMinutes is nil when no estimate is available.
type TrafficSnapshot struct {
	CongestionScore int
	EtdMinutes      *int
}

// CanAdvanceTo reports whether moving from s to next is a legal forward
// transition. Status never regresses: once Delivered, nothing changes it,
// and delivery always passes through "Out for Delivery".
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	switch s {
	case StatusDelivered:
		return false
	case StatusOutForDelivery:
		return next == StatusDelivered
	default:
		return next == StatusOutForDelivery
	}
}
