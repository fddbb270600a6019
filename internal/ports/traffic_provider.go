package ports

import (
	"context"
	"delivery-mitra-service/internal/domain"
)

// Unitless 0-10 traffic-density indicator for an origin point.
type CongestionResult struct {
	Score int
}

// Estimated time of delivery in minutes for an origin/destination pair.
type EtdResult struct {
	Minutes int
}

// Contract for the remote traffic service. The two lookups are independent
// and independently fallible; callers treat both as best-effort.
type TrafficProvider interface {
	GetCongestion(ctx context.Context, origin domain.Coordinates) (CongestionResult, error)
	GetEtd(ctx context.Context, origin, destination domain.Coordinates) (EtdResult, error)
}
