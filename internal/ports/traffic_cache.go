package ports

import (
	"context"
	"delivery-mitra-service/internal/domain"
)

// Optional short-TTL cache in front of the traffic provider, so repeated
// task loads for the same store/customer pair do not re-query the remote
// service. found is false on a miss.
type TrafficCache interface {
	GetCongestion(ctx context.Context, origin domain.Coordinates) (score int, found bool, err error)
	PutCongestion(ctx context.Context, origin domain.Coordinates, score int) error

	GetEtd(ctx context.Context, origin, destination domain.Coordinates) (minutes int, found bool, err error)
	PutEtd(ctx context.Context, origin, destination domain.Coordinates, minutes int) error
}
