package ports

import (
	"context"
	"delivery-mitra-service/internal/domain"
)

// Port: a boundary for looking up Agent records in a data source.
type AgentRepository interface {
	// Find the agent registered under the exact phone number, with its
	// store location joined. found is false when no record matches.
	FindByPhone(ctx context.Context, phone string) (agent *domain.Agent, found bool, err error)
}
