package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-mitra-service/internal/domain"
)

// SQL-backed implementation of the AgentRepository port.
type SQLAgentRepository struct{ DB *sql.DB }

func NewSQLAgentRepository(db *sql.DB) *SQLAgentRepository {
	return &SQLAgentRepository{DB: db}
}

// Return the agent registered under the exact phone number, store joined.
func (s *SQLAgentRepository) FindByPhone(ctx context.Context, phone string) (*domain.Agent, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("sql agent repository: DB is nil")
	}

	query := `
	SELECT
		agent_id,
		phone_number,
		store_name,
		store_lat,
		store_lon
	FROM agents
	WHERE phone_number = $1;
	`

	var a domain.Agent
	err := s.DB.QueryRowContext(ctx, query, phone).Scan(
		&a.AgentID,
		&a.PhoneNumber,
		&a.Store.LocationName,
		&a.Store.Coords.Lat,
		&a.Store.Coords.Lon,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find agent by phone: %w", err)
	}

	return &a, true, nil
}
