package traffic

import (
	"context"
	"sync"

	"delivery-mitra-service/internal/domain"
	"delivery-mitra-service/internal/ports"
)

// MockTrafficProvider returns scripted results for tests. Safe for
// concurrent use; the enricher calls both lookups in parallel.
type MockTrafficProvider struct {
	Congestion    int
	CongestionErr error
	Etd           int
	EtdErr        error

	mu              sync.Mutex
	congestionCalls int
	etdCalls        int
}

func (m *MockTrafficProvider) GetCongestion(ctx context.Context, origin domain.Coordinates) (ports.CongestionResult, error) {
	m.mu.Lock()
	m.congestionCalls++
	m.mu.Unlock()

	if m.CongestionErr != nil {
		return ports.CongestionResult{}, m.CongestionErr
	}
	return ports.CongestionResult{Score: m.Congestion}, nil
}

func (m *MockTrafficProvider) GetEtd(ctx context.Context, origin, destination domain.Coordinates) (ports.EtdResult, error) {
	m.mu.Lock()
	m.etdCalls++
	m.mu.Unlock()

	if m.EtdErr != nil {
		return ports.EtdResult{}, m.EtdErr
	}
	return ports.EtdResult{Minutes: m.Etd}, nil
}

func (m *MockTrafficProvider) CongestionCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.congestionCalls
}

func (m *MockTrafficProvider) EtdCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.etdCalls
}
