package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"delivery-mitra-service/internal/adapters/traffic"
	"delivery-mitra-service/internal/domain"
)

type fakeTrafficCache struct {
	congestion map[string]int
	etd        map[string]int
	err        error
}

func (f *fakeTrafficCache) key(c domain.Coordinates) string {
	return fmt.Sprintf("%.4f|%.4f", c.Lat, c.Lon)
}

func (f *fakeTrafficCache) GetCongestion(ctx context.Context, origin domain.Coordinates) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	v, ok := f.congestion[f.key(origin)]
	return v, ok, nil
}

func (f *fakeTrafficCache) PutCongestion(ctx context.Context, origin domain.Coordinates, score int) error {
	if f.congestion == nil {
		f.congestion = make(map[string]int)
	}
	f.congestion[f.key(origin)] = score
	return nil
}

func (f *fakeTrafficCache) GetEtd(ctx context.Context, origin, destination domain.Coordinates) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	v, ok := f.etd[f.key(origin)+f.key(destination)]
	return v, ok, nil
}

func (f *fakeTrafficCache) PutEtd(ctx context.Context, origin, destination domain.Coordinates, minutes int) error {
	if f.etd == nil {
		f.etd = make(map[string]int)
	}
	f.etd[f.key(origin)+f.key(destination)] = minutes
	return nil
}

var (
	enrichOrigin = domain.Coordinates{Lat: 19.1197, Lon: 72.8464}
	enrichDest   = domain.Coordinates{Lat: 19.076, Lon: 72.8777}
)

func TestSnapshotBothLookupsSucceed(t *testing.T) {
	provider := &traffic.MockTrafficProvider{Congestion: 7, Etd: 32}
	e := NewEnricher(provider, nil)

	snap := e.Snapshot(context.Background(), enrichOrigin, enrichDest)
	if snap.CongestionScore != 7 {
		t.Fatalf("congestion = %d, want 7", snap.CongestionScore)
	}
	if snap.EtdMinutes == nil || *snap.EtdMinutes != 32 {
		t.Fatalf("etd = %v, want 32", snap.EtdMinutes)
	}
}

func TestSnapshotPartialFailureKeepsTheOtherResult(t *testing.T) {
	provider := &traffic.MockTrafficProvider{
		CongestionErr: errors.New("upstream 500"),
		Etd:           18,
	}
	e := NewEnricher(provider, nil)

	snap := e.Snapshot(context.Background(), enrichOrigin, enrichDest)
	if snap.CongestionScore != placeholderCongestion {
		t.Fatalf("congestion = %d, want placeholder %d", snap.CongestionScore, placeholderCongestion)
	}
	if snap.EtdMinutes == nil || *snap.EtdMinutes != 18 {
		t.Fatalf("etd = %v, want the real value 18", snap.EtdMinutes)
	}
}

func TestSnapshotBothFailuresDegradeToPlaceholders(t *testing.T) {
	provider := &traffic.MockTrafficProvider{
		CongestionErr: errors.New("timeout"),
		EtdErr:        errors.New("timeout"),
	}
	e := NewEnricher(provider, nil)

	snap := e.Snapshot(context.Background(), enrichOrigin, enrichDest)
	if snap.CongestionScore != placeholderCongestion {
		t.Fatalf("congestion = %d, want placeholder", snap.CongestionScore)
	}
	if snap.EtdMinutes != nil {
		t.Fatalf("etd = %v, want unknown", *snap.EtdMinutes)
	}
}

func TestSnapshotUsesCacheBeforeProvider(t *testing.T) {
	provider := &traffic.MockTrafficProvider{Congestion: 7, Etd: 32}
	cache := &fakeTrafficCache{}
	e := NewEnricher(provider, cache)

	// First snapshot fills the cache.
	e.Snapshot(context.Background(), enrichOrigin, enrichDest)
	if provider.CongestionCalls() != 1 || provider.EtdCalls() != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", provider.CongestionCalls(), provider.EtdCalls())
	}

	// Second snapshot is served from cache.
	snap := e.Snapshot(context.Background(), enrichOrigin, enrichDest)
	if provider.CongestionCalls() != 1 || provider.EtdCalls() != 1 {
		t.Fatalf("provider re-queried on cache hit: %d/%d", provider.CongestionCalls(), provider.EtdCalls())
	}
	if snap.CongestionScore != 7 || snap.EtdMinutes == nil || *snap.EtdMinutes != 32 {
		t.Fatalf("cached snapshot wrong: %+v", snap)
	}
}

func TestSnapshotCacheFailureFallsThroughToProvider(t *testing.T) {
	provider := &traffic.MockTrafficProvider{Congestion: 4, Etd: 12}
	cache := &fakeTrafficCache{err: errors.New("redis down")}
	e := NewEnricher(provider, cache)

	snap := e.Snapshot(context.Background(), enrichOrigin, enrichDest)
	if snap.CongestionScore != 4 {
		t.Fatalf("congestion = %d, want 4", snap.CongestionScore)
	}
	if snap.EtdMinutes == nil || *snap.EtdMinutes != 12 {
		t.Fatalf("etd = %v, want 12", snap.EtdMinutes)
	}
}
