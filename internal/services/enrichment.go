package services

import (
	"context"
	"log"
	"sync"

	"delivery-mitra-service/internal/domain"
	"delivery-mitra-service/internal/ports"
)

// Fallback when the congestion lookup fails: the middle of the 0-10 scale.
const placeholderCongestion = 5

// Enricher produces a best-effort TrafficSnapshot for a task. The two
// lookups run concurrently and are joined independently: one failing never
// aborts the other, and neither failure ever propagates to the caller —
// the snapshot degrades to placeholder values instead.
type Enricher struct {
	provider ports.TrafficProvider
	cache    ports.TrafficCache // optional
}

func NewEnricher(provider ports.TrafficProvider, cache ports.TrafficCache) *Enricher {
	return &Enricher{provider: provider, cache: cache}
}

// Snapshot fetches congestion for the origin and the ETD for the
// origin->destination pair. Always returns a usable snapshot.
func (e *Enricher) Snapshot(ctx context.Context, origin, destination domain.Coordinates) domain.TrafficSnapshot {
	congestion := placeholderCongestion
	var etd *int

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if score, ok := e.congestion(ctx, origin); ok {
			congestion = score
		}
	}()
	go func() {
		defer wg.Done()
		if minutes, ok := e.etd(ctx, origin, destination); ok {
			etd = &minutes
		}
	}()
	wg.Wait()

	return domain.TrafficSnapshot{CongestionScore: congestion, EtdMinutes: etd}
}

func (e *Enricher) congestion(ctx context.Context, origin domain.Coordinates) (int, bool) {
	if e.cache != nil {
		score, found, err := e.cache.GetCongestion(ctx, origin)
		if err != nil {
			log.Printf("traffic cache read failed: %v", err)
		} else if found {
			return score, true
		}
	}

	res, err := e.provider.GetCongestion(ctx, origin)
	if err != nil {
		log.Printf("congestion lookup failed: lat=%.4f lon=%.4f err=%v", origin.Lat, origin.Lon, err)
		return 0, false
	}

	if e.cache != nil {
		if err := e.cache.PutCongestion(ctx, origin, res.Score); err != nil {
			log.Printf("traffic cache write failed: %v", err)
		}
	}
	return res.Score, true
}

func (e *Enricher) etd(ctx context.Context, origin, destination domain.Coordinates) (int, bool) {
	if e.cache != nil {
		minutes, found, err := e.cache.GetEtd(ctx, origin, destination)
		if err != nil {
			log.Printf("traffic cache read failed: %v", err)
		} else if found {
			return minutes, true
		}
	}

	res, err := e.provider.GetEtd(ctx, origin, destination)
	if err != nil {
		log.Printf("etd lookup failed: lat=%.4f lon=%.4f err=%v", destination.Lat, destination.Lon, err)
		return 0, false
	}

	if e.cache != nil {
		if err := e.cache.PutEtd(ctx, origin, destination, res.Minutes); err != nil {
			log.Printf("traffic cache write failed: %v", err)
		}
	}
	return res.Minutes, true
}
