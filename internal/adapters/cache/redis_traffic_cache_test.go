package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"delivery-mitra-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisTrafficCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisTrafficCache(client, 5*time.Minute), mr
}

func TestCongestionRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	origin := domain.Coordinates{Lat: 19.1197, Lon: 72.8464}

	if _, found, err := c.GetCongestion(ctx, origin); err != nil || found {
		t.Fatalf("expected a clean miss, got found=%v err=%v", found, err)
	}

	if err := c.PutCongestion(ctx, origin, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	score, found, err := c.GetCongestion(ctx, origin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || score != 7 {
		t.Fatalf("got score=%d found=%v, want 7/true", score, found)
	}
}

func TestEtdRoundTripAndDirectionality(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	a := domain.Coordinates{Lat: 19.1197, Lon: 72.8464}
	b := domain.Coordinates{Lat: 19.076, Lon: 72.8777}

	if err := c.PutEtd(ctx, a, b, 28); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minutes, found, err := c.GetEtd(ctx, a, b)
	if err != nil || !found || minutes != 28 {
		t.Fatalf("got minutes=%d found=%v err=%v, want 28/true/nil", minutes, found, err)
	}

	// The reverse direction is a different key.
	if _, found, _ := c.GetEtd(ctx, b, a); found {
		t.Fatal("reverse pair unexpectedly cached")
	}
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	origin := domain.Coordinates{Lat: 19.1197, Lon: 72.8464}

	if err := c.PutCongestion(ctx, origin, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(6 * time.Minute)

	if _, found, err := c.GetCongestion(ctx, origin); err != nil || found {
		t.Fatalf("entry should have expired, got found=%v err=%v", found, err)
	}
}
