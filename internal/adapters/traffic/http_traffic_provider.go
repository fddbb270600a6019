package traffic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"delivery-mitra-service/internal/domain"
	"delivery-mitra-service/internal/platform/obs"
	"delivery-mitra-service/internal/ports"
)

// HTTPTrafficProvider implements TrafficProvider against the hosted traffic
// service's two JSON endpoints:
//
//	GET /congestion?lat=..&lon=..                      -> {"congestion_score": n}
//	GET /etd?origin_lat=..&origin_lon=..&dest_lat=..&dest_lon=.. -> {"etd_minutes": n}
//
// The two lookups are independent; callers treat each as best-effort.
// The provider is safe for concurrent use.
type HTTPTrafficProvider struct {
	session *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPTrafficProvider(baseURL, apiKey string) (*HTTPTrafficProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("traffic base URL is empty")
	}

	return &HTTPTrafficProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

// Congestion score for an origin point.
func (h *HTTPTrafficProvider) GetCongestion(ctx context.Context, origin domain.Coordinates) (_ ports.CongestionResult, err error) {
	defer obs.Time(ctx, "traffic.GetCongestion")(&err)

	q := url.Values{}
	q.Set("lat", formatCoord(origin.Lat))
	q.Set("lon", formatCoord(origin.Lon))

	var body struct {
		CongestionScore *int `json:"congestion_score"`
	}
	if err := h.getJSON(ctx, h.baseURL+"/congestion?"+q.Encode(), &body); err != nil {
		return ports.CongestionResult{}, fmt.Errorf("get congestion: %w", err)
	}
	if body.CongestionScore == nil || *body.CongestionScore < 0 || *body.CongestionScore > 10 {
		return ports.CongestionResult{}, fmt.Errorf("get congestion: malformed response: score=%v", body.CongestionScore)
	}

	return ports.CongestionResult{Score: *body.CongestionScore}, nil
}

// Estimated time of delivery for an origin->destination pair.
func (h *HTTPTrafficProvider) GetEtd(ctx context.Context, origin, destination domain.Coordinates) (_ ports.EtdResult, err error) {
	defer obs.Time(ctx, "traffic.GetEtd")(&err)

	q := url.Values{}
	q.Set("origin_lat", formatCoord(origin.Lat))
	q.Set("origin_lon", formatCoord(origin.Lon))
	q.Set("dest_lat", formatCoord(destination.Lat))
	q.Set("dest_lon", formatCoord(destination.Lon))

	var body struct {
		EtdMinutes *int `json:"etd_minutes"`
	}
	if err := h.getJSON(ctx, h.baseURL+"/etd?"+q.Encode(), &body); err != nil {
		return ports.EtdResult{}, fmt.Errorf("get etd: %w", err)
	}
	if body.EtdMinutes == nil || *body.EtdMinutes < 0 {
		return ports.EtdResult{}, fmt.Errorf("get etd: malformed response: minutes=%v", body.EtdMinutes)
	}

	return ports.EtdResult{Minutes: *body.EtdMinutes}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
