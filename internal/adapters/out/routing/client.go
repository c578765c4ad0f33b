// Package routing implements the RoutingClient port against the external
// route-planning service over HTTP. The service is advisory only: it supplies
// the display polyline, and every caller degrades to a straight line when it
// is unreachable.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/geo"
)

// defaultTimeout bounds one route request. The dispatcher does not wait
// longer than this before falling back to a straight-line path.
const defaultTimeout = 3 * time.Second

// Client calls the route-planning service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a routing client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// routeResponse mirrors the service's wire format.
type routeResponse struct {
	Points []struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"points"`
}

// PlanRoute requests a polyline from the pickup to the drop-off point.
func (c *Client) PlanRoute(ctx context.Context, from, to geo.Point) ([]geo.Point, error) {
	query := url.Values{}
	query.Set("from_lat", formatCoord(from.Lat()))
	query.Set("from_lng", formatCoord(from.Lng()))
	query.Set("to_lat", formatCoord(to.Lat()))
	query.Set("to_lng", formatCoord(to.Lng()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/route?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing: http %d", resp.StatusCode)
	}

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	points := make([]geo.Point, 0, len(decoded.Points))
	for _, p := range decoded.Points {
		point, err := geo.NewPoint(p.Lat, p.Lng)
		if err != nil {
			return nil, fmt.Errorf("routing: invalid point in response: %w", err)
		}
		points = append(points, point)
	}

	return points, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
