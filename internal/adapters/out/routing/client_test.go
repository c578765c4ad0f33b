package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatch/internal/adapters/out/routing"
	"dispatch/internal/core/domain/model/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoint(t *testing.T, lat, lng float64) geo.Point {
	t.Helper()
	p, err := geo.NewPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func TestClient_PlanRoute_DecodesPolyline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route", r.URL.Path)
		assert.Equal(t, "22.5726", r.URL.Query().Get("from_lat"))
		assert.Equal(t, "88.3639", r.URL.Query().Get("from_lng"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"points":[
			{"lat":22.5726,"lng":88.3639},
			{"lat":22.59,"lng":88.38},
			{"lat":22.61,"lng":88.40}
		]}`))
	}))
	defer server.Close()

	client := routing.NewClient(server.URL)
	points, err := client.PlanRoute(t.Context(),
		testPoint(t, 22.5726, 88.3639),
		testPoint(t, 22.61, 88.40),
	)

	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 22.59, points[1].Lat(), 0.000001)
	assert.InDelta(t, 88.38, points[1].Lng(), 0.000001)
}

func TestClient_PlanRoute_NonOKStatus_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := routing.NewClient(server.URL)
	points, err := client.PlanRoute(t.Context(),
		testPoint(t, 22.5726, 88.3639),
		testPoint(t, 22.61, 88.40),
	)

	require.Error(t, err)
	assert.Nil(t, points)
}

func TestClient_PlanRoute_InvalidCoordinate_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"points":[{"lat":123.0,"lng":88.38}]}`))
	}))
	defer server.Close()

	client := routing.NewClient(server.URL)
	_, err := client.PlanRoute(t.Context(),
		testPoint(t, 22.5726, 88.3639),
		testPoint(t, 22.61, 88.40),
	)

	require.Error(t, err)
}
