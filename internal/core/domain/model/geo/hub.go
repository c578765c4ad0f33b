package geo

// MaxHubRangeKm is the service radius of a hub. Orders farther than this
// from every hub cannot be dispatched.
const MaxHubRangeKm = 30.0

// Hub is a fixed warehouse/pickup location with static coordinates.
// The hub set is reference data: immutable at runtime and small.
type Hub struct {
	ID       string
	Name     string
	Location Point
}

// DefaultHubs returns the fixed hub set served by the dispatcher.
// Iteration order is stable; NearestHub tie-breaks on it.
func DefaultHubs() []Hub {
	return []Hub{
		{ID: "hub-esplanade", Name: "Esplanade", Location: mustPoint(22.5726, 88.3639)},
		{ID: "hub-saltlake", Name: "Salt Lake Sector V", Location: mustPoint(22.5800, 88.4320)},
		{ID: "hub-howrah", Name: "Howrah", Location: mustPoint(22.5958, 88.2636)},
		{ID: "hub-garia", Name: "Garia", Location: mustPoint(22.4615, 88.3922)},
	}
}

// NearestHub scans hubs and returns the one with minimum distance to p,
// provided that distance does not exceed MaxHubRangeKm. The second return
// value is false when every hub is out of range. Ties resolve to the first
// hub encountered in iteration order.
func NearestHub(p Point, hubs []Hub) (Hub, bool) {
	var (
		best     Hub
		bestDist = MaxHubRangeKm
		found    bool
	)

	for _, hub := range hubs {
		dist := DistanceKm(p, hub.Location)
		if dist > MaxHubRangeKm {
			continue
		}
		if !found || dist < bestDist {
			best = hub
			bestDist = dist
			found = true
		}
	}

	return best, found
}

// mustPoint builds the static hub coordinates; the literals above are known valid.
func mustPoint(lat, lng float64) Point {
	p, err := NewPoint(lat, lng)
	if err != nil {
		panic(err)
	}
	return p
}
