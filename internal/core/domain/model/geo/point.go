package geo

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
)

const (
	// PointMinLat and PointMaxLat bound valid latitudes in degrees.
	PointMinLat = -90.0
	PointMaxLat = 90.0
	// PointMinLng and PointMaxLng bound valid longitudes in degrees.
	PointMinLng = -180.0
	PointMaxLng = 180.0

	// earthRadiusKm is Earth's mean radius used by the haversine formula.
	earthRadiusKm = 6371.0
)

// ErrPointIsNotConstructed indicates that a Point was not created through NewPoint.
var ErrPointIsNotConstructed = errs.NewValueIsRequiredError("point must be created via NewPoint")

// Point represents a geographic coordinate with validated latitude and
// longitude. Point is an immutable value object; the zero value is considered
// unconstructed and fails validation.
//
// Example:
//
//	p, err := geo.NewPoint(22.5726, 88.3639)
//	if err != nil {
//	    // handle validation error
//	}
type Point struct {
	lat           float64
	lng           float64
	isConstructed bool
}

// NewPoint creates a validated Point from latitude and longitude in degrees.
func NewPoint(lat, lng float64) (Point, error) {
	p := Point{isConstructed: true}

	if err := errors.Join(
		p.setLat(lat),
		p.setLng(lng),
	); err != nil {
		return Point{}, err
	}

	return p, nil
}

// Lat returns the latitude in degrees.
func (p Point) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in degrees.
func (p Point) Lng() float64 {
	return p.lng
}

// IsEqual reports whether two points carry identical coordinates.
func (p Point) IsEqual(other Point) bool {
	return p.lat == other.lat && p.lng == other.lng
}

// String implements fmt.Stringer for logging.
func (p Point) String() string {
	return fmt.Sprintf("Point(%.4f,%.4f)", p.lat, p.lng)
}

// Validate returns ErrPointIsNotConstructed for zero-value points.
func (p Point) Validate() error {
	if !p.isConstructed {
		return ErrPointIsNotConstructed
	}
	return nil
}

func (p *Point) setLat(lat float64) error {
	if lat < PointMinLat || lat > PointMaxLat {
		return errs.NewValueIsOutOfRangeError("lat", lat, PointMinLat, PointMaxLat)
	}
	p.lat = lat
	return nil
}

func (p *Point) setLng(lng float64) error {
	if lng < PointMinLng || lng > PointMaxLng {
		return errs.NewValueIsOutOfRangeError("lng", lng, PointMinLng, PointMaxLng)
	}
	p.lng = lng
	return nil
}

// DistanceKm calculates the great-circle distance between two points in
// kilometers using the haversine formula. The result is symmetric and
// non-negative; identical points yield zero.
func DistanceKm(a, b Point) float64 {
	const degToRad = math.Pi / 180

	dLat := (b.lat - a.lat) * degToRad
	dLng := (b.lng - a.lng) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.lat*degToRad)*math.Cos(b.lat*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}
