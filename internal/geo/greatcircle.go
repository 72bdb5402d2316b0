package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/nischala755/navix-ai/internal/models"
)

// ErrInvalidSegments is returned when an interpolation is requested with
// fewer than one segment. This is a programmer error, not user input.
var ErrInvalidSegments = errors.New("interpolation requires at least one segment")

const earthRadiusNM = 3440.065

// Interpolate returns segments+1 points between start and end, linearly
// parameterized by t = i/segments. The first point is exactly start and the
// last is exactly end.
//
// When the longitude delta exceeds 180 degrees the shorter arc crosses the
// antimeridian, so the longitude is interpolated along the wrapped delta and
// renormalized into [-180, 180]. This keeps a Yokohama to Los Angeles path
// over the Pacific instead of the long way around the globe.
func Interpolate(start, end models.Coordinates, segments int) ([]models.Coordinates, error) {
	if segments < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSegments, segments)
	}

	latDelta := end.Lat - start.Lat
	lngDelta := end.Lng - start.Lng
	if math.Abs(lngDelta) > 180 {
		if end.Lng > start.Lng {
			lngDelta = end.Lng - 360 - start.Lng
		} else {
			lngDelta = end.Lng + 360 - start.Lng
		}
	}

	points := make([]models.Coordinates, 0, segments+1)
	points = append(points, start)
	for i := 1; i < segments; i++ {
		t := float64(i) / float64(segments)
		lng := start.Lng + lngDelta*t
		if lng > 180 {
			lng -= 360
		} else if lng < -180 {
			lng += 360
		}
		points = append(points, models.Coordinates{
			Lat: start.Lat + latDelta*t,
			Lng: lng,
		})
	}
	points = append(points, end)

	return points, nil
}

// HaversineNM returns the great-circle distance between two points in
// nautical miles
func HaversineNM(a, b models.Coordinates) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusNM * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
