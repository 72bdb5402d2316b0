package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nischala755/navix-ai/internal/models"
)

var (
	singapore  = models.Coordinates{Lat: 1.29, Lng: 103.85}
	rotterdam  = models.Coordinates{Lat: 51.95, Lng: 4.48}
	yokohama   = models.Coordinates{Lat: 35.44, Lng: 139.64}
	losAngeles = models.Coordinates{Lat: 33.74, Lng: -118.26}
)

func TestInterpolate_PointCountAndEndpoints(t *testing.T) {
	for _, segments := range []int{1, 2, 10, 64} {
		points, err := Interpolate(singapore, rotterdam, segments)
		require.NoError(t, err)

		assert.Len(t, points, segments+1)
		assert.Equal(t, singapore, points[0])
		assert.Equal(t, rotterdam, points[segments])
	}
}

func TestInterpolate_MonotonicParameter(t *testing.T) {
	points, err := Interpolate(singapore, rotterdam, 10)
	require.NoError(t, err)

	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].Lat, points[i-1].Lat, "latitude should increase toward Rotterdam")
	}
}

func TestInterpolate_AntimeridianCrossing(t *testing.T) {
	// Yokohama to Los Angeles: raw longitude delta is 257.9 degrees, the
	// shorter arc crosses the date line over the Pacific.
	const segments = 20
	points, err := Interpolate(yokohama, losAngeles, segments)
	require.NoError(t, err)

	assert.Equal(t, yokohama, points[0])
	assert.Equal(t, losAngeles, points[segments])

	maxStep := 360.0 / segments
	for i, p := range points {
		assert.GreaterOrEqual(t, p.Lng, -180.0, "point %d out of range", i)
		assert.LessOrEqual(t, p.Lng, 180.0, "point %d out of range", i)

		if i == 0 {
			continue
		}
		step := math.Abs(p.Lng - points[i-1].Lng)
		if step > 180 {
			step = 360 - step
		}
		assert.LessOrEqual(t, step, maxStep+1e-9, "longitude jump between %d and %d", i-1, i)
	}
}

func TestInterpolate_AntimeridianWestward(t *testing.T) {
	// Los Angeles back to Yokohama crosses the other direction
	points, err := Interpolate(losAngeles, yokohama, 8)
	require.NoError(t, err)

	assert.Equal(t, losAngeles, points[0])
	assert.Equal(t, yokohama, points[8])
	for _, p := range points {
		assert.GreaterOrEqual(t, p.Lng, -180.0)
		assert.LessOrEqual(t, p.Lng, 180.0)
	}
}

func TestInterpolate_SamePoint(t *testing.T) {
	points, err := Interpolate(singapore, singapore, 5)
	require.NoError(t, err)

	assert.Len(t, points, 6)
	for _, p := range points {
		assert.Equal(t, singapore, p)
	}
}

func TestInterpolate_ZeroSegments(t *testing.T) {
	_, err := Interpolate(singapore, rotterdam, 0)
	assert.ErrorIs(t, err, ErrInvalidSegments)

	_, err = Interpolate(singapore, rotterdam, -3)
	assert.ErrorIs(t, err, ErrInvalidSegments)
}

func TestHaversineNM(t *testing.T) {
	// Singapore to Rotterdam great-circle distance is roughly 5690 nm
	dist := HaversineNM(singapore, rotterdam)
	assert.InDelta(t, 5688, dist, 10)

	assert.Zero(t, HaversineNM(singapore, singapore))

	// Symmetric
	assert.InDelta(t, HaversineNM(yokohama, losAngeles), HaversineNM(losAngeles, yokohama), 1e-9)
}
