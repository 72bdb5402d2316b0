package mapview

import "github.com/nischala755/navix-ai/internal/models"

// MarkerStyle distinguishes how a port marker is rendered
type MarkerStyle string

const (
	MarkerOrigin      MarkerStyle = "origin"
	MarkerDestination MarkerStyle = "destination"
	MarkerPort        MarkerStyle = "port"
)

// PathStyle distinguishes the dashed preview estimate from a solved route
type PathStyle string

const (
	PathPreview  PathStyle = "preview"
	PathSolution PathStyle = "solution"
)

// Marker is a port rendered on the map surface, keyed by locode
type Marker struct {
	Locode string             `json:"locode"`
	Name   string             `json:"name"`
	Coords models.Coordinates `json:"coords"`
	Style  MarkerStyle        `json:"style"`
}

// Bounds is a lat/lng bounding box for viewport fitting
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsOf returns the bounding box of the given points
func BoundsOf(points []models.Coordinates) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lng < b.MinLng {
			b.MinLng = p.Lng
		}
		if p.Lng > b.MaxLng {
			b.MaxLng = p.Lng
		}
	}
	return b
}

// Surface is the capability interface over an imperative map backend.
// The reconciler is the only writer for the lifetime of a mounted view,
// which makes the whole layer testable against an in-memory fake.
type Surface interface {
	AddMarker(m Marker)
	RemoveMarker(locode string)
	SetPath(id string, points []models.Coordinates, style PathStyle)
	RemovePath(id string)
	FitBounds(b Bounds, padding int)
}
