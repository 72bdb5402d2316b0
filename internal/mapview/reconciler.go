package mapview

import (
	"log"
	"sync"

	"github.com/nischala755/navix-ai/internal/geo"
	"github.com/nischala755/navix-ai/internal/models"
)

const (
	// DefaultPreviewSegments is the resolution of the dashed preview arc
	DefaultPreviewSegments = 64
	// DefaultFitPadding is the viewport padding in pixels
	DefaultFitPadding = 48
)

// View is the desired map content for one render cycle
type View struct {
	Origin      *models.Port
	Destination *models.Port
	OtherPorts  []models.Port
	// ActivePath is the solved route to draw; nil means no solution yet
	ActivePath []models.Coordinates
	// Preview draws a dashed great-circle estimate between origin and
	// destination when no ActivePath is present
	Preview bool
}

// Reconciler diffs a View against what is currently on the Surface and
// applies the minimal set of mutations, in a fixed order: remove stale
// markers, add new markers, remove stale path, add new path, fit viewport.
//
// Until Ready is called every Reconcile is deferred; the latest deferred
// view is flushed exactly once when the surface signals readiness.
type Reconciler struct {
	mu      sync.Mutex
	surface Surface

	ready    bool
	tornDown bool
	pending  *View

	markers   map[string]MarkerStyle
	pathID    string
	pathStyle PathStyle
	path      []models.Coordinates

	previewSegments int
	fitPadding      int
}

// NewReconciler creates a reconciler bound to one surface handle
func NewReconciler(surface Surface) *Reconciler {
	return &Reconciler{
		surface:         surface,
		markers:         make(map[string]MarkerStyle),
		previewSegments: DefaultPreviewSegments,
		fitPadding:      DefaultFitPadding,
	}
}

// Ready signals that the underlying surface finished its asynchronous
// load. The first call flushes the most recent deferred view; later calls
// are no-ops.
func (r *Reconciler) Ready() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ready || r.tornDown {
		return
	}
	r.ready = true

	if r.pending != nil {
		view := r.pending
		r.pending = nil
		r.apply(view)
	}
}

// Reconcile brings the surface in sync with the requested view. Calling it
// twice with the same view produces zero additional surface mutations.
func (r *Reconciler) Reconcile(view View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tornDown {
		return
	}
	if !r.ready {
		// Keep only the latest requested view for the flush on Ready
		r.pending = &view
		return
	}
	r.apply(&view)
}

// Teardown removes everything the reconciler put on the surface and
// detaches from it. Safe to call repeatedly and before Ready.
func (r *Reconciler) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tornDown {
		return
	}
	r.tornDown = true
	r.pending = nil

	if !r.ready {
		return
	}
	for locode := range r.markers {
		r.surface.RemoveMarker(locode)
	}
	r.markers = make(map[string]MarkerStyle)
	if r.pathID != "" {
		r.surface.RemovePath(r.pathID)
		r.pathID = ""
		r.path = nil
	}
}

func (r *Reconciler) apply(view *View) {
	desired := desiredMarkers(view)

	mutated := false

	// Stale markers go first so a port that switched role (say, destination
	// becomes origin) never exists twice on the surface.
	for locode, style := range r.markers {
		if want, ok := desired[locode]; !ok || want.Style != style {
			r.surface.RemoveMarker(locode)
			delete(r.markers, locode)
			mutated = true
		}
	}

	for _, m := range markerOrder(view, desired) {
		if _, ok := r.markers[m.Locode]; ok {
			continue
		}
		r.surface.AddMarker(m)
		r.markers[m.Locode] = m.Style
		mutated = true
	}

	wantID, wantStyle, wantPath := r.desiredPath(view)
	if r.pathID != wantID || !pathsEqual(r.path, wantPath) {
		if r.pathID != "" {
			r.surface.RemovePath(r.pathID)
			r.pathID = ""
			r.path = nil
		}
		if wantID != "" {
			r.surface.SetPath(wantID, wantPath, wantStyle)
			r.pathID = wantID
			r.pathStyle = wantStyle
			r.path = wantPath
		}
		mutated = true
	}

	if !mutated {
		return
	}

	switch {
	case len(r.path) > 0:
		r.surface.FitBounds(BoundsOf(r.path), r.fitPadding)
	case view.Origin != nil && view.Destination != nil:
		pts := []models.Coordinates{view.Origin.GetCoords(), view.Destination.GetCoords()}
		r.surface.FitBounds(BoundsOf(pts), r.fitPadding)
	}
}

func (r *Reconciler) desiredPath(view *View) (string, PathStyle, []models.Coordinates) {
	if view.ActivePath != nil {
		return "solution", PathSolution, view.ActivePath
	}
	if view.Preview && view.Origin != nil && view.Destination != nil {
		points, err := geo.Interpolate(view.Origin.GetCoords(), view.Destination.GetCoords(), r.previewSegments)
		if err != nil {
			log.Printf("[ERROR] Preview interpolation failed: %v", err)
			return "", "", nil
		}
		return "preview", PathPreview, points
	}
	return "", "", nil
}

func desiredMarkers(view *View) map[string]Marker {
	desired := make(map[string]Marker)
	for _, p := range view.OtherPorts {
		desired[p.Locode] = Marker{Locode: p.Locode, Name: p.Name, Coords: p.GetCoords(), Style: MarkerPort}
	}
	// Origin and destination override plain port markers for the same locode
	if view.Origin != nil {
		p := view.Origin
		desired[p.Locode] = Marker{Locode: p.Locode, Name: p.Name, Coords: p.GetCoords(), Style: MarkerOrigin}
	}
	if view.Destination != nil {
		p := view.Destination
		desired[p.Locode] = Marker{Locode: p.Locode, Name: p.Name, Coords: p.GetCoords(), Style: MarkerDestination}
	}
	return desired
}

// markerOrder yields the desired markers in a deterministic order: the
// backdrop ports in input order, then origin, then destination.
func markerOrder(view *View, desired map[string]Marker) []Marker {
	ordered := make([]Marker, 0, len(desired))
	seen := make(map[string]bool, len(desired))
	for _, p := range view.OtherPorts {
		m := desired[p.Locode]
		if !seen[p.Locode] && m.Style == MarkerPort {
			ordered = append(ordered, m)
			seen[p.Locode] = true
		}
	}
	if view.Origin != nil && !seen[view.Origin.Locode] {
		ordered = append(ordered, desired[view.Origin.Locode])
		seen[view.Origin.Locode] = true
	}
	if view.Destination != nil && !seen[view.Destination.Locode] {
		ordered = append(ordered, desired[view.Destination.Locode])
	}
	return ordered
}

func pathsEqual(a, b []models.Coordinates) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
