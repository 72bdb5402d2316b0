package selection

import (
	"log"
	"sort"
	"sync"

	"github.com/nischala755/navix-ai/internal/models"
)

// Binder keeps the Pareto chart's highlighted point and the map's rendered
// path pointing at the same route. The chart and the route list are always
// sourced from the same fetch, so selecting an id that is not in the loaded
// set is a no-op rather than an error.
type Binder struct {
	mu         sync.Mutex
	routes     []models.RouteSolution
	byID       map[string]int
	selectedID string
	onSelect   func(route *models.RouteSolution)
}

// New creates a binder. onSelect fires whenever the selected route changes
// and is expected to swap the rendered path atomically.
func New(onSelect func(route *models.RouteSolution)) *Binder {
	return &Binder{
		byID:     make(map[string]int),
		onSelect: onSelect,
	}
}

// Load replaces the route set with a freshly fetched Pareto front. Routes
// are ordered by ascending rank and, when the set is non-empty, the most
// preferred route (lowest rank) is selected immediately.
func (b *Binder) Load(routes []models.RouteSolution) {
	b.mu.Lock()

	b.routes = make([]models.RouteSolution, len(routes))
	copy(b.routes, routes)
	sort.SliceStable(b.routes, func(i, j int) bool {
		return b.routes[i].Rank < b.routes[j].Rank
	})

	b.byID = make(map[string]int, len(b.routes))
	for i, r := range b.routes {
		b.byID[r.RouteID] = i
	}
	b.selectedID = ""

	var selected *models.RouteSolution
	if len(b.routes) > 0 {
		b.selectedID = b.routes[0].RouteID
		selected = &b.routes[0]
		log.Printf("[SELECTION] Loaded %d routes, default selection rank=%d route_id=%s",
			len(b.routes), selected.Rank, selected.RouteID)
	}
	b.mu.Unlock()

	if selected != nil && b.onSelect != nil {
		b.onSelect(selected)
	}
}

// Select switches the shared selection to routeID. Selecting the current
// route again or an id outside the loaded set changes nothing.
func (b *Binder) Select(routeID string) {
	b.mu.Lock()

	idx, ok := b.byID[routeID]
	if !ok {
		b.mu.Unlock()
		log.Printf("[SELECTION] Ignoring unknown route id: %s", routeID)
		return
	}
	if routeID == b.selectedID {
		b.mu.Unlock()
		return
	}
	b.selectedID = routeID
	route := &b.routes[idx]
	b.mu.Unlock()

	if b.onSelect != nil {
		b.onSelect(route)
	}
}

// Selected returns the currently selected route, or nil
func (b *Binder) Selected() *models.RouteSolution {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.selectedID == "" {
		return nil
	}
	route := b.routes[b.byID[b.selectedID]]
	return &route
}

// Routes returns the loaded set in rank order
func (b *Binder) Routes() []models.RouteSolution {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.RouteSolution, len(b.routes))
	copy(out, b.routes)
	return out
}

// Clear drops the loaded set and selection without firing onSelect
func (b *Binder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.routes = nil
	b.byID = make(map[string]int)
	b.selectedID = ""
}
