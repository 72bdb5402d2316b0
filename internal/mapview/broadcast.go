package mapview

import (
	"sync"

	"github.com/nischala755/navix-ai/internal/models"
)

// Mutation is one surface operation serialized for the frontend. The
// browser applies mutations to the Leaflet map in the order received.
type Mutation struct {
	Op      string               `json:"op"`
	Marker  *Marker              `json:"marker,omitempty"`
	Locode  string               `json:"locode,omitempty"`
	PathID  string               `json:"path_id,omitempty"`
	Points  []models.Coordinates `json:"points,omitempty"`
	Style   PathStyle            `json:"style,omitempty"`
	Bounds  *Bounds              `json:"bounds,omitempty"`
	Padding int                  `json:"padding,omitempty"`
}

const (
	OpMarkerAdd    = "marker_add"
	OpMarkerRemove = "marker_remove"
	OpPathSet      = "path_set"
	OpPathRemove   = "path_remove"
	OpFitBounds    = "fit_bounds"
)

// BroadcastSurface is the production Surface: it journals every mutation
// and fans it out to subscribed event streams. A late subscriber receives
// the journal first, so replay order equals live order.
type BroadcastSurface struct {
	mu      sync.Mutex
	journal []Mutation
	subs    map[chan Mutation]struct{}
	closed  bool
}

// NewBroadcastSurface creates an empty surface with no subscribers
func NewBroadcastSurface() *BroadcastSurface {
	return &BroadcastSurface{subs: make(map[chan Mutation]struct{})}
}

func (s *BroadcastSurface) AddMarker(m Marker) {
	marker := m
	s.publish(Mutation{Op: OpMarkerAdd, Marker: &marker})
}

func (s *BroadcastSurface) RemoveMarker(locode string) {
	s.publish(Mutation{Op: OpMarkerRemove, Locode: locode})
}

func (s *BroadcastSurface) SetPath(id string, points []models.Coordinates, style PathStyle) {
	s.publish(Mutation{Op: OpPathSet, PathID: id, Points: points, Style: style})
}

func (s *BroadcastSurface) RemovePath(id string) {
	s.publish(Mutation{Op: OpPathRemove, PathID: id})
}

func (s *BroadcastSurface) FitBounds(b Bounds, padding int) {
	s.publish(Mutation{Op: OpFitBounds, Bounds: &b, Padding: padding})
}

// Subscribe registers a stream consumer. The returned replay slice holds
// every mutation so far; live mutations arrive on the channel afterwards.
// The cancel func must be called when the consumer disconnects.
func (s *BroadcastSurface) Subscribe() (<-chan Mutation, []Mutation, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Mutation, 64)
	replay := make([]Mutation, len(s.journal))
	copy(replay, s.journal)

	if s.closed {
		close(ch)
		return ch, replay, func() {}
	}
	s.subs[ch] = struct{}{}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
	return ch, replay, cancel
}

// Close disconnects all subscribers. Further mutations are dropped.
func (s *BroadcastSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		close(ch)
	}
	s.subs = make(map[chan Mutation]struct{})
}

// Journal returns a snapshot of every mutation applied so far
func (s *BroadcastSurface) Journal() []Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]Mutation, len(s.journal))
	copy(snapshot, s.journal)
	return snapshot
}

func (s *BroadcastSurface) publish(m Mutation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.journal = append(s.journal, m)
	for ch := range s.subs {
		select {
		case ch <- m:
		default:
			// Drop if the client is slow; the journal replay on reconnect
			// restores a consistent surface.
		}
	}
}
