package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nischala755/navix-ai/internal/models"
)

func TestBroadcastSurface_JournalReplayEqualsLiveOrder(t *testing.T) {
	s := NewBroadcastSurface()

	s.AddMarker(Marker{Locode: "SGSIN", Style: MarkerOrigin})
	s.SetPath("preview", []models.Coordinates{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}, PathPreview)

	ch, replay, cancel := s.Subscribe()
	defer cancel()

	require.Len(t, replay, 2)
	assert.Equal(t, OpMarkerAdd, replay[0].Op)
	assert.Equal(t, OpPathSet, replay[1].Op)

	s.RemovePath("preview")
	s.FitBounds(Bounds{MinLat: 1, MaxLat: 3}, 48)

	m := <-ch
	assert.Equal(t, OpPathRemove, m.Op)
	m = <-ch
	assert.Equal(t, OpFitBounds, m.Op)
	require.NotNil(t, m.Bounds)
	assert.Equal(t, 48, m.Padding)

	journal := s.Journal()
	assert.Len(t, journal, 4)
}

func TestBroadcastSurface_CancelStopsDelivery(t *testing.T) {
	s := NewBroadcastSurface()
	ch, _, cancel := s.Subscribe()

	cancel()
	cancel() // safe to call twice

	s.AddMarker(Marker{Locode: "NLRTM", Style: MarkerDestination})

	_, open := <-ch
	assert.False(t, open, "channel must be closed after cancel")
}

func TestBroadcastSurface_Close(t *testing.T) {
	s := NewBroadcastSurface()
	ch, _, cancel := s.Subscribe()
	defer cancel()

	s.Close()
	s.Close() // idempotent

	_, open := <-ch
	assert.False(t, open)

	// Mutations after close are dropped, not journaled
	s.AddMarker(Marker{Locode: "DEHAM", Style: MarkerPort})
	assert.Empty(t, s.Journal())

	// Subscribing after close yields a closed channel and the final journal
	ch2, replay, cancel2 := s.Subscribe()
	defer cancel2()
	assert.Empty(t, replay)
	_, open = <-ch2
	assert.False(t, open)
}
