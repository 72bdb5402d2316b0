package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatus_Terminal(t *testing.T) {
	assert.False(t, JobPending.Terminal())
	assert.False(t, JobQueued.Terminal())
	assert.False(t, JobRunning.Terminal())
	assert.True(t, JobCompleted.Terminal())
	assert.True(t, JobFailed.Terminal())
	assert.True(t, JobCancelled.Terminal())
}

func TestRouteSolution_Path(t *testing.T) {
	route := RouteSolution{
		Waypoints: []RouteWaypoint{
			{Sequence: 0, Latitude: 1.29, Longitude: 103.85},
			{Sequence: 1, Latitude: 6.5, Longitude: 80.1},
			{Sequence: 2, Latitude: 51.95, Longitude: 4.48},
		},
	}

	path := route.Path()
	assert.Len(t, path, 3)
	assert.Equal(t, Coordinates{Lat: 1.29, Lng: 103.85}, path[0])
	assert.Equal(t, Coordinates{Lat: 51.95, Lng: 4.48}, path[2])
}

func TestRouteSolution_Path_Empty(t *testing.T) {
	route := RouteSolution{}
	assert.Empty(t, route.Path())
}
