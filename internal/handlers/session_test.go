package handlers

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nischala755/navix-ai/internal/config"
	"github.com/nischala755/navix-ai/internal/mapview"
	"github.com/nischala755/navix-ai/internal/models"
	"github.com/nischala755/navix-ai/internal/poller"
	"github.com/nischala755/navix-ai/internal/sqlite"
)

const testJobID = "4b1e8a1c-9d0a-4f6b-8f35-6a2e8f0b1c2d"

// manualClock fires timers only when the test tells it to
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	fn      func()
	stopped bool
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) poller.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &manualTimer{clock: c, fn: fn}
	c.pending = append(c.pending, timer)
	return timer
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) fire(t *testing.T) {
	c.mu.Lock()
	var fn func()
	for len(c.pending) > 0 {
		timer := c.pending[0]
		c.pending = c.pending[1:]
		if !timer.stopped {
			fn = timer.fn
			break
		}
	}
	c.mu.Unlock()
	require.NotNil(t, fn, "no pending timer to fire")
	fn()
}

// fakeOptimizer scripts the backend's status sequence
type fakeOptimizer struct {
	mu        sync.Mutex
	statuses  []models.Job
	fetches   int
	routes    *models.RouteList
	cancelled []string
}

func (f *fakeOptimizer) SubmitOptimization(ctx context.Context, req *models.OptimizationRequest) (*models.OptimizationAck, error) {
	return &models.OptimizationAck{JobID: testJobID, Status: "pending", Message: "Optimization started"}, nil
}

func (f *fakeOptimizer) GetJobStatus(ctx context.Context, jobID string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job := f.statuses[f.fetches]
	if f.fetches < len(f.statuses)-1 {
		f.fetches++
	}
	return &job, nil
}

func (f *fakeOptimizer) CancelJob(ctx context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, jobID)
	return nil
}

func (f *fakeOptimizer) GetRoutes(ctx context.Context, jobID string) (*models.RouteList, error) {
	return f.routes, nil
}

func (f *fakeOptimizer) GetExplanation(ctx context.Context, routeID string) (json.RawMessage, error) {
	return json.RawMessage(`{"summary":"test"}`), nil
}

func (f *fakeOptimizer) GetMapLayer(ctx context.Context, name string) (json.RawMessage, error) {
	return json.RawMessage(`{"type":"FeatureCollection","features":[]}`), nil
}

func testRoutes() *models.RouteList {
	waypoints := func(mid models.Coordinates) []models.RouteWaypoint {
		return []models.RouteWaypoint{
			{Sequence: 0, Latitude: 1.2655, Longitude: 103.8186},
			{Sequence: 1, Latitude: mid.Lat, Longitude: mid.Lng},
			{Sequence: 2, Latitude: 51.9496, Longitude: 4.1453},
		}
	}
	return &models.RouteList{
		JobID:          testJobID,
		SolutionsCount: 3,
		Routes: []models.RouteSolution{
			{RouteID: "route-b", JobID: testJobID, Rank: 1, Waypoints: waypoints(models.Coordinates{Lat: 12, Lng: 50})},
			{RouteID: "route-a", JobID: testJobID, Rank: 0, Waypoints: waypoints(models.Coordinates{Lat: 10, Lng: 48})},
			{RouteID: "route-c", JobID: testJobID, Rank: 2, Waypoints: waypoints(models.Coordinates{Lat: 14, Lng: 52})},
		},
	}
}

func newTestSession(t *testing.T, optimizer *fakeOptimizer, clock poller.Clock) (*VoyageSession, *VoyageSessionStore) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sessions := NewVoyageSessionStore(SessionDeps{
		DB:        store,
		Optimizer: optimizer,
		Config: &config.Config{
			PollInterval: time.Millisecond,
			SettleDelay:  time.Millisecond,
		},
		Clock: clock,
	})

	session, err := sessions.Mount(context.Background())
	require.NoError(t, err)
	t.Cleanup(sessions.Unmount)
	return session, sessions
}

func mutationOps(journal []mapview.Mutation) []string {
	ops := make([]string, len(journal))
	for i, m := range journal {
		ops[i] = m.Op
	}
	return ops
}

func pathSets(journal []mapview.Mutation) []mapview.Mutation {
	var sets []mapview.Mutation
	for _, m := range journal {
		if m.Op == mapview.OpPathSet {
			sets = append(sets, m)
		}
	}
	return sets
}

func TestVoyageLifecycle(t *testing.T) {
	clock := &manualClock{}
	opt := &fakeOptimizer{
		statuses: []models.Job{
			{JobID: testJobID, Status: models.JobPending},
			{JobID: testJobID, Status: models.JobRunning, ProgressPct: 45},
			{JobID: testJobID, Status: models.JobCompleted, SolutionsCount: 3},
		},
		routes: testRoutes(),
	}
	session, _ := newTestSession(t, opt, clock)

	session.SurfaceReady()
	ctx := context.Background()

	// Selecting the pair draws the dashed preview arc
	require.NoError(t, session.SetPorts(ctx, "SGSIN", "NLRTM"))

	status := session.Status()
	assert.Equal(t, PhasePlanning, status.Phase)
	require.NotNil(t, status.Origin)
	assert.Equal(t, "SGSIN", status.Origin.Locode)
	assert.Equal(t, "NLRTM", status.Destination.Locode)
	assert.InDelta(t, 5688, status.GreatCircleNM, 10)

	previews := pathSets(session.Surface().Journal())
	require.Len(t, previews, 1)
	assert.Equal(t, "preview", previews[0].PathID)
	assert.Equal(t, mapview.PathPreview, previews[0].Style)

	// Submit starts polling; first fetch is immediate and sees pending
	ack, err := session.Submit(ctx, SubmitParams{ShipID: "container_large", Algorithm: "hacopso"})
	require.NoError(t, err)
	assert.Equal(t, testJobID, ack.JobID)
	assert.Equal(t, PhaseOptimizing, session.Status().Phase)

	// Second fetch reports running with progress
	clock.fire(t)
	status = session.Status()
	assert.Equal(t, PhaseOptimizing, status.Phase)
	require.NotNil(t, status.Job)
	assert.Equal(t, models.JobRunning, status.Job.Status)
	assert.InDelta(t, 45, status.Job.ProgressPct, 0.001)

	// Third fetch sees completed; the settle timer is now pending
	clock.fire(t)
	assert.Equal(t, PhaseOptimizing, session.Status().Phase)

	// Settle fires: routes load, rank 0 auto-selects, solid path replaces
	// the preview
	clock.fire(t)
	status = session.Status()
	assert.Equal(t, PhaseRoutes, status.Phase)
	assert.Equal(t, 3, status.SolutionsCount)
	assert.Equal(t, "route-a", status.SelectedRouteID)

	routes := session.Routes()
	require.NotNil(t, routes)
	require.Len(t, routes.Routes, 3)
	assert.Equal(t, 0, routes.Routes[0].Rank)
	assert.Equal(t, 2, routes.Routes[2].Rank)

	journal := session.Surface().Journal()
	sets := pathSets(journal)
	require.Len(t, sets, 2)
	assert.Equal(t, "solution", sets[1].PathID)
	assert.Equal(t, mapview.PathSolution, sets[1].Style)

	// Preview must have been removed before the solution was drawn
	ops := mutationOps(journal)
	removeIdx, setIdx := -1, -1
	for i, m := range journal {
		if m.Op == mapview.OpPathRemove && m.PathID == "preview" {
			removeIdx = i
		}
		if m.Op == mapview.OpPathSet && m.PathID == "solution" {
			setIdx = i
		}
	}
	require.NotEqual(t, -1, removeIdx, "ops: %v", ops)
	require.NotEqual(t, -1, setIdx)
	assert.Less(t, removeIdx, setIdx)

	// Voyage history recorded the completed run
	voyages, err := session.deps.DB.Voyages().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, voyages, 1)
	assert.Equal(t, testJobID, voyages[0].JobID)
	assert.Equal(t, "completed", voyages[0].Status)
	assert.Equal(t, 3, voyages[0].SolutionsCount)

	// Routes cached locally for replay without the backend
	cached, err := session.deps.DB.RouteCache().Get(ctx, testJobID)
	require.NoError(t, err)
	assert.Equal(t, 3, cached.SolutionsCount)
}

func TestSelectRouteSwapsPath(t *testing.T) {
	clock := &manualClock{}
	opt := &fakeOptimizer{
		statuses: []models.Job{
			{JobID: testJobID, Status: models.JobCompleted, SolutionsCount: 3},
		},
		routes: testRoutes(),
	}
	session, _ := newTestSession(t, opt, clock)
	session.SurfaceReady()
	ctx := context.Background()

	require.NoError(t, session.SetPorts(ctx, "SGSIN", "NLRTM"))
	_, err := session.Submit(ctx, SubmitParams{ShipID: "container_large"})
	require.NoError(t, err)
	clock.fire(t) // settle

	require.Equal(t, "route-a", session.Status().SelectedRouteID)
	before := len(pathSets(session.Surface().Journal()))

	session.SelectRoute("route-c")
	assert.Equal(t, "route-c", session.Status().SelectedRouteID)
	after := pathSets(session.Surface().Journal())
	assert.Len(t, after, before+1)

	// Re-selecting the same route and unknown ids are no-ops
	session.SelectRoute("route-c")
	session.SelectRoute("no-such-route")
	assert.Equal(t, "route-c", session.Status().SelectedRouteID)
	assert.Len(t, pathSets(session.Surface().Journal()), before+1)
}

func TestChangingPortsAbandonsJob(t *testing.T) {
	clock := &manualClock{}
	opt := &fakeOptimizer{
		statuses: []models.Job{
			{JobID: testJobID, Status: models.JobRunning, ProgressPct: 10},
		},
		routes: testRoutes(),
	}
	session, _ := newTestSession(t, opt, clock)
	session.SurfaceReady()
	ctx := context.Background()

	require.NoError(t, session.SetPorts(ctx, "SGSIN", "NLRTM"))
	_, err := session.Submit(ctx, SubmitParams{ShipID: "container_large"})
	require.NoError(t, err)

	require.NoError(t, session.SetPorts(ctx, "SGSIN", "DEHAM"))

	status := session.Status()
	assert.Equal(t, PhasePlanning, status.Phase)
	assert.Nil(t, status.Job)
	assert.Equal(t, "DEHAM", status.Destination.Locode)
	assert.Empty(t, status.SelectedRouteID)
}

func TestCancelJobStopsPollingAndNotifiesBackend(t *testing.T) {
	clock := &manualClock{}
	opt := &fakeOptimizer{
		statuses: []models.Job{
			{JobID: testJobID, Status: models.JobRunning, ProgressPct: 30},
		},
	}
	session, _ := newTestSession(t, opt, clock)
	session.SurfaceReady()
	ctx := context.Background()

	require.NoError(t, session.SetPorts(ctx, "SGSIN", "NLRTM"))
	_, err := session.Submit(ctx, SubmitParams{ShipID: "container_large"})
	require.NoError(t, err)

	session.CancelJob(ctx)

	status := session.Status()
	assert.Equal(t, PhasePlanning, status.Phase)
	assert.Nil(t, status.Job)
	assert.Equal(t, []string{testJobID}, opt.cancelled)

	// Cancelling again with nothing running is a no-op
	session.CancelJob(ctx)
	assert.Len(t, opt.cancelled, 1)

	voyages, err := session.deps.DB.Voyages().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, voyages, 1)
	assert.Equal(t, "cancelled", voyages[0].Status)
}

func TestFailedJobSurfacesMessage(t *testing.T) {
	clock := &manualClock{}
	opt := &fakeOptimizer{
		statuses: []models.Job{
			{JobID: testJobID, Status: models.JobFailed, ErrorMessage: "no feasible route"},
		},
	}
	session, _ := newTestSession(t, opt, clock)
	session.SurfaceReady()
	ctx := context.Background()

	require.NoError(t, session.SetPorts(ctx, "SGSIN", "NLRTM"))
	_, err := session.Submit(ctx, SubmitParams{ShipID: "container_large"})
	require.NoError(t, err)

	status := session.Status()
	assert.Equal(t, PhaseErrored, status.Phase)
	assert.Equal(t, "no feasible route", status.Message)

	// The preview arc stays up; no solution was ever drawn
	sets := pathSets(session.Surface().Journal())
	require.Len(t, sets, 1)
	assert.Equal(t, "preview", sets[0].PathID)
}

func TestMountDisposesPreviousSession(t *testing.T) {
	clock := &manualClock{}
	opt := &fakeOptimizer{routes: testRoutes()}
	first, sessions := newTestSession(t, opt, clock)

	second, err := sessions.Mount(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	// The first surface is closed; its subscription channel ends
	live, _, cancel := first.Surface().Subscribe()
	defer cancel()
	_, open := <-live
	assert.False(t, open)

	assert.Same(t, second, sessions.Current())
}

func TestSubmitRequiresPorts(t *testing.T) {
	clock := &manualClock{}
	opt := &fakeOptimizer{}
	session, _ := newTestSession(t, opt, clock)

	_, err := session.Submit(context.Background(), SubmitParams{ShipID: "container_large"})
	assert.Error(t, err)
}

func TestSubmitUnknownShip(t *testing.T) {
	clock := &manualClock{}
	opt := &fakeOptimizer{}
	session, _ := newTestSession(t, opt, clock)

	require.NoError(t, session.SetPorts(context.Background(), "SGSIN", "NLRTM"))
	_, err := session.Submit(context.Background(), SubmitParams{ShipID: "rowing_boat"})
	assert.Error(t, err)
}
