package handlers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nischala755/navix-ai/internal/config"
	"github.com/nischala755/navix-ai/internal/database"
	"github.com/nischala755/navix-ai/internal/geo"
	"github.com/nischala755/navix-ai/internal/mapview"
	"github.com/nischala755/navix-ai/internal/models"
	"github.com/nischala755/navix-ai/internal/optimizer"
	"github.com/nischala755/navix-ai/internal/poller"
	"github.com/nischala755/navix-ai/internal/selection"
)

// Session phases shown to the frontend
const (
	PhasePlanning   = "planning"
	PhaseOptimizing = "optimizing"
	PhaseRoutes     = "routes"
	PhaseErrored    = "errored"
)

const fetchTimeout = 15 * time.Second

// SessionDeps are the collaborators every voyage session shares
type SessionDeps struct {
	DB        database.DataStore
	Optimizer optimizer.Client
	Config    *config.Config
	Clock     poller.Clock
}

// VoyageSession is one mounted planner view. It exclusively owns its map
// surface for its whole lifetime and holds the poller and route selection
// for at most one submitted job at a time.
type VoyageSession struct {
	id    string
	deps  SessionDeps
	ports []models.Port // static backdrop, loaded once per session

	surface    *mapview.BroadcastSurface
	reconciler *mapview.Reconciler
	binder     *selection.Binder

	mu          sync.Mutex
	origin      *models.Port
	destination *models.Port
	ship        *models.Ship
	activePath  []models.Coordinates
	job         *models.Job
	jobPoller   *poller.Poller
	routes      *models.RouteList
	phase       string
	message     string
	torn        bool
}

// SessionStatus is the poll-friendly snapshot served to the frontend
type SessionStatus struct {
	SessionID       string       `json:"session_id"`
	Phase           string       `json:"phase"`
	Message         string       `json:"message,omitempty"`
	Origin          *models.Port `json:"origin,omitempty"`
	Destination     *models.Port `json:"destination,omitempty"`
	Ship            *models.Ship `json:"ship,omitempty"`
	Job             *models.Job  `json:"job,omitempty"`
	GreatCircleNM   float64      `json:"great_circle_nm,omitempty"`
	SelectedRouteID string       `json:"selected_route_id,omitempty"`
	SolutionsCount  int          `json:"solutions_count"`
}

func newVoyageSession(ctx context.Context, deps SessionDeps) (*VoyageSession, error) {
	ports, err := deps.DB.Ports().List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load port reference data: %w", err)
	}

	surface := mapview.NewBroadcastSurface()
	s := &VoyageSession{
		id:         uuid.NewString(),
		deps:       deps,
		ports:      ports,
		surface:    surface,
		reconciler: mapview.NewReconciler(surface),
		phase:      PhasePlanning,
	}
	s.binder = selection.New(s.onRouteSelected)

	log.Printf("[SESSION] Mounted: session_id=%s ports=%d", s.id, len(ports))
	return s, nil
}

// ID returns the session identifier
func (s *VoyageSession) ID() string { return s.id }

// Surface returns the broadcast surface the frontend subscribes to
func (s *VoyageSession) Surface() *mapview.BroadcastSurface { return s.surface }

// SurfaceReady marks the map surface as loaded; deferred layer mutations
// flush on the first call
func (s *VoyageSession) SurfaceReady() {
	s.reconciler.Ready()
}

// SetPorts updates the origin/destination pair. Any running optimization
// is abandoned and the view falls back to the dashed preview arc.
func (s *VoyageSession) SetPorts(ctx context.Context, originLocode, destinationLocode string) error {
	var origin, destination *models.Port
	var err error

	if originLocode != "" {
		origin, err = s.deps.DB.Ports().GetByLocode(ctx, originLocode)
		if err != nil {
			return fmt.Errorf("origin: %w", err)
		}
	}
	if destinationLocode != "" {
		destination, err = s.deps.DB.Ports().GetByLocode(ctx, destinationLocode)
		if err != nil {
			return fmt.Errorf("destination: %w", err)
		}
	}

	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return nil
	}
	if s.jobPoller != nil {
		s.jobPoller.Cancel()
		s.jobPoller = nil
	}
	s.origin = origin
	s.destination = destination
	s.job = nil
	s.routes = nil
	s.activePath = nil
	s.phase = PhasePlanning
	s.message = ""
	s.render()
	s.mu.Unlock()

	s.binder.Clear()
	return nil
}

// SubmitParams are the user-tunable inputs for one optimization run
type SubmitParams struct {
	ShipID        string                   `json:"ship_id"`
	Algorithm     string                   `json:"algorithm"`
	Weights       *models.ObjectiveWeights `json:"weights,omitempty"`
	DepartureTime *time.Time               `json:"departure_time,omitempty"`
}

// Submit sends the optimization request and starts polling the job.
// Weights are forwarded exactly as given; the optimizer owns normalization.
func (s *VoyageSession) Submit(ctx context.Context, params SubmitParams) (*models.OptimizationAck, error) {
	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return nil, fmt.Errorf("session is torn down")
	}
	if s.origin == nil || s.destination == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("origin and destination must be selected")
	}
	if s.jobPoller != nil && s.jobPoller.State() == poller.Polling {
		s.mu.Unlock()
		return nil, fmt.Errorf("an optimization is already running")
	}
	origin, destination := s.origin, s.destination
	s.mu.Unlock()

	ship, err := s.deps.DB.Ships().GetByID(ctx, params.ShipID)
	if err != nil {
		return nil, fmt.Errorf("ship %s: %w", params.ShipID, err)
	}

	algorithm := params.Algorithm
	if algorithm == "" {
		algorithm = "hacopso"
	}
	weights := models.DefaultWeights()
	if params.Weights != nil {
		weights = *params.Weights
	}
	departure := time.Now().UTC()
	if params.DepartureTime != nil {
		departure = *params.DepartureTime
	}

	req := &models.OptimizationRequest{
		OriginLocode:      origin.Locode,
		DestinationLocode: destination.Locode,
		ShipID:            ship.ID,
		DepartureTime:     departure,
		Algorithm:         algorithm,
		Weights:           weights,
		UseWarmStart:      true,
	}

	ack, err := s.deps.Optimizer.SubmitOptimization(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.deps.DB.Voyages().Create(ctx, &models.Voyage{
		JobID:             ack.JobID,
		OriginLocode:      origin.Locode,
		DestinationLocode: destination.Locode,
		ShipID:            ship.ID,
		Algorithm:         algorithm,
		Status:            ack.Status,
	}); err != nil {
		log.Printf("[ERROR] Failed to record voyage: job_id=%s err=%v", ack.JobID, err)
	}

	jobPoller := poller.New(poller.Config{
		Fetcher:    s.deps.Optimizer,
		Clock:      s.deps.Clock,
		Interval:   s.deps.Config.PollInterval,
		Settle:     s.deps.Config.SettleDelay,
		OnProgress: s.onJobProgress,
		OnTerminal: s.onJobTerminal,
	})

	s.mu.Lock()
	s.ship = ship
	s.jobPoller = jobPoller
	s.routes = nil
	s.activePath = nil
	s.phase = PhaseOptimizing
	s.message = ""
	s.mu.Unlock()
	s.binder.Clear()

	// Polling outlives the submit request; teardown cancels it explicitly
	if err := jobPoller.Start(context.Background(), ack.JobID); err != nil {
		s.mu.Lock()
		s.phase = PhaseErrored
		s.message = "The optimization service returned an unusable job id."
		s.mu.Unlock()
		return nil, err
	}

	return ack, nil
}

// CancelJob cancels a running optimization: the local poller stops first
// so no late callback fires, then the backend job is cancelled. No-op when
// nothing is running.
func (s *VoyageSession) CancelJob(ctx context.Context) {
	s.mu.Lock()
	jobPoller := s.jobPoller
	if jobPoller == nil || jobPoller.State() != poller.Polling {
		s.mu.Unlock()
		return
	}
	jobID := jobPoller.JobID()
	s.jobPoller = nil
	s.job = nil
	s.phase = PhasePlanning
	s.message = ""
	s.mu.Unlock()

	jobPoller.Cancel()
	if err := s.deps.Optimizer.CancelJob(ctx, jobID); err != nil {
		log.Printf("[ERROR] Backend cancel failed: job_id=%s err=%v", jobID, err)
	}
	s.updateVoyage(jobID, string(models.JobCancelled), 0)
}

// SelectRoute switches the shared selection; unknown ids are ignored
func (s *VoyageSession) SelectRoute(routeID string) {
	s.binder.Select(routeID)
}

// Routes returns the loaded Pareto set, or nil before completion
func (s *VoyageSession) Routes() *models.RouteList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routes
}

// Status returns a snapshot for the frontend status poll
func (s *VoyageSession) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SessionStatus{
		SessionID:   s.id,
		Phase:       s.phase,
		Message:     s.message,
		Origin:      s.origin,
		Destination: s.destination,
		Ship:        s.ship,
		Job:         s.job,
	}
	if s.origin != nil && s.destination != nil {
		status.GreatCircleNM = geo.HaversineNM(s.origin.GetCoords(), s.destination.GetCoords())
	}
	if s.routes != nil {
		status.SolutionsCount = len(s.routes.Routes)
	}
	if selected := s.binder.Selected(); selected != nil {
		status.SelectedRouteID = selected.RouteID
	}
	return status
}

// Teardown cancels polling and releases the map surface. Idempotent and
// safe even if the surface never finished initializing.
func (s *VoyageSession) Teardown() {
	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return
	}
	s.torn = true
	jobPoller := s.jobPoller
	s.jobPoller = nil
	s.mu.Unlock()

	if jobPoller != nil {
		jobPoller.Cancel()
	}
	s.reconciler.Teardown()
	s.surface.Close()
	log.Printf("[SESSION] Torn down: session_id=%s", s.id)
}

// render pushes the current view to the reconciler. Caller holds s.mu.
func (s *VoyageSession) render() {
	s.reconciler.Reconcile(mapview.View{
		Origin:      s.origin,
		Destination: s.destination,
		OtherPorts:  s.ports,
		ActivePath:  s.activePath,
		Preview:     s.activePath == nil,
	})
}

func (s *VoyageSession) onJobProgress(job *models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.job = job
}

func (s *VoyageSession) onJobTerminal(outcome poller.Outcome) {
	switch outcome.Kind {
	case poller.OutcomeCompleted:
		s.loadRoutes(outcome.Job)

	case poller.OutcomeJobFailed, poller.OutcomeJobCancelled:
		s.mu.Lock()
		s.job = outcome.Job
		s.phase = PhaseErrored
		s.message = outcome.Message
		s.mu.Unlock()
		s.updateVoyage(outcome.Job.JobID, string(outcome.Job.Status), 0)

	case poller.OutcomeTransportFailure:
		s.mu.Lock()
		s.phase = PhaseErrored
		s.message = outcome.Message
		s.mu.Unlock()
	}
}

func (s *VoyageSession) loadRoutes(job *models.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	list, err := s.deps.Optimizer.GetRoutes(ctx, job.JobID)
	if err != nil {
		log.Printf("[ERROR] Route fetch failed: job_id=%s err=%v", job.JobID, err)
		s.mu.Lock()
		s.job = job
		s.phase = PhaseErrored
		s.message = "The optimization finished but its routes could not be fetched."
		s.mu.Unlock()
		return
	}

	if err := s.deps.DB.RouteCache().Put(ctx, list); err != nil {
		log.Printf("[ERROR] Failed to cache routes: job_id=%s err=%v", job.JobID, err)
	}
	s.updateVoyage(job.JobID, string(models.JobCompleted), len(list.Routes))

	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return
	}
	s.job = job
	s.routes = list
	s.phase = PhaseRoutes
	s.mu.Unlock()

	// Selects rank 0 and swaps the preview for the solved path
	s.binder.Load(list.Routes)
}

func (s *VoyageSession) onRouteSelected(route *models.RouteSolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.torn {
		return
	}
	s.activePath = route.Path()
	s.render()
}

func (s *VoyageSession) updateVoyage(jobID, status string, solutions int) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	if err := s.deps.DB.Voyages().UpdateStatus(ctx, jobID, status, solutions); err != nil {
		log.Printf("[ERROR] Failed to update voyage status: job_id=%s err=%v", jobID, err)
	}
}

// VoyageSessionStore owns the single mounted session. Mounting a new one
// fully disposes the previous surface first, so two sessions never share
// a map handle.
type VoyageSessionStore struct {
	mu      sync.Mutex
	deps    SessionDeps
	current *VoyageSession
}

// NewVoyageSessionStore creates an empty store
func NewVoyageSessionStore(deps SessionDeps) *VoyageSessionStore {
	return &VoyageSessionStore{deps: deps}
}

// Mount creates a fresh session, tearing down any existing one
func (vs *VoyageSessionStore) Mount(ctx context.Context) (*VoyageSession, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.current != nil {
		vs.current.Teardown()
		vs.current = nil
	}

	session, err := newVoyageSession(ctx, vs.deps)
	if err != nil {
		return nil, err
	}
	vs.current = session
	return session, nil
}

// Current returns the mounted session, or nil
func (vs *VoyageSessionStore) Current() *VoyageSession {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.current
}

// Unmount tears down the mounted session
func (vs *VoyageSessionStore) Unmount() {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.current != nil {
		vs.current.Teardown()
		vs.current = nil
	}
}
