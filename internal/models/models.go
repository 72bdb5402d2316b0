package models

import "time"

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Port represents a seaport from the reference data set
type Port struct {
	Locode      string  `json:"locode"`
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	Lat         float64 `json:"latitude"`
	Lng         float64 `json:"longitude"`
	IsMajor     bool    `json:"is_major"`
}

// GetCoords returns the coordinates of the port
func (p *Port) GetCoords() Coordinates {
	return Coordinates{Lat: p.Lat, Lng: p.Lng}
}

// Ship represents a vessel profile usable for optimization
type Ship struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ShipType     string  `json:"ship_type"`
	Deadweight   float64 `json:"deadweight"`
	ServiceSpeed float64 `json:"service_speed"`
	MinSpeed     float64 `json:"min_speed"`
	MaxSpeed     float64 `json:"max_speed"`
	FuelType     string  `json:"fuel_type"`
}

// JobStatus is the lifecycle state reported by the optimizer backend
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether no further status transitions can occur
func (s JobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	}
	return false
}

// Job is an optimization job as observed via status polling.
// The client never mutates a job; it only reads what the backend reports.
type Job struct {
	JobID               string     `json:"job_id"`
	Status              JobStatus  `json:"status"`
	Algorithm           string     `json:"algorithm"`
	Origin              string     `json:"origin"`
	Destination         string     `json:"destination"`
	CreatedAt           time.Time  `json:"created_at"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	IterationsCompleted int        `json:"iterations_completed"`
	SolutionsCount      int        `json:"solutions_count"`
	ErrorMessage        string     `json:"error_message,omitempty"`
	ProgressPct         float64    `json:"progress_pct"`
}

// ObjectiveWeights are forwarded to the optimizer verbatim. They do not
// need to sum to 1; normalization is the optimizer's responsibility.
type ObjectiveWeights struct {
	Fuel      float64 `json:"fuel"`
	Time      float64 `json:"time"`
	Risk      float64 `json:"risk"`
	Emissions float64 `json:"emissions"`
	Comfort   float64 `json:"comfort"`
}

// DefaultWeights mirrors the backend's default weighting
func DefaultWeights() ObjectiveWeights {
	return ObjectiveWeights{Fuel: 0.3, Time: 0.25, Risk: 0.2, Emissions: 0.15, Comfort: 0.1}
}

// OptimizationRequest is the submit payload for POST /optimize
type OptimizationRequest struct {
	OriginLocode      string           `json:"origin_locode"`
	DestinationLocode string           `json:"destination_locode"`
	ShipID            string           `json:"ship_id"`
	DepartureTime     time.Time        `json:"departure_time"`
	Algorithm         string           `json:"algorithm"`
	Weights           ObjectiveWeights `json:"weights"`
	SwarmSize         int              `json:"swarm_size,omitempty"`
	MaxIterations     int              `json:"max_iterations,omitempty"`
	UseWarmStart      bool             `json:"use_warm_start"`
}

// OptimizationAck is the immediate response to a submit
type OptimizationAck struct {
	JobID                string `json:"job_id"`
	Status               string `json:"status"`
	Message              string `json:"message"`
	EstimatedTimeSeconds *int   `json:"estimated_time_seconds,omitempty"`
}

// RouteWaypoint is an individual point along a route solution
type RouteWaypoint struct {
	Sequence      int        `json:"sequence"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	ETA           *time.Time `json:"eta,omitempty"`
	LegDistanceNM *float64   `json:"leg_distance_nm,omitempty"`
	LegSpeedKt    *float64   `json:"leg_speed_kt,omitempty"`
	LegFuelTonnes *float64   `json:"leg_fuel_tonnes,omitempty"`
}

// ObjectiveValues holds the objective function values for one solution
type ObjectiveValues struct {
	FuelTonnes         float64    `json:"fuel_tonnes"`
	TravelTimeHours    float64    `json:"travel_time_hours"`
	RiskScore          float64    `json:"risk_score"`
	CO2EmissionsTonnes float64    `json:"co2_emissions_tonnes"`
	ComfortScore       float64    `json:"comfort_score"`
	FuelCostUSD        *float64   `json:"fuel_cost_usd,omitempty"`
	EstimatedArrival   *time.Time `json:"estimated_arrival,omitempty"`
}

// RouteComparison compares a solution against the baseline great-circle route
type RouteComparison struct {
	FuelSavingsPct      *float64 `json:"fuel_savings_pct,omitempty"`
	TimePenaltyPct      *float64 `json:"time_penalty_pct,omitempty"`
	EmissionsSavingsPct *float64 `json:"emissions_savings_pct,omitempty"`
	RiskReductionPct    *float64 `json:"risk_reduction_pct,omitempty"`
}

// RouteSolution is one Pareto-optimal route produced by a completed job.
// Solutions are immutable once fetched; rank 0 is the most preferred
// under the weighting the job was submitted with.
type RouteSolution struct {
	RouteID         string           `json:"route_id"`
	JobID           string           `json:"job_id"`
	Rank            int              `json:"rank"`
	Objectives      ObjectiveValues  `json:"objectives"`
	TotalDistanceNM float64          `json:"total_distance_nm"`
	WaypointCount   int              `json:"waypoint_count"`
	AverageSpeedKt  *float64         `json:"average_speed_kt,omitempty"`
	Waypoints       []RouteWaypoint  `json:"waypoints"`
	Comparison      *RouteComparison `json:"comparison,omitempty"`
}

// Path returns the waypoint sequence as map coordinates, in route order
func (r *RouteSolution) Path() []Coordinates {
	path := make([]Coordinates, len(r.Waypoints))
	for i, wp := range r.Waypoints {
		path[i] = Coordinates{Lat: wp.Latitude, Lng: wp.Longitude}
	}
	return path
}

// RouteList is the full Pareto set for one job
type RouteList struct {
	JobID          string          `json:"job_id"`
	SolutionsCount int             `json:"solutions_count"`
	Routes         []RouteSolution `json:"routes"`
}

// Voyage is a locally recorded optimization run, kept for the history view
type Voyage struct {
	ID                int64      `json:"id"`
	JobID             string     `json:"job_id"`
	OriginLocode      string     `json:"origin_locode"`
	DestinationLocode string     `json:"destination_locode"`
	ShipID            string     `json:"ship_id"`
	Algorithm         string     `json:"algorithm"`
	Status            string     `json:"status"`
	SolutionsCount    int        `json:"solutions_count"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}
