package database

import (
	"context"

	"github.com/nischala755/navix-ai/internal/models"
)

// DataStore is the interface for local persistence. Ports and ships are
// static reference data seeded on first run; voyages and the route cache
// accumulate as the user submits optimizations.
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	Ports() PortRepository
	Ships() ShipRepository
	Voyages() VoyageRepository
	RouteCache() RouteCacheRepository
}

// PortRepository serves the static port reference data
type PortRepository interface {
	List(ctx context.Context, search string) ([]models.Port, error)
	GetByLocode(ctx context.Context, locode string) (*models.Port, error)
}

// ShipRepository serves the static ship profiles
type ShipRepository interface {
	List(ctx context.Context) ([]models.Ship, error)
	GetByID(ctx context.Context, id string) (*models.Ship, error)
}

// VoyageRepository records submitted optimization runs for the history view
type VoyageRepository interface {
	List(ctx context.Context, limit int) ([]models.Voyage, error)
	Create(ctx context.Context, v *models.Voyage) (*models.Voyage, error)
	UpdateStatus(ctx context.Context, jobID, status string, solutionsCount int) error
}

// RouteCacheRepository caches fetched Pareto sets keyed by job id, so a
// completed voyage can be re-rendered without the backend
type RouteCacheRepository interface {
	Get(ctx context.Context, jobID string) (*models.RouteList, error)
	Put(ctx context.Context, list *models.RouteList) error
}
