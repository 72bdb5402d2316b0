package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nischala755/navix-ai/internal/database"
	"github.com/nischala755/navix-ai/internal/models"
)

// Route sets are immutable once fetched, so the cache stores the whole
// Pareto set as one JSON payload per job.
type routeCacheRepository struct {
	store *Store
}

func (r *routeCacheRepository) Get(ctx context.Context, jobID string) (*models.RouteList, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var payload string
	err := r.store.db.QueryRowContext(ctx,
		`SELECT payload FROM route_cache WHERE job_id = ?`, jobID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read route cache for %s: %w", jobID, err)
	}

	var list models.RouteList
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		return nil, fmt.Errorf("failed to parse cached routes for %s: %w", jobID, err)
	}

	return &list, nil
}

func (r *routeCacheRepository) Put(ctx context.Context, list *models.RouteList) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal routes for %s: %w", list.JobID, err)
	}

	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO route_cache (job_id, payload, cached_at) VALUES (?, ?, ?)
		 ON CONFLICT(job_id) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		list.JobID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write route cache for %s: %w", list.JobID, err)
	}

	return nil
}
