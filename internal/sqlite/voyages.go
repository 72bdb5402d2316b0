package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/nischala755/navix-ai/internal/models"
)

type voyageRepository struct {
	store *Store
}

func (r *voyageRepository) List(ctx context.Context, limit int) ([]models.Voyage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, job_id, origin_locode, destination_locode, ship_id, algorithm, status, solutions_count, created_at, completed_at
		 FROM voyages ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query voyages: %w", err)
	}
	defer rows.Close()

	var voyages []models.Voyage
	for rows.Next() {
		var v models.Voyage
		if err := rows.Scan(&v.ID, &v.JobID, &v.OriginLocode, &v.DestinationLocode, &v.ShipID,
			&v.Algorithm, &v.Status, &v.SolutionsCount, &v.CreatedAt, &v.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voyage: %w", err)
		}
		voyages = append(voyages, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voyages: %w", err)
	}

	return voyages, nil
}

func (r *voyageRepository) Create(ctx context.Context, v *models.Voyage) (*models.Voyage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	result, err := r.store.db.ExecContext(ctx,
		`INSERT INTO voyages (job_id, origin_locode, destination_locode, ship_id, algorithm, status, solutions_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.JobID, v.OriginLocode, v.DestinationLocode, v.ShipID, v.Algorithm, v.Status, v.SolutionsCount, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create voyage: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get voyage id: %w", err)
	}
	v.ID = id

	return v, nil
}

func (r *voyageRepository) UpdateStatus(ctx context.Context, jobID, status string, solutionsCount int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var completedAt any
	if models.JobStatus(status).Terminal() {
		completedAt = time.Now().UTC()
	}

	_, err := r.store.db.ExecContext(ctx,
		`UPDATE voyages SET status = ?, solutions_count = ?, completed_at = COALESCE(?, completed_at) WHERE job_id = ?`,
		status, solutionsCount, completedAt, jobID)
	if err != nil {
		return fmt.Errorf("failed to update voyage %s: %w", jobID, err)
	}

	return nil
}
