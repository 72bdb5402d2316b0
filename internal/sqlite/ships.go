package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nischala755/navix-ai/internal/database"
	"github.com/nischala755/navix-ai/internal/models"
)

type shipRepository struct {
	store *Store
}

func (r *shipRepository) List(ctx context.Context) ([]models.Ship, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, name, ship_type, deadweight, service_speed, min_speed, max_speed, fuel_type
		 FROM ships ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ships: %w", err)
	}
	defer rows.Close()

	var ships []models.Ship
	for rows.Next() {
		var s models.Ship
		if err := rows.Scan(&s.ID, &s.Name, &s.ShipType, &s.Deadweight, &s.ServiceSpeed, &s.MinSpeed, &s.MaxSpeed, &s.FuelType); err != nil {
			return nil, fmt.Errorf("failed to scan ship: %w", err)
		}
		ships = append(ships, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ships: %w", err)
	}

	return ships, nil
}

func (r *shipRepository) GetByID(ctx context.Context, id string) (*models.Ship, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var s models.Ship
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, ship_type, deadweight, service_speed, min_speed, max_speed, fuel_type
		 FROM ships WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.ShipType, &s.Deadweight, &s.ServiceSpeed, &s.MinSpeed, &s.MaxSpeed, &s.FuelType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ship %s: %w", id, err)
	}

	return &s, nil
}
