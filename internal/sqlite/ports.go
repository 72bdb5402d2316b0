package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nischala755/navix-ai/internal/database"
	"github.com/nischala755/navix-ai/internal/models"
)

type portRepository struct {
	store *Store
}

func (r *portRepository) List(ctx context.Context, search string) ([]models.Port, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT locode, name, country_code, lat, lng, is_major FROM ports`
	args := []any{}
	if search != "" {
		query += ` WHERE name LIKE ? OR locode LIKE ?`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY name`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ports: %w", err)
	}
	defer rows.Close()

	var ports []models.Port
	for rows.Next() {
		var p models.Port
		if err := rows.Scan(&p.Locode, &p.Name, &p.CountryCode, &p.Lat, &p.Lng, &p.IsMajor); err != nil {
			return nil, fmt.Errorf("failed to scan port: %w", err)
		}
		ports = append(ports, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ports: %w", err)
	}

	return ports, nil
}

func (r *portRepository) GetByLocode(ctx context.Context, locode string) (*models.Port, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var p models.Port
	err := r.store.db.QueryRowContext(ctx,
		`SELECT locode, name, country_code, lat, lng, is_major FROM ports WHERE locode = ?`, locode,
	).Scan(&p.Locode, &p.Name, &p.CountryCode, &p.Lat, &p.Lng, &p.IsMajor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get port %s: %w", locode, err)
	}

	return &p, nil
}
