package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/nischala755/navix-ai/internal/database"
)

const schemaVersion = 1

// Store is a SQLite-based data store implementing database.DataStore
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	portRepo       database.PortRepository
	shipRepo       database.ShipRepository
	voyageRepo     database.VoyageRepository
	routeCacheRepo database.RouteCacheRepository
}

// New creates a new SQLite store at the specified path, applying the schema
// and seeding reference data on first run
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	log.Printf("Opening SQLite database at: %s", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	store.portRepo = &portRepository{store: store}
	store.shipRepo = &shipRepository{store: store}
	store.voyageRepo = &voyageRepository{store: store}
	store.routeCacheRepo = &routeCacheRepository{store: store}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := store.seedReferenceData(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_info (
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ports (
		locode TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country_code TEXT NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		is_major INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS ships (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		ship_type TEXT NOT NULL,
		deadweight REAL NOT NULL,
		service_speed REAL NOT NULL,
		min_speed REAL NOT NULL,
		max_speed REAL NOT NULL,
		fuel_type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS voyages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		origin_locode TEXT NOT NULL,
		destination_locode TEXT NOT NULL,
		ship_id TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		status TEXT NOT NULL,
		solutions_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS route_cache (
		job_id TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		cached_at TIMESTAMP NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM schema_info`).Scan(&count); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if count == 0 {
		if _, err := s.db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// HealthCheck verifies the database is reachable
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Ports returns the port repository
func (s *Store) Ports() database.PortRepository { return s.portRepo }

// Ships returns the ship repository
func (s *Store) Ships() database.ShipRepository { return s.shipRepo }

// Voyages returns the voyage repository
func (s *Store) Voyages() database.VoyageRepository { return s.voyageRepo }

// RouteCache returns the route cache repository
func (s *Store) RouteCache() database.RouteCacheRepository { return s.routeCacheRepo }
