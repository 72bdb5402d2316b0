package sqlite

import (
	"fmt"
	"log"

	"github.com/nischala755/navix-ai/internal/models"
)

// Reference data matching the backend's seed set. The backend exposes no
// ports or ships endpoint, so the client ships the same catalog.
var seedPorts = []models.Port{
	{Locode: "SGSIN", Name: "Singapore", CountryCode: "SG", Lat: 1.29, Lng: 103.85, IsMajor: true},
	{Locode: "NLRTM", Name: "Rotterdam", CountryCode: "NL", Lat: 51.95, Lng: 4.48, IsMajor: true},
	{Locode: "CNSHA", Name: "Shanghai", CountryCode: "CN", Lat: 31.23, Lng: 121.47, IsMajor: true},
	{Locode: "AEJEA", Name: "Jebel Ali", CountryCode: "AE", Lat: 25.02, Lng: 55.06, IsMajor: true},
	{Locode: "HKHKG", Name: "Hong Kong", CountryCode: "HK", Lat: 22.32, Lng: 114.17, IsMajor: true},
	{Locode: "KRPUS", Name: "Busan", CountryCode: "KR", Lat: 35.10, Lng: 129.03, IsMajor: true},
	{Locode: "DEHAM", Name: "Hamburg", CountryCode: "DE", Lat: 53.55, Lng: 9.99, IsMajor: true},
	{Locode: "USNYC", Name: "New York", CountryCode: "US", Lat: 40.71, Lng: -74.01, IsMajor: true},
	{Locode: "USLAX", Name: "Los Angeles", CountryCode: "US", Lat: 33.74, Lng: -118.26, IsMajor: true},
	{Locode: "JPYOK", Name: "Yokohama", CountryCode: "JP", Lat: 35.44, Lng: 139.64, IsMajor: true},
	{Locode: "TWKHH", Name: "Kaohsiung", CountryCode: "TW", Lat: 22.62, Lng: 120.30, IsMajor: true},
	{Locode: "MYPKG", Name: "Port Klang", CountryCode: "MY", Lat: 3.00, Lng: 101.40, IsMajor: true},
	{Locode: "EGPSD", Name: "Port Said", CountryCode: "EG", Lat: 31.26, Lng: 32.30, IsMajor: true},
	{Locode: "GBFXT", Name: "Felixstowe", CountryCode: "GB", Lat: 51.95, Lng: 1.35, IsMajor: true},
	{Locode: "ESALG", Name: "Algeciras", CountryCode: "ES", Lat: 36.13, Lng: -5.45, IsMajor: true},
}

var seedShips = []models.Ship{
	{ID: "container_large", Name: "Ever Forward", ShipType: "container", Deadweight: 200000, ServiceSpeed: 20, MinSpeed: 10, MaxSpeed: 25, FuelType: "VLSFO"},
	{ID: "tanker_vlcc", Name: "Sea Champion", ShipType: "tanker", Deadweight: 300000, ServiceSpeed: 13, MinSpeed: 8, MaxSpeed: 16, FuelType: "VLSFO"},
	{ID: "bulk_capesize", Name: "Ocean Giant", ShipType: "bulk_carrier", Deadweight: 180000, ServiceSpeed: 14, MinSpeed: 9, MaxSpeed: 16, FuelType: "VLSFO"},
}

func (s *Store) seedReferenceData() error {
	var portCount int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ports`).Scan(&portCount); err != nil {
		return fmt.Errorf("failed to count ports: %w", err)
	}
	if portCount == 0 {
		log.Printf("Seeding %d ports", len(seedPorts))
		for _, p := range seedPorts {
			_, err := s.db.Exec(
				`INSERT INTO ports (locode, name, country_code, lat, lng, is_major) VALUES (?, ?, ?, ?, ?, ?)`,
				p.Locode, p.Name, p.CountryCode, p.Lat, p.Lng, p.IsMajor,
			)
			if err != nil {
				return fmt.Errorf("failed to seed port %s: %w", p.Locode, err)
			}
		}
	}

	var shipCount int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ships`).Scan(&shipCount); err != nil {
		return fmt.Errorf("failed to count ships: %w", err)
	}
	if shipCount == 0 {
		log.Printf("Seeding %d ship profiles", len(seedShips))
		for _, sh := range seedShips {
			_, err := s.db.Exec(
				`INSERT INTO ships (id, name, ship_type, deadweight, service_speed, min_speed, max_speed, fuel_type)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				sh.ID, sh.Name, sh.ShipType, sh.Deadweight, sh.ServiceSpeed, sh.MinSpeed, sh.MaxSpeed, sh.FuelType,
			)
			if err != nil {
				return fmt.Errorf("failed to seed ship %s: %w", sh.ID, err)
			}
		}
	}

	return nil
}
