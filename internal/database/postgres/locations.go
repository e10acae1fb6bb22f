package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/profile-finder/internal/database"
)

// ListLocations returns all known scrape locations
func (s *Store) ListLocations(ctx context.Context) ([]database.Location, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, city, country, latitude, longitude, last_scraped
		FROM locations
		ORDER BY country, city
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []database.Location
	for rows.Next() {
		var loc database.Location
		if err := rows.Scan(&loc.ID, &loc.City, &loc.Country, &loc.Latitude, &loc.Longitude, &loc.LastScraped); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return locations, nil
}

// UpsertLocation inserts a location or refreshes its last-scraped time
func (s *Store) UpsertLocation(ctx context.Context, loc *database.Location) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO locations (city, country, latitude, longitude, last_scraped)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (city, country) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			last_scraped = NOW()
	`, loc.City, loc.Country, loc.Latitude, loc.Longitude)
	if err != nil {
		return fmt.Errorf("upsert location: %w", err)
	}
	return nil
}
