package database

import (
	"context"
)

// ProfileReader provides read-only access to stored profiles
type ProfileReader interface {
	// Get retrieves a profile by ID, returns nil if not found
	Get(ctx context.Context, id string) (*Profile, error)
	// FindByLocation returns all profiles scraped from the given city and country.
	// Results are returned in a stable order (oldest scraped first).
	FindByLocation(ctx context.Context, city, country string) ([]Profile, error)
	// ListAll returns every stored profile
	ListAll(ctx context.Context) ([]Profile, error)
	// ListMissingEmbeddings returns profiles that have no face embedding yet
	ListMissingEmbeddings(ctx context.Context) ([]Profile, error)
	// Count returns the total number of profiles stored
	Count(ctx context.Context) (int, error)
}

// ProfileWriter provides write access to profiles
type ProfileWriter interface {
	ProfileReader

	// SaveProfile stores a profile (insert or replace by ID)
	SaveProfile(ctx context.Context, profile *Profile) error
	// SaveEmbedding persists a computed face embedding for a profile
	SaveEmbedding(ctx context.Context, id string, embedding []float32) error
	// DeleteProfile removes a profile by ID
	DeleteProfile(ctx context.Context, id string) error
}

// LocationWriter provides access to the scraped locations table
type LocationWriter interface {
	// ListLocations returns all known scrape locations
	ListLocations(ctx context.Context) ([]Location, error)
	// UpsertLocation inserts a location or refreshes its last-scraped time
	UpsertLocation(ctx context.Context, loc *Location) error
}

// Store combines profile and location access into one backend surface
type Store interface {
	ProfileWriter
	LocationWriter

	// Close releases the underlying database resources
	Close() error
}
