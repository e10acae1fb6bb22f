// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kozaktomas/profile-finder/internal/database"
)

// MockStore is an in-memory implementation of database.Store
type MockStore struct {
	mu        sync.RWMutex
	profiles  map[string]*database.Profile
	locations map[string]*database.Location

	// SaveEmbeddingCalls counts SaveEmbedding invocations
	SaveEmbeddingCalls int

	// Error injection
	GetError           error
	FindError          error
	ListError          error
	CountError         error
	SaveProfileError   error
	SaveEmbeddingError error
	DeleteError        error
	LocationsError     error
}

// NewMockStore creates a new empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		profiles:  make(map[string]*database.Profile),
		locations: make(map[string]*database.Location),
	}
}

// AddProfile adds a profile to the mock store
func (m *MockStore) AddProfile(p database.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = &p
}

// Get retrieves a profile by ID
func (m *MockStore) Get(ctx context.Context, id string) (*database.Profile, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// FindByLocation returns profiles scraped from the given city and country
func (m *MockStore) FindByLocation(ctx context.Context, city, country string) ([]database.Profile, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []database.Profile
	for _, p := range m.profiles {
		if p.ScrapedFromCity == city && p.ScrapedFromCountry == country {
			results = append(results, *p)
		}
	}
	sortProfiles(results)
	return results, nil
}

// ListAll returns every stored profile
func (m *MockStore) ListAll(ctx context.Context) ([]database.Profile, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]database.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		results = append(results, *p)
	}
	sortProfiles(results)
	return results, nil
}

// ListMissingEmbeddings returns profiles without a face embedding
func (m *MockStore) ListMissingEmbeddings(ctx context.Context) ([]database.Profile, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []database.Profile
	for _, p := range m.profiles {
		if !p.HasEmbedding() {
			results = append(results, *p)
		}
	}
	sortProfiles(results)
	return results, nil
}

// Count returns the number of stored profiles
func (m *MockStore) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles), nil
}

// SaveProfile stores a profile
func (m *MockStore) SaveProfile(ctx context.Context, profile *database.Profile) error {
	if m.SaveProfileError != nil {
		return m.SaveProfileError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *profile
	m.profiles[profile.ID] = &cp
	return nil
}

// SaveEmbedding persists a face embedding for a profile
func (m *MockStore) SaveEmbedding(ctx context.Context, id string, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveEmbeddingCalls++
	if m.SaveEmbeddingError != nil {
		return m.SaveEmbeddingError
	}
	if p, ok := m.profiles[id]; ok {
		p.Embedding = append([]float32(nil), embedding...)
	}
	return nil
}

// DeleteProfile removes a profile by ID
func (m *MockStore) DeleteProfile(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, id)
	return nil
}

// ListLocations returns all known scrape locations
func (m *MockStore) ListLocations(ctx context.Context) ([]database.Location, error) {
	if m.LocationsError != nil {
		return nil, m.LocationsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]database.Location, 0, len(m.locations))
	for _, loc := range m.locations {
		results = append(results, *loc)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Country != results[j].Country {
			return results[i].Country < results[j].Country
		}
		return results[i].City < results[j].City
	})
	return results, nil
}

// UpsertLocation inserts or refreshes a location
func (m *MockStore) UpsertLocation(ctx context.Context, loc *database.Location) error {
	if m.LocationsError != nil {
		return m.LocationsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(loc.City) + "|" + strings.ToLower(loc.Country)
	cp := *loc
	m.locations[key] = &cp
	return nil
}

// Close is a no-op for the mock store
func (m *MockStore) Close() error {
	return nil
}

// sortProfiles orders profiles by scrape time, then ID, for deterministic results.
func sortProfiles(profiles []database.Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		if !profiles[i].ScrapedAt.Equal(profiles[j].ScrapedAt) {
			return profiles[i].ScrapedAt.Before(profiles[j].ScrapedAt)
		}
		return profiles[i].ID < profiles[j].ID
	})
}
