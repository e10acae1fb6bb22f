// Package bolt implements the profile store on an embedded bbolt database.
// It lets the tool run without a PostgreSQL instance.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/kozaktomas/profile-finder/internal/database"
)

var (
	bucketProfiles  = []byte("profiles")
	bucketLocations = []byte("locations")
)

// Store implements database.Store on a single bbolt file.
type Store struct {
	db *bbolt.DB
}

// NewStore opens (or creates) the bbolt database at path.
func NewStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketProfiles, bucketLocations} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying bbolt file.
func (s *Store) Close() error {
	return s.db.Close()
}

type profileRecord struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Age                int       `json:"age"`
	Bio                string    `json:"bio,omitempty"`
	Gender             string    `json:"gender,omitempty"`
	Photos             []string  `json:"photos"`
	Passions           []string  `json:"passions,omitempty"`
	Education          string    `json:"education,omitempty"`
	JobTitle           string    `json:"job_title,omitempty"`
	Location           string    `json:"location,omitempty"`
	ScrapedFromCity    string    `json:"scraped_from_city"`
	ScrapedFromCountry string    `json:"scraped_from_country"`
	Embedding          []float32 `json:"embedding,omitempty"`
	Source             string    `json:"source"`
	ScrapedAt          time.Time `json:"scraped_at"`
	CreatedAt          time.Time `json:"created_at"`
}

func toRecord(p *database.Profile) profileRecord {
	return profileRecord(*p)
}

func fromRecord(r *profileRecord) database.Profile {
	return database.Profile(*r)
}

// Get retrieves a profile by ID, returns nil if not found
func (s *Store) Get(ctx context.Context, id string) (*database.Profile, error) {
	var profile *database.Profile
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketProfiles).Get([]byte(id))
		if data == nil {
			return nil
		}
		var rec profileRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decode profile %s: %w", id, err)
		}
		p := fromRecord(&rec)
		profile = &p
		return nil
	})
	return profile, err
}

// forEachProfile iterates all stored profiles, appending those accepted by
// the filter.
func (s *Store) forEachProfile(filter func(*database.Profile) bool) ([]database.Profile, error) {
	var profiles []database.Profile
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProfiles).ForEach(func(k, v []byte) error {
			var rec profileRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode profile %s: %w", k, err)
			}
			p := fromRecord(&rec)
			if filter == nil || filter(&p) {
				profiles = append(profiles, p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if !profiles[i].ScrapedAt.Equal(profiles[j].ScrapedAt) {
			return profiles[i].ScrapedAt.Before(profiles[j].ScrapedAt)
		}
		return profiles[i].ID < profiles[j].ID
	})
	return profiles, nil
}

// FindByLocation returns profiles scraped from the given city and country,
// oldest scraped first.
func (s *Store) FindByLocation(ctx context.Context, city, country string) ([]database.Profile, error) {
	return s.forEachProfile(func(p *database.Profile) bool {
		return p.ScrapedFromCity == city && p.ScrapedFromCountry == country
	})
}

// ListAll returns every stored profile
func (s *Store) ListAll(ctx context.Context) ([]database.Profile, error) {
	return s.forEachProfile(nil)
}

// ListMissingEmbeddings returns profiles without a face embedding
func (s *Store) ListMissingEmbeddings(ctx context.Context) ([]database.Profile, error) {
	return s.forEachProfile(func(p *database.Profile) bool {
		return !p.HasEmbedding()
	})
}

// Count returns the total number of profiles stored
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketProfiles).Stats().KeyN
		return nil
	})
	return count, err
}

// SaveProfile stores a profile (insert or replace by ID)
func (s *Store) SaveProfile(ctx context.Context, profile *database.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(toRecord(profile))
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProfiles).Put([]byte(profile.ID), data)
	})
}

// SaveEmbedding persists a computed face embedding for a profile
func (s *Store) SaveEmbedding(ctx context.Context, id string, embedding []float32) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketProfiles)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("profile not found: %s", id)
		}
		var rec profileRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decode profile %s: %w", id, err)
		}
		rec.Embedding = embedding
		updated, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode profile %s: %w", id, err)
		}
		return b.Put([]byte(id), updated)
	})
}

// DeleteProfile removes a profile by ID
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProfiles).Delete([]byte(id))
	})
}

type locationRecord struct {
	ID          int64     `json:"id"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Latitude    string    `json:"latitude,omitempty"`
	Longitude   string    `json:"longitude,omitempty"`
	LastScraped time.Time `json:"last_scraped"`
}

func locationKey(city, country string) []byte {
	return []byte(strings.ToLower(city) + "|" + strings.ToLower(country))
}

// ListLocations returns all known scrape locations
func (s *Store) ListLocations(ctx context.Context) ([]database.Location, error) {
	var locations []database.Location
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLocations).ForEach(func(k, v []byte) error {
			var rec locationRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode location %s: %w", k, err)
			}
			locations = append(locations, database.Location(rec))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(locations, func(i, j int) bool {
		if locations[i].Country != locations[j].Country {
			return locations[i].Country < locations[j].Country
		}
		return locations[i].City < locations[j].City
	})
	return locations, nil
}

// UpsertLocation inserts a location or refreshes its last-scraped time
func (s *Store) UpsertLocation(ctx context.Context, loc *database.Location) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketLocations)
		key := locationKey(loc.City, loc.Country)

		rec := locationRecord{
			City:        loc.City,
			Country:     loc.Country,
			Latitude:    loc.Latitude,
			Longitude:   loc.Longitude,
			LastScraped: time.Now().UTC(),
		}

		if existing := b.Get(key); existing != nil {
			var prev locationRecord
			if err := json.Unmarshal(existing, &prev); err == nil {
				rec.ID = prev.ID
			}
		}
		if rec.ID == 0 {
			seq, err := b.NextSequence()
			if err != nil {
				return fmt.Errorf("next location id: %w", err)
			}
			rec.ID = int64(seq)
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode location: %w", err)
		}
		return b.Put(key, data)
	})
}
