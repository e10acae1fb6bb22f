package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/profile-finder/internal/database"
)

const profileColumns = `id, name, age, bio, gender, photos, passions, education,
	job_title, location, scraped_from_city, scraped_from_country, embedding,
	source, scraped_at, created_at`

// scanProfile scans one profile row; embedding NULL maps to a nil slice.
func scanProfile(row interface{ Scan(...any) error }) (*database.Profile, error) {
	var p database.Profile
	var vec sql.Null[pgvector.Vector]

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Age,
		&p.Bio,
		&p.Gender,
		pq.Array(&p.Photos),
		pq.Array(&p.Passions),
		&p.Education,
		&p.JobTitle,
		&p.Location,
		&p.ScrapedFromCity,
		&p.ScrapedFromCountry,
		&vec,
		&p.Source,
		&p.ScrapedAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if vec.Valid {
		p.Embedding = vec.V.Slice()
	}
	return &p, nil
}

// collectProfiles drains a result set into a profile slice.
func collectProfiles(rows *sql.Rows) ([]database.Profile, error) {
	defer rows.Close()

	var profiles []database.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

// Get retrieves a profile by ID, returns nil if not found
func (s *Store) Get(ctx context.Context, id string) (*database.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE id = $1", profileColumns)

	p, err := scanProfile(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// FindByLocation returns profiles scraped from the given city and country,
// oldest scraped first.
func (s *Store) FindByLocation(ctx context.Context, city, country string) ([]database.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM profiles
		WHERE scraped_from_city = $1 AND scraped_from_country = $2
		ORDER BY scraped_at, id
	`, profileColumns)

	rows, err := s.pool.Query(ctx, query, city, country)
	if err != nil {
		return nil, err
	}
	return collectProfiles(rows)
}

// ListAll returns every stored profile
func (s *Store) ListAll(ctx context.Context) ([]database.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM profiles ORDER BY scraped_at, id", profileColumns)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectProfiles(rows)
}

// ListMissingEmbeddings returns profiles without a face embedding
func (s *Store) ListMissingEmbeddings(ctx context.Context) ([]database.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE embedding IS NULL ORDER BY scraped_at, id", profileColumns)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectProfiles(rows)
}

// Count returns the total number of profiles stored
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM profiles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return count, nil
}

// SaveProfile stores a profile (insert or replace by ID)
func (s *Store) SaveProfile(ctx context.Context, profile *database.Profile) error {
	query := `
		INSERT INTO profiles (id, name, age, bio, gender, photos, passions,
			education, job_title, location, scraped_from_city,
			scraped_from_country, embedding, source, scraped_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			bio = EXCLUDED.bio,
			gender = EXCLUDED.gender,
			photos = EXCLUDED.photos,
			passions = EXCLUDED.passions,
			education = EXCLUDED.education,
			job_title = EXCLUDED.job_title,
			location = EXCLUDED.location,
			scraped_from_city = EXCLUDED.scraped_from_city,
			scraped_from_country = EXCLUDED.scraped_from_country,
			embedding = EXCLUDED.embedding,
			source = EXCLUDED.source,
			scraped_at = EXCLUDED.scraped_at
	`

	var vec any
	if profile.HasEmbedding() {
		vec = pgvector.NewVector(profile.Embedding)
	}

	_, err := s.pool.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.Age,
		profile.Bio,
		profile.Gender,
		pq.Array(profile.Photos),
		pq.Array(profile.Passions),
		profile.Education,
		profile.JobTitle,
		profile.Location,
		profile.ScrapedFromCity,
		profile.ScrapedFromCountry,
		vec,
		profile.Source,
		profile.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// SaveEmbedding persists a computed face embedding for a profile
func (s *Store) SaveEmbedding(ctx context.Context, id string, embedding []float32) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE profiles SET embedding = $1 WHERE id = $2",
		pgvector.NewVector(embedding), id)
	if err != nil {
		return fmt.Errorf("save embedding: %w", err)
	}
	return nil
}

// DeleteProfile removes a profile by ID
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM profiles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
