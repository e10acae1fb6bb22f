package database

import (
	"time"
)

// EmbeddingDim is the dimensionality of face embeddings stored on profiles.
const EmbeddingDim = 128

// Profile represents a scraped profile record stored in the database
type Profile struct {
	ID                 string
	Name               string
	Age                int
	Bio                string
	Gender             string
	Photos             []string // ordered photo URLs, first is the primary photo
	Passions           []string
	Education          string
	JobTitle           string
	Location           string // free-text location shown on the profile
	ScrapedFromCity    string
	ScrapedFromCountry string
	Embedding          []float32 // 128-dim face embedding, nil until computed
	Source             string
	ScrapedAt          time.Time
	CreatedAt          time.Time
}

// HasEmbedding reports whether a usable face embedding is stored on the profile.
func (p *Profile) HasEmbedding() bool {
	return len(p.Embedding) == EmbeddingDim
}

// Location represents a city/country pair that has been scraped
type Location struct {
	ID          int64
	City        string
	Country     string
	Latitude    string
	Longitude   string
	LastScraped time.Time
}
