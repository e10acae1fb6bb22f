package matching

import (
	"time"

	"github.com/kozaktomas/profile-finder/internal/database"
)

// Mode identifies which matching strategy produced a result.
type Mode string

const (
	ModeIdentity   Mode = "identity"
	ModeSimilarity Mode = "similarity"
)

// Match references a candidate profile together with its score breakdown.
// Matches are created fresh per search and never persisted.
type Match struct {
	Profile    *database.Profile
	Mode       Mode
	Confidence float64

	// Breakdown; identity matches fill the name/age pair, similarity
	// matches fill FaceSimilarity.
	NameSimilarity float64
	AgeSimilarity  float64
	FaceSimilarity float64
}

// MatchJSON is the wire representation of a match result.
type MatchJSON struct {
	Name            string   `json:"name"`
	Age             int      `json:"age"`
	City            string   `json:"city"`
	Country         string   `json:"country"`
	Job             string   `json:"job,omitempty"`
	Education       string   `json:"education,omitempty"`
	Photos          []string `json:"photos"`
	Passions        []string `json:"passions"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	Confidence      *float64 `json:"confidence,omitempty"`
	NameSimilarity  *float64 `json:"name_similarity,omitempty"`
	AgeSimilarity   *float64 `json:"age_similarity,omitempty"`
	ScrapedAt       string   `json:"scraped_at"`
	Source          string   `json:"source"`
}

// EncodeMatch converts a match into its wire representation.
func EncodeMatch(m *Match) MatchJSON {
	p := m.Profile
	out := MatchJSON{
		Name:      p.Name,
		Age:       p.Age,
		City:      p.ScrapedFromCity,
		Country:   p.ScrapedFromCountry,
		Job:       p.JobTitle,
		Education: p.Education,
		Photos:    p.Photos,
		Passions:  p.Passions,
		ScrapedAt: p.ScrapedAt.Format(time.RFC3339),
		Source:    p.Source,
	}

	switch m.Mode {
	case ModeSimilarity:
		score := m.FaceSimilarity
		out.SimilarityScore = &score
	case ModeIdentity:
		conf := m.Confidence
		nameSim := m.NameSimilarity
		ageSim := m.AgeSimilarity
		out.Confidence = &conf
		out.NameSimilarity = &nameSim
		out.AgeSimilarity = &ageSim
	}

	return out
}

// EncodeMatches converts a ranked match list into its wire representation.
func EncodeMatches(matches []Match) []MatchJSON {
	out := make([]MatchJSON, 0, len(matches))
	for i := range matches {
		out = append(out, EncodeMatch(&matches[i]))
	}
	return out
}
