package matching

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/profile-finder/internal/database"
)

func TestEncodeMatchIdentity(t *testing.T) {
	m := Match{
		Profile: &database.Profile{
			Name:               "Sam",
			Age:                30,
			ScrapedFromCity:    "Delhi",
			ScrapedFromCountry: "India",
			JobTitle:           "Engineer",
			ScrapedAt:          time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
			Source:             "tinder",
		},
		Mode:           ModeIdentity,
		Confidence:     0.98,
		NameSimilarity: 1.0,
		AgeSimilarity:  0.96,
	}

	data, err := json.Marshal(EncodeMatch(&m))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)

	for _, want := range []string{`"confidence":0.98`, `"name_similarity":1`, `"age_similarity":0.96`, `"scraped_at":"2026-01-15T10:00:00Z"`} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %s: %s", want, s)
		}
	}
	if strings.Contains(s, "similarity_score") {
		t.Errorf("identity match must not carry similarity_score: %s", s)
	}
}

func TestEncodeMatchSimilarity(t *testing.T) {
	m := Match{
		Profile: &database.Profile{
			Name:               "Sam",
			Age:                30,
			ScrapedFromCity:    "Delhi",
			ScrapedFromCountry: "India",
			ScrapedAt:          time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
			Source:             "tinder",
		},
		Mode:           ModeSimilarity,
		Confidence:     0.92,
		FaceSimilarity: 0.92,
	}

	data, err := json.Marshal(EncodeMatch(&m))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)

	if !strings.Contains(s, `"similarity_score":0.92`) {
		t.Errorf("output missing similarity_score: %s", s)
	}
	for _, forbidden := range []string{"confidence", "name_similarity", "age_similarity"} {
		if strings.Contains(s, forbidden) {
			t.Errorf("similarity match must not carry %s: %s", forbidden, s)
		}
	}
}

func TestEncodeMatchesEmpty(t *testing.T) {
	out := EncodeMatches(nil)
	if out == nil {
		t.Fatal("EncodeMatches(nil) must return an empty slice, not nil")
	}
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("marshaled empty matches = %s, want []", data)
	}
}
