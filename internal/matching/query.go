package matching

import (
	"encoding/json"
	"fmt"
)

// Query describes the person being searched for. Immutable once constructed;
// one Query is built per search request.
type Query struct {
	Name    string
	Age     int
	City    string
	Country string

	// Image is the path or URL of the reference photo. When empty the search
	// runs in identity-only mode.
	Image string

	// Optional narrowing filters for similarity search.
	AgeMin       *int
	AgeMax       *int
	CityOnly     bool
	NameContains string
}

// queryJSON accepts both the flat and the nested-location wire shapes.
type queryJSON struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Location *struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
	Image        string `json:"image"`
	AgeMin       *int   `json:"age_min"`
	AgeMax       *int   `json:"age_max"`
	CityOnly     bool   `json:"city_only"`
	NameContains string `json:"name_contains"`
}

// ParseQuery decodes a query JSON document into a canonical Query. Both the
// flat shape and the nested {"location": {...}} shape are accepted. Missing
// required fields fail with a ValidationError before any store access.
func ParseQuery(data []byte) (*Query, error) {
	var raw queryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid query document: %w", err)
	}

	city := raw.City
	country := raw.Country
	if raw.Location != nil {
		city = raw.Location.City
		country = raw.Location.Country
	}

	q := &Query{
		Name:         raw.Name,
		Age:          raw.Age,
		City:         city,
		Country:      country,
		Image:        raw.Image,
		AgeMin:       raw.AgeMin,
		AgeMax:       raw.AgeMax,
		CityOnly:     raw.CityOnly,
		NameContains: raw.NameContains,
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks the required fields. The reference image is optional; its
// absence selects identity-only matching.
func (q *Query) Validate() error {
	var missing []string
	if q.Name == "" {
		missing = append(missing, "name")
	}
	if q.Age <= 0 {
		missing = append(missing, "age")
	}
	if q.City == "" {
		missing = append(missing, "city")
	}
	if q.Country == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
