package matching

import (
	"errors"
	"math"
	"testing"

	"github.com/kozaktomas/profile-finder/internal/database"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreIdentity(t *testing.T) {
	tests := []struct {
		name       string
		queryName  string
		queryAge   int
		candName   string
		candAge    int
		wantScore  bool
		confidence float64
		nameSim    float64
		ageSim     float64
	}{
		{
			name:      "exact match",
			queryName: "Sam", queryAge: 30,
			candName: "Sam", candAge: 30,
			wantScore: true, confidence: 1.0, nameSim: 1.0, ageSim: 1.0,
		},
		{
			name:      "case insensitive name",
			queryName: "sam", queryAge: 30,
			candName: "SAM", candAge: 30,
			wantScore: true, confidence: 1.0, nameSim: 1.0, ageSim: 1.0,
		},
		{
			name:      "one year older",
			queryName: "Sam", queryAge: 30,
			candName: "Sam", candAge: 31,
			wantScore:  true,
			nameSim:    1.0,
			ageSim:     1.0 - 1.0/31.0,
			confidence: (1.0 + (1.0 - 1.0/31.0)) / 2,
		},
		{
			name:      "one year younger",
			queryName: "Sam", queryAge: 30,
			candName: "Sam", candAge: 29,
			wantScore:  true,
			nameSim:    1.0,
			ageSim:     1.0 - 1.0/30.0,
			confidence: (1.0 + (1.0 - 1.0/30.0)) / 2,
		},
		{
			name:      "different name ineligible",
			queryName: "Sam", queryAge: 30,
			candName: "Samantha", candAge: 30,
			wantScore: false,
		},
		{
			name:      "age gap too large",
			queryName: "Sam", queryAge: 30,
			candName: "Sam", candAge: 33,
			wantScore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Query{Name: tt.queryName, Age: tt.queryAge}
			candidate := &database.Profile{Name: tt.candName, Age: tt.candAge}

			score, err := ScoreIdentity(q, candidate)
			if err != nil {
				t.Fatalf("ScoreIdentity() error = %v", err)
			}
			if !tt.wantScore {
				if score != nil {
					t.Fatalf("expected ineligible candidate, got score %+v", score)
				}
				return
			}
			if score == nil {
				t.Fatal("expected a score, got nil")
			}
			if !almostEqual(score.Confidence, tt.confidence) {
				t.Errorf("Confidence = %v, want %v", score.Confidence, tt.confidence)
			}
			if !almostEqual(score.NameSimilarity, tt.nameSim) {
				t.Errorf("NameSimilarity = %v, want %v", score.NameSimilarity, tt.nameSim)
			}
			if !almostEqual(score.AgeSimilarity, tt.ageSim) {
				t.Errorf("AgeSimilarity = %v, want %v", score.AgeSimilarity, tt.ageSim)
			}
		})
	}
}

func TestScoreIdentityDegenerate(t *testing.T) {
	q := &Query{Name: "", Age: 0}
	candidate := &database.Profile{Name: "", Age: 0}

	_, err := ScoreIdentity(q, candidate)
	var degenerate *DegenerateInputError
	if !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateInputError, got %v", err)
	}
}

func TestPreferCandidate(t *testing.T) {
	q := &Query{Name: "Sam", Age: 30}

	closerName := &database.Profile{Name: "Sam", Age: 31}
	fartherName := &database.Profile{Name: "Sami", Age: 30}
	if !preferCandidate(q, closerName, fartherName) {
		t.Error("expected closer name length to win")
	}

	closerAge := &database.Profile{Name: "Sam", Age: 30}
	fartherAge := &database.Profile{Name: "Sam", Age: 31}
	if !preferCandidate(q, closerAge, fartherAge) {
		t.Error("expected closer age to break the tie")
	}
}
