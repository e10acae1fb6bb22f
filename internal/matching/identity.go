package matching

import (
	"github.com/kozaktomas/profile-finder/internal/database"
)

// IdentityScore is the breakdown of a fuzzy name/age comparison.
type IdentityScore struct {
	Confidence     float64
	NameSimilarity float64
	AgeSimilarity  float64
}

// ScoreIdentity compares a candidate profile against the query by name and
// age. Candidates whose name does not match case-insensitively or whose age
// differs by more than one year are ineligible and yield (nil, nil).
func ScoreIdentity(q *Query, candidate *database.Profile) (*IdentityScore, error) {
	if NormalizeName(candidate.Name) != NormalizeName(q.Name) {
		return nil, nil
	}
	if absInt(candidate.Age-q.Age) > 1 {
		return nil, nil
	}

	nameDenom := max(len(candidate.Name), len(q.Name))
	ageDenom := max(candidate.Age, q.Age)
	if nameDenom == 0 {
		return nil, &DegenerateInputError{Reason: "empty name"}
	}
	if ageDenom == 0 {
		return nil, &DegenerateInputError{Reason: "zero age"}
	}

	nameSim := 1 - float64(absInt(len(candidate.Name)-len(q.Name)))/float64(nameDenom)
	ageSim := 1 - float64(absInt(candidate.Age-q.Age))/float64(ageDenom)

	return &IdentityScore{
		Confidence:     (nameSim + ageSim) / 2,
		NameSimilarity: nameSim,
		AgeSimilarity:  ageSim,
	}, nil
}

// preferCandidate reports whether candidate a beats candidate b for the
// single-best-match selection. Ranking is lexicographic on (name length
// difference, age difference) relative to the query.
func preferCandidate(q *Query, a, b *database.Profile) bool {
	aNameDiff := absInt(len(a.Name) - len(q.Name))
	bNameDiff := absInt(len(b.Name) - len(q.Name))
	if aNameDiff != bNameDiff {
		return aNameDiff < bNameDiff
	}
	return absInt(a.Age-q.Age) < absInt(b.Age-q.Age)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
