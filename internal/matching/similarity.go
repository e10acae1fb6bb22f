package matching

import (
	"github.com/kozaktomas/profile-finder/internal/database"
)

// EmbeddingDim is the required length of comparable face embeddings.
const EmbeddingDim = database.EmbeddingDim

// Similarity converts the Euclidean distance between two face embeddings into
// a similarity score (1 - distance). The result is not clamped; callers apply
// the inclusion threshold. Both vectors must have exactly EmbeddingDim
// components.
func Similarity(a, b []float32) (float64, error) {
	if len(a) != EmbeddingDim || len(b) != EmbeddingDim {
		return 0, &DimensionMismatchError{LenA: len(a), LenB: len(b)}
	}
	return 1 - database.EuclideanDistance(a, b), nil
}
