package matching

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoFaceInQueryImage is returned when no face embedding can be extracted
// from the query's reference image. Fatal for similarity search.
var ErrNoFaceInQueryImage = errors.New("no detectable face in query image")

// ValidationError reports required query fields that are missing or malformed.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// DegenerateInputError reports query or candidate values that would force a
// division by zero in ratio-based scoring (empty name, zero age).
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input: %s", e.Reason)
}

// DimensionMismatchError reports embeddings that are not comparable. This is a
// contract violation between components, not a user-facing condition.
type DimensionMismatchError struct {
	LenA, LenB int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: %d vs %d (want %d)", e.LenA, e.LenB, EmbeddingDim)
}

// StoreQueryError wraps a failed profile store query. Fatal for the search.
type StoreQueryError struct {
	Err error
}

func (e *StoreQueryError) Error() string {
	return fmt.Sprintf("profile store query failed: %v", e.Err)
}

func (e *StoreQueryError) Unwrap() error {
	return e.Err
}
