package matching

import (
	"errors"
	"testing"
)

func TestSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := testVec(0.5)
		sim, err := Similarity(v, v)
		if err != nil {
			t.Fatalf("Similarity() error = %v", err)
		}
		if !almostEqual(sim, 1.0) {
			t.Errorf("Similarity = %v, want 1.0", sim)
		}
	})

	t.Run("known distance", func(t *testing.T) {
		sim, err := Similarity(testVec(0), testVec(0.25))
		if err != nil {
			t.Fatalf("Similarity() error = %v", err)
		}
		if !almostEqual(sim, 0.75) {
			t.Errorf("Similarity = %v, want 0.75", sim)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a, b := testVec(0.1), testVec(0.4)
		simAB, err := Similarity(a, b)
		if err != nil {
			t.Fatal(err)
		}
		simBA, err := Similarity(b, a)
		if err != nil {
			t.Fatal(err)
		}
		if !almostEqual(simAB, simBA) {
			t.Errorf("Similarity not symmetric: %v vs %v", simAB, simBA)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := Similarity(testVec(0), []float32{1, 2, 3})
		var mismatch *DimensionMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected DimensionMismatchError, got %v", err)
		}
	})

	t.Run("empty vectors", func(t *testing.T) {
		_, err := Similarity(nil, nil)
		var mismatch *DimensionMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected DimensionMismatchError, got %v", err)
		}
	})
}
