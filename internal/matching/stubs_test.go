package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kozaktomas/profile-finder/internal/database"
)

// testVec builds a 128-dim embedding with the first component set. Distance
// to the zero vector is exactly |first|.
func testVec(first float32) []float32 {
	v := make([]float32, database.EmbeddingDim)
	v[0] = first
	return v
}

// stubFetcher serves image bytes from an in-memory map.
type stubFetcher struct {
	files map[string][]byte
}

func (f *stubFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	data, ok := f.files[ref]
	if !ok {
		return nil, fmt.Errorf("not found: %s", ref)
	}
	return data, nil
}

// stubExtractor maps image bytes to embeddings and counts invocations.
type stubExtractor struct {
	mu        sync.Mutex
	embeddings map[string][]float32
	calls     int
}

var errStubNoFace = errors.New("no face detected")

func (e *stubExtractor) ExtractFace(ctx context.Context, image []byte) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	vec, ok := e.embeddings[string(image)]
	if !ok {
		return nil, errStubNoFace
	}
	return vec, nil
}

func (e *stubExtractor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
