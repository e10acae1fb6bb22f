package database

import (
	"errors"
	"sync"

	"github.com/coder/hnsw"
)

// HNSWMaxNeighbors is the M parameter of the HNSW graph.
const HNSWMaxNeighbors = 16

// ProfileIndex wraps an HNSW graph over profile face embeddings for fast
// nearest-neighbor search across the whole store.
type ProfileIndex struct {
	graph       *hnsw.Graph[string]
	idToProfile map[string]*Profile
	mu          sync.RWMutex
}

// NewProfileIndex creates a new empty profile index.
func NewProfileIndex() *ProfileIndex {
	return &ProfileIndex{
		idToProfile: make(map[string]*Profile),
	}
}

// Build populates the index from a slice of profiles. Profiles without an
// embedding are skipped.
func (idx *ProfileIndex) Build(profiles []Profile) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	g := hnsw.NewGraph[string]()
	g.M = HNSWMaxNeighbors
	g.Ml = 1.0 / float64(HNSWMaxNeighbors) // standard HNSW formula
	g.Distance = hnsw.EuclideanDistance

	idx.idToProfile = make(map[string]*Profile, len(profiles))

	for i := range profiles {
		p := &profiles[i]
		if !p.HasEmbedding() {
			continue
		}
		g.Add(hnsw.MakeNode(p.ID, p.Embedding))
		idx.idToProfile[p.ID] = p
	}

	idx.graph = g
	return nil
}

// Search returns the k nearest profiles to the query embedding along with
// their Euclidean distances.
func (idx *ProfileIndex) Search(query []float32, k int) ([]*Profile, []float64, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph == nil {
		return nil, nil, errors.New("index not built")
	}

	neighbors := idx.graph.Search(query, k)

	profiles := make([]*Profile, 0, len(neighbors))
	distances := make([]float64, 0, len(neighbors))
	for _, n := range neighbors {
		p := idx.idToProfile[n.Key]
		if p == nil {
			continue
		}
		profiles = append(profiles, p)
		distances = append(distances, EuclideanDistance(query, n.Value))
	}

	return profiles, distances, nil
}

// Count returns the number of indexed profiles.
func (idx *ProfileIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.idToProfile)
}
