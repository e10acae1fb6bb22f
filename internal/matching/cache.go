package matching

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/kozaktomas/profile-finder/internal/database"
)

// embeddingCache memoizes candidate embedding resolution for one search
// session. Each candidate gets at most one extraction attempt sequence no
// matter how many times resolve is called; computed vectors are written back
// to the store on a best-effort basis.
type embeddingCache struct {
	extractor Extractor
	fetcher   ImageFetcher
	store     database.ProfileWriter
	warnings  io.Writer

	mu        sync.Mutex
	vectors   map[string][]float32
	attempted map[string]bool
}

func newEmbeddingCache(extractor Extractor, fetcher ImageFetcher, store database.ProfileWriter, warnings io.Writer) *embeddingCache {
	return &embeddingCache{
		extractor: extractor,
		fetcher:   fetcher,
		store:     store,
		warnings:  warnings,
		vectors:   make(map[string][]float32),
		attempted: make(map[string]bool),
	}
}

// resolve returns the candidate's face embedding, computing it from the
// candidate's photos when the store holds none. Returns nil when no photo
// yields a face; such candidates are excluded from similarity results for
// this session only.
func (c *embeddingCache) resolve(ctx context.Context, candidate *database.Profile) []float32 {
	if candidate.HasEmbedding() {
		return candidate.Embedding
	}

	c.mu.Lock()
	if c.attempted[candidate.ID] {
		vec := c.vectors[candidate.ID]
		c.mu.Unlock()
		return vec
	}
	c.attempted[candidate.ID] = true
	c.mu.Unlock()

	vec := c.extractFromPhotos(ctx, candidate)
	if vec == nil {
		return nil
	}

	c.mu.Lock()
	c.vectors[candidate.ID] = vec
	c.mu.Unlock()

	// Write-back is an optimization; the search works without persistence.
	if err := c.store.SaveEmbedding(ctx, candidate.ID, vec); err != nil {
		c.warnf("Warning: could not persist embedding for profile %s: %v\n", candidate.ID, err)
	}

	return vec
}

// extractFromPhotos tries the candidate's photos in order and returns the
// first embedding found. Per-photo failures are recoverable.
func (c *embeddingCache) extractFromPhotos(ctx context.Context, candidate *database.Profile) []float32 {
	for i, photo := range candidate.Photos {
		img, err := c.fetcher.Fetch(ctx, photo)
		if err != nil {
			c.warnf("Warning: photo %d/%d of profile %s: fetch failed: %v\n", i+1, len(candidate.Photos), candidate.ID, err)
			continue
		}

		vec, err := c.extractor.ExtractFace(ctx, img)
		if err != nil {
			c.warnf("Warning: photo %d/%d of profile %s: %v\n", i+1, len(candidate.Photos), candidate.ID, err)
			continue
		}
		return vec
	}
	return nil
}

func (c *embeddingCache) warnf(format string, args ...any) {
	if c.warnings != nil {
		fmt.Fprintf(c.warnings, format, args...)
	}
}
