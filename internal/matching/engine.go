package matching

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/kozaktomas/profile-finder/internal/database"
)

const (
	// SimilarityThreshold is the minimum face similarity for a candidate to
	// be included in similarity-ranked results (exclusive).
	SimilarityThreshold = 0.6

	// MaxResults bounds the similarity-ranked result list.
	MaxResults = 3

	// resolveWorkers bounds parallel candidate embedding resolution.
	resolveWorkers = 4
)

// Engine runs the staged search funnel over a profile store. One Engine may
// serve concurrent searches; per-session state (the embedding cache) is
// created per call and never shared across requests.
type Engine struct {
	store     database.ProfileWriter
	extractor Extractor
	fetcher   ImageFetcher

	// Warnings receives per-candidate skip notices. Defaults to stderr;
	// set to io.Discard to silence.
	Warnings io.Writer
}

// NewEngine creates a search engine. The extractor and fetcher may be nil if
// only identity searches are run.
func NewEngine(store database.ProfileWriter, extractor Extractor, fetcher ImageFetcher) *Engine {
	return &Engine{
		store:     store,
		extractor: extractor,
		fetcher:   fetcher,
		Warnings:  os.Stderr,
	}
}

// Search dispatches to identity or similarity matching depending on whether
// the query carries a reference image.
func (e *Engine) Search(ctx context.Context, q *Query) ([]Match, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Image == "" {
		return e.SearchIdentity(ctx, q)
	}
	return e.SearchSimilarity(ctx, q)
}

// SearchIdentity runs the identity-only fuzzy match. It returns at most one
// match: the eligible candidate minimizing (name length difference, age
// difference) lexicographically.
func (e *Engine) SearchIdentity(ctx context.Context, q *Query) ([]Match, error) {
	// Ratio-based scoring cannot handle these; refuse before touching the store.
	if q.Name == "" {
		return nil, &DegenerateInputError{Reason: "empty name"}
	}
	if q.Age <= 0 {
		return nil, &DegenerateInputError{Reason: "zero age"}
	}

	candidates, err := e.store.FindByLocation(ctx, q.City, q.Country)
	if err != nil {
		return nil, &StoreQueryError{Err: err}
	}

	var best *database.Profile
	var bestScore *IdentityScore
	for i := range candidates {
		score, err := ScoreIdentity(q, &candidates[i])
		if err != nil {
			e.warnf("Warning: skipping profile %s: %v\n", candidates[i].ID, err)
			continue
		}
		if score == nil {
			continue
		}
		if best == nil || preferCandidate(q, &candidates[i], best) {
			best = &candidates[i]
			bestScore = score
		}
	}

	if best == nil {
		return []Match{}, nil
	}

	return []Match{{
		Profile:        best,
		Mode:           ModeIdentity,
		Confidence:     bestScore.Confidence,
		NameSimilarity: bestScore.NameSimilarity,
		AgeSimilarity:  bestScore.AgeSimilarity,
	}}, nil
}

// SearchSimilarity runs the face-similarity-ranked match. Results are sorted
// by descending similarity (stable with respect to store order) and truncated
// to MaxResults; every result exceeds SimilarityThreshold.
func (e *Engine) SearchSimilarity(ctx context.Context, q *Query) ([]Match, error) {
	candidates, err := e.store.FindByLocation(ctx, q.City, q.Country)
	if err != nil {
		return nil, &StoreQueryError{Err: err}
	}

	candidates = filterCandidates(q, candidates)
	if len(candidates) == 0 {
		return []Match{}, nil
	}

	queryVec, err := e.queryEmbedding(ctx, q)
	if err != nil {
		return nil, err
	}

	vectors := e.resolveAll(ctx, candidates)

	var matches []Match
	for i := range candidates {
		if vectors[i] == nil {
			continue
		}
		sim, err := Similarity(queryVec, vectors[i])
		if err != nil {
			return nil, err
		}
		if sim > SimilarityThreshold {
			matches = append(matches, Match{
				Profile:        &candidates[i],
				Mode:           ModeSimilarity,
				Confidence:     sim,
				FaceSimilarity: sim,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].FaceSimilarity > matches[j].FaceSimilarity
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	if matches == nil {
		matches = []Match{}
	}
	return matches, nil
}

// queryEmbedding extracts the face embedding from the query's reference
// image. Any failure is fatal for the search.
func (e *Engine) queryEmbedding(ctx context.Context, q *Query) ([]float32, error) {
	img, err := e.fetcher.Fetch(ctx, q.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFaceInQueryImage, err)
	}
	vec, err := e.extractor.ExtractFace(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFaceInQueryImage, err)
	}
	return vec, nil
}

// resolveAll resolves candidate embeddings on a bounded worker pool. The
// returned slice is indexed like candidates, so ranking stays deterministic
// regardless of completion order.
func (e *Engine) resolveAll(ctx context.Context, candidates []database.Profile) [][]float32 {
	cache := newEmbeddingCache(e.extractor, e.fetcher, e.store, e.Warnings)
	vectors := make([][]float32, len(candidates))

	sem := make(chan struct{}, resolveWorkers)
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			vectors[i] = cache.resolve(ctx, &candidates[i])
		}(i)
	}
	wg.Wait()

	return vectors
}

// filterCandidates applies the optional pre-embedding narrowing filters:
// name-contains (or exact name when absent), city-only, and age range.
func filterCandidates(q *Query, candidates []database.Profile) []database.Profile {
	var keep []database.Profile
	for _, c := range candidates {
		if q.NameContains != "" {
			if !strings.Contains(NormalizeName(c.Name), NormalizeName(q.NameContains)) {
				continue
			}
		} else if NormalizeName(c.Name) != NormalizeName(q.Name) {
			continue
		}

		if q.CityOnly && !strings.Contains(strings.ToLower(c.Location), strings.ToLower(q.City)) {
			continue
		}

		if q.AgeMin != nil && c.Age < *q.AgeMin {
			continue
		}
		if q.AgeMax != nil && c.Age > *q.AgeMax {
			continue
		}

		keep = append(keep, c)
	}
	return keep
}

func (e *Engine) warnf(format string, args ...any) {
	if e.Warnings != nil {
		fmt.Fprintf(e.Warnings, format, args...)
	}
}
