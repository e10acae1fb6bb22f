package matching

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/kozaktomas/profile-finder/internal/database/mock"
)

// newTestEngine wires an engine over a mock store with a query image that
// embeds to the zero vector. Candidate vectors set the first component, so a
// candidate at testVec(d) scores similarity 1-d against the query.
func newTestEngine(store *mock.MockStore) *Engine {
	extractor := &stubExtractor{embeddings: map[string][]float32{
		"query-img": testVec(0),
	}}
	fetcher := &stubFetcher{files: map[string][]byte{
		"query.jpg": []byte("query-img"),
	}}
	e := NewEngine(store, extractor, fetcher)
	e.Warnings = io.Discard
	return e
}

func delhiQuery() *Query {
	return &Query{Name: "Sam", Age: 30, City: "Delhi", Country: "India"}
}

func TestSearchValidatesQuery(t *testing.T) {
	e := newTestEngine(mock.NewMockStore())

	_, err := e.Search(context.Background(), &Query{Name: "Sam"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSearchIdentityPicksBestCandidate(t *testing.T) {
	store := mock.NewMockStore()
	store.AddProfile(testProfile("p1", "Samantha", 30)) // name mismatch
	store.AddProfile(testProfile("p2", "Sam", 31))      // eligible, age off by one
	store.AddProfile(testProfile("p3", "sam", 30))      // eligible, exact
	store.AddProfile(testProfile("p4", "Sam", 35))      // age gap too large

	other := testProfile("p5", "Sam", 30)
	other.ScrapedFromCity = "Mumbai"
	store.AddProfile(other) // wrong location

	e := newTestEngine(store)
	matches, err := e.SearchIdentity(context.Background(), delhiQuery())
	if err != nil {
		t.Fatalf("SearchIdentity() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	m := matches[0]
	if m.Profile.ID != "p3" {
		t.Errorf("matched %s, want p3", m.Profile.ID)
	}
	if m.Mode != ModeIdentity {
		t.Errorf("Mode = %q, want identity", m.Mode)
	}
	if !almostEqual(m.Confidence, 1.0) {
		t.Errorf("Confidence = %v, want 1.0", m.Confidence)
	}
}

func TestSearchIdentityNoMatches(t *testing.T) {
	store := mock.NewMockStore()
	store.AddProfile(testProfile("p1", "Priya", 25))

	e := newTestEngine(store)
	matches, err := e.SearchIdentity(context.Background(), delhiQuery())
	if err != nil {
		t.Fatalf("SearchIdentity() error = %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("got %d matches, want 0", len(matches))
	}
}

func TestSearchIdentityDegenerateBeforeStoreAccess(t *testing.T) {
	store := mock.NewMockStore()
	store.FindError = errors.New("connection refused")
	e := newTestEngine(store)

	_, err := e.SearchIdentity(context.Background(), &Query{Name: "", Age: 30, City: "Delhi", Country: "India"})
	var degenerate *DegenerateInputError
	if !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateInputError, got %v", err)
	}
}

func TestSearchIdentityStoreError(t *testing.T) {
	store := mock.NewMockStore()
	store.FindError = errors.New("connection refused")
	e := newTestEngine(store)

	_, err := e.SearchIdentity(context.Background(), delhiQuery())
	var storeErr *StoreQueryError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreQueryError, got %v", err)
	}
	if !errors.Is(err, store.FindError) {
		t.Error("StoreQueryError should wrap the store error")
	}
}

// addEmbedded stores a profile named Sam with a precomputed embedding at the
// given distance from the zero query vector.
func addEmbedded(store *mock.MockStore, id string, distance float32) {
	p := testProfile(id, "Sam", 30)
	p.Embedding = testVec(distance)
	store.AddProfile(p)
}

func TestSearchSimilarityRanksAndTruncates(t *testing.T) {
	store := mock.NewMockStore()
	addEmbedded(store, "far", 0.35)     // 0.65
	addEmbedded(store, "close", 0.05)   // 0.95
	addEmbedded(store, "mid", 0.2)      // 0.80
	addEmbedded(store, "nearmid", 0.25) // 0.75
	addEmbedded(store, "below", 0.5)    // 0.50, under threshold

	q := delhiQuery()
	q.Image = "query.jpg"

	e := newTestEngine(store)
	matches, err := e.SearchSimilarity(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchSimilarity() error = %v", err)
	}

	if len(matches) != MaxResults {
		t.Fatalf("got %d matches, want %d", len(matches), MaxResults)
	}
	wantOrder := []string{"close", "mid", "nearmid"}
	for i, id := range wantOrder {
		if matches[i].Profile.ID != id {
			t.Errorf("matches[%d] = %s, want %s", i, matches[i].Profile.ID, id)
		}
		if matches[i].FaceSimilarity <= SimilarityThreshold {
			t.Errorf("matches[%d] similarity %v not above threshold", i, matches[i].FaceSimilarity)
		}
		if matches[i].Mode != ModeSimilarity {
			t.Errorf("matches[%d] Mode = %q, want similarity", i, matches[i].Mode)
		}
	}
	if !almostEqual(matches[0].FaceSimilarity, 0.95) {
		t.Errorf("best similarity = %v, want 0.95", matches[0].FaceSimilarity)
	}
}

func TestSearchSimilarityNoFaceInQueryImage(t *testing.T) {
	store := mock.NewMockStore()
	addEmbedded(store, "p1", 0.1)

	q := delhiQuery()
	q.Image = "faceless.jpg"

	e := newTestEngine(store)
	e.fetcher = &stubFetcher{files: map[string][]byte{
		"faceless.jpg": []byte("no-face-img"),
	}}

	_, err := e.SearchSimilarity(context.Background(), q)
	if !errors.Is(err, ErrNoFaceInQueryImage) {
		t.Fatalf("expected ErrNoFaceInQueryImage, got %v", err)
	}
}

func TestSearchSimilaritySkipsCandidatesWithoutFaces(t *testing.T) {
	store := mock.NewMockStore()
	addEmbedded(store, "good", 0.1)
	store.AddProfile(testProfile("no-photos", "Sam", 30)) // nothing to embed

	q := delhiQuery()
	q.Image = "query.jpg"

	e := newTestEngine(store)
	matches, err := e.SearchSimilarity(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchSimilarity() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Profile.ID != "good" {
		t.Fatalf("expected only the embedded candidate, got %+v", matches)
	}
}

func TestSearchSimilarityEmptyCandidates(t *testing.T) {
	store := mock.NewMockStore()

	q := delhiQuery()
	q.Image = "query.jpg"

	e := newTestEngine(store)
	matches, err := e.SearchSimilarity(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchSimilarity() error = %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("got %d matches, want 0", len(matches))
	}
	// No candidates means the query image is never embedded.
	if calls := e.extractor.(*stubExtractor).callCount(); calls != 0 {
		t.Errorf("extractor called %d times, want 0", calls)
	}
}

func TestSearchSimilarityAgeRange(t *testing.T) {
	store := mock.NewMockStore()
	young := testProfile("young", "Sam", 22)
	young.Embedding = testVec(0.1)
	store.AddProfile(young)
	old := testProfile("old", "Sam", 30)
	old.Embedding = testVec(0.1)
	store.AddProfile(old)

	q := delhiQuery()
	q.Image = "query.jpg"
	ageMin, ageMax := 20, 25
	q.AgeMin, q.AgeMax = &ageMin, &ageMax

	e := newTestEngine(store)
	matches, err := e.SearchSimilarity(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchSimilarity() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Profile.ID != "young" {
		t.Fatalf("expected only the in-range candidate, got %+v", matches)
	}
}

func TestSearchSimilarityNameContains(t *testing.T) {
	store := mock.NewMockStore()
	samuel := testProfile("samuel", "Samuel", 30)
	samuel.Embedding = testVec(0.1)
	store.AddProfile(samuel)
	priya := testProfile("priya", "Priya", 30)
	priya.Embedding = testVec(0.1)
	store.AddProfile(priya)

	q := delhiQuery()
	q.Image = "query.jpg"
	q.NameContains = "sam"

	e := newTestEngine(store)
	matches, err := e.SearchSimilarity(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchSimilarity() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Profile.ID != "samuel" {
		t.Fatalf("expected the substring match, got %+v", matches)
	}
}

func TestSearchSimilarityCityOnly(t *testing.T) {
	store := mock.NewMockStore()
	local := testProfile("local", "Sam", 30)
	local.Location = "Lives in Delhi"
	local.Embedding = testVec(0.1)
	store.AddProfile(local)
	visitor := testProfile("visitor", "Sam", 30)
	visitor.Location = "Lives in Jaipur"
	visitor.Embedding = testVec(0.1)
	store.AddProfile(visitor)

	q := delhiQuery()
	q.Image = "query.jpg"
	q.CityOnly = true

	e := newTestEngine(store)
	matches, err := e.SearchSimilarity(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchSimilarity() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Profile.ID != "local" {
		t.Fatalf("expected only the local candidate, got %+v", matches)
	}
}
