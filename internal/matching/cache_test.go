package matching

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/kozaktomas/profile-finder/internal/database"
	"github.com/kozaktomas/profile-finder/internal/database/mock"
)

func testProfile(id, name string, age int, photos ...string) database.Profile {
	return database.Profile{
		ID:                 id,
		Name:               name,
		Age:                age,
		Photos:             photos,
		ScrapedFromCity:    "Delhi",
		ScrapedFromCountry: "India",
		ScrapedAt:          time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestCacheResolvePrecomputed(t *testing.T) {
	store := mock.NewMockStore()
	extractor := &stubExtractor{}
	fetcher := &stubFetcher{}
	cache := newEmbeddingCache(extractor, fetcher, store, io.Discard)

	p := testProfile("p1", "Sam", 30)
	p.Embedding = testVec(0.5)

	vec := cache.resolve(context.Background(), &p)
	if vec == nil {
		t.Fatal("expected stored embedding, got nil")
	}
	if extractor.callCount() != 0 {
		t.Errorf("extractor called %d times for precomputed embedding", extractor.callCount())
	}
}

func TestCacheResolveExtractsAndWritesBack(t *testing.T) {
	store := mock.NewMockStore()
	p := testProfile("p1", "Sam", 30, "photo1.jpg")
	store.AddProfile(p)

	extractor := &stubExtractor{embeddings: map[string][]float32{
		"img1": testVec(0.3),
	}}
	fetcher := &stubFetcher{files: map[string][]byte{
		"photo1.jpg": []byte("img1"),
	}}
	cache := newEmbeddingCache(extractor, fetcher, store, io.Discard)

	vec := cache.resolve(context.Background(), &p)
	if vec == nil {
		t.Fatal("expected extracted embedding, got nil")
	}
	if store.SaveEmbeddingCalls != 1 {
		t.Errorf("SaveEmbeddingCalls = %d, want 1", store.SaveEmbeddingCalls)
	}

	saved, err := store.Get(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if !saved.HasEmbedding() {
		t.Error("embedding was not persisted to the store")
	}
}

func TestCacheResolveAtMostOnce(t *testing.T) {
	store := mock.NewMockStore()
	p := testProfile("p1", "Sam", 30, "photo1.jpg")

	// No photo resolves, so every attempt would fail again.
	extractor := &stubExtractor{}
	fetcher := &stubFetcher{files: map[string][]byte{
		"photo1.jpg": []byte("img1"),
	}}
	cache := newEmbeddingCache(extractor, fetcher, store, io.Discard)

	for range 3 {
		if vec := cache.resolve(context.Background(), &p); vec != nil {
			t.Fatal("expected nil embedding for faceless photos")
		}
	}
	if extractor.callCount() != 1 {
		t.Errorf("extractor called %d times, want 1", extractor.callCount())
	}
}

func TestCacheResolveTriesPhotosInOrder(t *testing.T) {
	store := mock.NewMockStore()
	p := testProfile("p1", "Sam", 30, "broken.jpg", "faceless.jpg", "good.jpg")

	extractor := &stubExtractor{embeddings: map[string][]float32{
		"img-good": testVec(0.2),
	}}
	fetcher := &stubFetcher{files: map[string][]byte{
		"faceless.jpg": []byte("img-faceless"),
		"good.jpg":     []byte("img-good"),
	}}
	cache := newEmbeddingCache(extractor, fetcher, store, io.Discard)

	vec := cache.resolve(context.Background(), &p)
	if vec == nil {
		t.Fatal("expected embedding from the third photo")
	}
	// broken.jpg fails at fetch, faceless.jpg and good.jpg reach the extractor.
	if extractor.callCount() != 2 {
		t.Errorf("extractor called %d times, want 2", extractor.callCount())
	}
}

func TestCacheResolveWriteBackFailureIsNotFatal(t *testing.T) {
	store := mock.NewMockStore()
	store.SaveEmbeddingError = errors.New("disk full")
	p := testProfile("p1", "Sam", 30, "photo1.jpg")

	extractor := &stubExtractor{embeddings: map[string][]float32{
		"img1": testVec(0.3),
	}}
	fetcher := &stubFetcher{files: map[string][]byte{
		"photo1.jpg": []byte("img1"),
	}}
	cache := newEmbeddingCache(extractor, fetcher, store, io.Discard)

	if vec := cache.resolve(context.Background(), &p); vec == nil {
		t.Fatal("write-back failure must not discard the embedding")
	}
}
