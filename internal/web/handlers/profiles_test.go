package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/profile-finder/internal/database"
	"github.com/kozaktomas/profile-finder/internal/database/mock"
)

func TestProfilesHandlerCount(t *testing.T) {
	store := mock.NewMockStore()
	store.AddProfile(database.Profile{ID: "a"})
	store.AddProfile(database.Profile{ID: "b"})

	handler := NewProfilesHandler(store)
	req := httptest.NewRequest("GET", "/api/v1/profiles/count", nil)
	recorder := httptest.NewRecorder()
	handler.Count(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var resp map[string]int
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["count"] != 2 {
		t.Errorf("count = %d, want 2", resp["count"])
	}
}

func TestProfilesHandlerCountError(t *testing.T) {
	store := mock.NewMockStore()
	store.CountError = errors.New("connection refused")

	handler := NewProfilesHandler(store)
	recorder := httptest.NewRecorder()
	handler.Count(recorder, httptest.NewRequest("GET", "/api/v1/profiles/count", nil))

	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", recorder.Code)
	}
}

func TestProfilesHandlerLocationsEmpty(t *testing.T) {
	handler := NewProfilesHandler(mock.NewMockStore())
	recorder := httptest.NewRecorder()
	handler.Locations(recorder, httptest.NewRequest("GET", "/api/v1/locations", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var resp []database.Location
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected a JSON array: %v", err)
	}
	if len(resp) != 0 {
		t.Errorf("got %d locations, want 0", len(resp))
	}
}

func TestHealthCheck(t *testing.T) {
	recorder := httptest.NewRecorder()
	HealthCheck(recorder, httptest.NewRequest("GET", "/api/v1/health", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
}
