package handlers

import (
	"net/http"

	"github.com/kozaktomas/profile-finder/internal/database"
)

// ProfilesHandler serves profile metadata endpoints.
type ProfilesHandler struct {
	store database.Store
}

// NewProfilesHandler creates a profiles handler over the given store.
func NewProfilesHandler(store database.Store) *ProfilesHandler {
	return &ProfilesHandler{store: store}
}

// Count handles GET /api/v1/profiles/count.
func (h *ProfilesHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to count profiles")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// Locations handles GET /api/v1/locations.
func (h *ProfilesHandler) Locations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.store.ListLocations(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to list locations")
		return
	}
	if locations == nil {
		locations = []database.Location{}
	}
	respondJSON(w, http.StatusOK, locations)
}
