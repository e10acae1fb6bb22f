package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/kozaktomas/profile-finder/internal/matching"
)

// SearchHandler serves profile searches over HTTP.
type SearchHandler struct {
	engine *matching.Engine
}

// NewSearchHandler creates a search handler around the given engine.
func NewSearchHandler(engine *matching.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// searchResponse is the body returned by the search endpoint.
type searchResponse struct {
	Mode    matching.Mode       `json:"mode"`
	Count   int                 `json:"count"`
	Matches []matching.MatchJSON `json:"matches"`
}

// Search handles POST /api/v1/search. The body uses the same JSON layout as
// the search_job.json file accepted by the CLI. Reference photos must be
// URLs since the server has no access to client filesystems.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	q, err := matching.ParseQuery(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := matching.ModeIdentity
	if q.Image != "" {
		mode = matching.ModeSimilarity
	}

	matches, err := h.engine.Search(r.Context(), q)
	if err != nil {
		status := searchErrorStatus(err)
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, searchResponse{
		Mode:    mode,
		Count:   len(matches),
		Matches: matching.EncodeMatches(matches),
	})
}

// searchErrorStatus maps engine errors to HTTP status codes.
func searchErrorStatus(err error) int {
	var validationErr *matching.ValidationError
	var degenerateErr *matching.DegenerateInputError
	var storeErr *matching.StoreQueryError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &degenerateErr):
		return http.StatusBadRequest
	case errors.Is(err, matching.ErrNoFaceInQueryImage):
		return http.StatusUnprocessableEntity
	case errors.As(err, &storeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
