package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/profile-finder/internal/database"
	"github.com/kozaktomas/profile-finder/internal/matching"
	"github.com/kozaktomas/profile-finder/internal/web/handlers"
)

func (s *Server) setupRoutes(store database.Store, engine *matching.Engine) {
	searchHandler := handlers.NewSearchHandler(engine)
	profilesHandler := handlers.NewProfilesHandler(store)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", searchHandler.Search)
		r.Get("/profiles/count", profilesHandler.Count)
		r.Get("/locations", profilesHandler.Locations)
	})
}
