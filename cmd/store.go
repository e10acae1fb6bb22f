package cmd

import (
	"fmt"

	"github.com/kozaktomas/profile-finder/internal/config"
	"github.com/kozaktomas/profile-finder/internal/database"
	"github.com/kozaktomas/profile-finder/internal/database/bolt"
	"github.com/kozaktomas/profile-finder/internal/database/postgres"
)

// openStore selects the profile store backend. A configured DATABASE_URL
// picks PostgreSQL; otherwise the tool falls back to a local bbolt file so
// it works without any running services.
func openStore(cfg *config.Config) (database.Store, error) {
	if cfg.Database.URL != "" {
		store, err := postgres.NewStore(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		return store, nil
	}

	store, err := bolt.NewStore(cfg.Bolt.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database %s: %w", cfg.Bolt.Path, err)
	}
	return store, nil
}

// storeName names the selected backend for status output.
func storeName(cfg *config.Config) string {
	if cfg.Database.URL != "" {
		return "PostgreSQL"
	}
	return fmt.Sprintf("local (%s)", cfg.Bolt.Path)
}
