package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var locationsYAML []byte

type Config struct {
	Database  DatabaseConfig
	Bolt      BoltConfig
	Faces     FacesConfig
	Locations LocationsConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL; empty selects the bbolt backend
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type BoltConfig struct {
	Path string // path to the local bbolt database file (default profiles.db)
}

type FacesConfig struct {
	URL string // face-embedding service URL (default http://localhost:8000)
}

type LocationsConfig struct {
	Locations []LocationEntry `yaml:"locations"`
}

type LocationEntry struct {
	City      string `yaml:"city"`
	Country   string `yaml:"country"`
	Latitude  string `yaml:"latitude"`
	Longitude string `yaml:"longitude"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var locations LocationsConfig
	if err := yaml.Unmarshal(locationsYAML, &locations); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded locations.yaml: " + err.Error())
	}

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Bolt: BoltConfig{
			Path: envString("BOLT_PATH", "profiles.db"),
		},
		Faces: FacesConfig{
			URL: envString("FACES_URL", "http://localhost:8000"),
		},
		Locations: locations,
	}
}
