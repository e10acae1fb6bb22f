package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/profile-finder/internal/config"
	"github.com/kozaktomas/profile-finder/internal/database"
)

var profilesImportCmd = &cobra.Command{
	Use:   "import <directory>",
	Short: "Import scraped profile JSON files into the database",
	Long: `Imports profile JSON files produced by the scraper.

Every profile_*.json file in the directory is parsed and upserted into the
profile store. Files that fail to parse are skipped with a warning. Profiles
without an ID get a generated one, so re-importing the same dump creates
duplicates unless the scraper assigned stable IDs.

Examples:
  profile-finder profiles import ./scrapes/delhi
  profile-finder profiles import ./scrapes/delhi --city Delhi --country India`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesImport,
}

func init() {
	profilesCmd.AddCommand(profilesImportCmd)

	profilesImportCmd.Flags().String("city", "", "Scrape city recorded on imported profiles (overrides file values)")
	profilesImportCmd.Flags().String("country", "", "Scrape country recorded on imported profiles (overrides file values)")
	profilesImportCmd.Flags().String("source", "tinder", "Source tag recorded on imported profiles")
}

// scrapedProfile mirrors the JSON layout the scraper writes per profile.
type scrapedProfile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Bio       string   `json:"bio"`
	Gender    string   `json:"gender"`
	Photos    []string `json:"photos"`
	Passions  []string `json:"passions"`
	Education string   `json:"education"`
	JobTitle  string   `json:"job_title"`
	Location  string   `json:"location"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	ScrapedAt string   `json:"scraped_at"`
}

func (s *scrapedProfile) toProfile(city, country, source string) *database.Profile {
	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}
	if s.City != "" {
		city = s.City
	}
	if s.Country != "" {
		country = s.Country
	}
	scrapedAt := time.Now().UTC()
	if s.ScrapedAt != "" {
		if t, err := time.Parse(time.RFC3339, s.ScrapedAt); err == nil {
			scrapedAt = t
		}
	}
	return &database.Profile{
		ID:                 id,
		Name:               s.Name,
		Age:                s.Age,
		Bio:                s.Bio,
		Gender:             s.Gender,
		Photos:             s.Photos,
		Passions:           s.Passions,
		Education:          s.Education,
		JobTitle:           s.JobTitle,
		Location:           s.Location,
		ScrapedFromCity:    city,
		ScrapedFromCountry: country,
		Source:             source,
		ScrapedAt:          scrapedAt,
	}
}

func runProfilesImport(cmd *cobra.Command, args []string) error {
	dir := args[0]
	city := mustGetString(cmd, "city")
	country := mustGetString(cmd, "country")
	source := mustGetString(cmd, "source")

	files, err := filepath.Glob(filepath.Join(dir, "profile_*.json"))
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no profile_*.json files found in %s", dir)
	}

	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Printf("Importing %d profiles into %s...\n", len(files), storeName(cfg))
	bar := progressbar.Default(int64(len(files)))

	ctx := context.Background()
	imported := 0
	skipped := 0
	for _, file := range files {
		bar.Add(1)

		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nWarning: failed to read %s: %v\n", file, err)
			skipped++
			continue
		}

		var scraped scrapedProfile
		if err := json.Unmarshal(data, &scraped); err != nil {
			fmt.Fprintf(os.Stderr, "\nWarning: failed to parse %s: %v\n", file, err)
			skipped++
			continue
		}
		if scraped.Name == "" || scraped.Age <= 0 {
			fmt.Fprintf(os.Stderr, "\nWarning: %s has no name or age, skipping\n", file)
			skipped++
			continue
		}

		profile := scraped.toProfile(city, country, source)
		if profile.ScrapedFromCity == "" || profile.ScrapedFromCountry == "" {
			fmt.Fprintf(os.Stderr, "\nWarning: %s has no scrape location (use --city/--country), skipping\n", file)
			skipped++
			continue
		}

		if err := store.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to save profile from %s: %w", file, err)
		}
		imported++
	}

	fmt.Printf("\nImported: %d, Skipped: %d\n", imported, skipped)
	return nil
}
