package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/profile-finder/internal/config"
	"github.com/kozaktomas/profile-finder/internal/database"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Manage scrape locations",
}

var locationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known scrape locations",
	RunE:  runLocationsList,
}

var locationsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the location table from the built-in list",
	Long: `Inserts the built-in city list into the location table. Existing
locations keep their last-scraped timestamps refreshed.`,
	RunE: runLocationsSeed,
}

func init() {
	rootCmd.AddCommand(locationsCmd)
	locationsCmd.AddCommand(locationsListCmd)
	locationsCmd.AddCommand(locationsSeedCmd)

	locationsListCmd.Flags().Bool("json", false, "Output as JSON")
}

func runLocationsList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	locations, err := store.ListLocations(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list locations: %w", err)
	}

	if mustGetBool(cmd, "json") {
		return outputJSON("", locations)
	}

	if len(locations) == 0 {
		fmt.Println("No locations found. Run 'profile-finder locations seed' first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CITY\tCOUNTRY\tLAT\tLNG\tLAST SCRAPED")
	for _, loc := range locations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			loc.City, loc.Country, loc.Latitude, loc.Longitude,
			loc.LastScraped.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return nil
}

func runLocationsSeed(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	for _, entry := range cfg.Locations.Locations {
		loc := database.Location{
			City:      entry.City,
			Country:   entry.Country,
			Latitude:  entry.Latitude,
			Longitude: entry.Longitude,
		}
		if err := store.UpsertLocation(ctx, &loc); err != nil {
			return fmt.Errorf("failed to upsert %s, %s: %w", entry.City, entry.Country, err)
		}
		fmt.Printf("Seeded %s, %s\n", entry.City, entry.Country)
	}

	fmt.Printf("Done (%d locations)\n", len(cfg.Locations.Locations))
	return nil
}
