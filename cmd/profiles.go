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

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage stored profiles",
	Long:  `Commands for listing, counting and importing scraped profiles.`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Long:  `Lists stored profiles, optionally filtered by scrape location.`,
	RunE:  runProfilesList,
}

var profilesCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the number of stored profiles",
	RunE:  runProfilesCount,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesCountCmd)

	profilesListCmd.Flags().String("city", "", "Only profiles scraped from this city")
	profilesListCmd.Flags().String("country", "", "Only profiles scraped from this country (requires --city)")
	profilesListCmd.Flags().Bool("json", false, "Output as JSON")
	profilesListCmd.Flags().Int("limit", 0, "Limit number of results (0 = no limit)")
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	city := mustGetString(cmd, "city")
	country := mustGetString(cmd, "country")
	jsonOutput := mustGetBool(cmd, "json")
	limit := mustGetInt(cmd, "limit")

	if (city == "") != (country == "") {
		return fmt.Errorf("--city and --country must be used together")
	}

	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var profiles []database.Profile
	if city != "" {
		profiles, err = store.FindByLocation(ctx, city, country)
	} else {
		profiles, err = store.ListAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}

	if jsonOutput {
		return outputJSON("", profiles)
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAGE\tCITY\tCOUNTRY\tEMBEDDING\tSCRAPED")
	for i := range profiles {
		p := &profiles[i]
		embedded := "-"
		if p.HasEmbedding() {
			embedded = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Age, p.ScrapedFromCity, p.ScrapedFromCountry,
			embedded, p.ScrapedAt.Format("2006-01-02"))
	}
	w.Flush()
	fmt.Printf("\nTotal: %d\n", len(profiles))
	return nil
}

func runProfilesCount(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count(context.Background())
	if err != nil {
		return fmt.Errorf("failed to count profiles: %w", err)
	}

	fmt.Printf("Profiles: %d\n", count)
	return nil
}
