package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/profile-finder/internal/config"
	"github.com/kozaktomas/profile-finder/internal/faces"
	"github.com/kozaktomas/profile-finder/internal/matching"
)

// defaultJobFile is the query file the scraper drops next to its output.
const defaultJobFile = "search_job.json"

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for a profile by identity or by face",
	Long: `Search the profile database for a person.

The query needs a name, an age and a scrape location (city and country).
Without a reference photo the search matches by name and age and reports a
confidence score. With --image the search compares face embeddings and
returns the closest profiles above the similarity threshold.

The query can come from flags, from a JSON file, or from interactive prompts.
With no flags at all, a search_job.json in the working directory is used.

Examples:

  # Identity search from flags
  profile-finder search --name "Sam" --age 30 --city Delhi --country India

  # Face similarity search with a reference photo
  profile-finder search --name "Sam" --age 30 --city Delhi --country India \
    --image ./sam.jpg

  # Narrow similarity candidates
  profile-finder search --name Sam --age 30 --city Delhi --country India \
    --image ./sam.jpg --age-min 28 --age-max 33 --name-contains sam

  # Query from a JSON file
  profile-finder search --file search_job.json

  # Prompt for each field
  profile-finder search --interactive

  # Write results to a file as JSON
  profile-finder search --file search_job.json --output results.json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("name", "", "Name of the person to find")
	searchCmd.Flags().Int("age", 0, "Age of the person to find")
	searchCmd.Flags().String("city", "", "City the profiles were scraped from")
	searchCmd.Flags().String("country", "", "Country the profiles were scraped from")
	searchCmd.Flags().String("image", "", "Reference photo (path or URL) for face similarity search")
	searchCmd.Flags().Int("age-min", 0, "Minimum candidate age for similarity search")
	searchCmd.Flags().Int("age-max", 0, "Maximum candidate age for similarity search")
	searchCmd.Flags().Bool("city-only", false, "Only candidates whose profile location mentions the city")
	searchCmd.Flags().String("name-contains", "", "Match candidates whose name contains this substring instead of the exact name")
	searchCmd.Flags().String("file", "", "Read the query from a JSON file")
	searchCmd.Flags().BoolP("interactive", "i", false, "Prompt for each query field")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
	searchCmd.Flags().String("output", "", "Write JSON results to a file")
}

// buildSearchQuery assembles the query from whichever input mode was chosen.
func buildSearchQuery(cmd *cobra.Command) (*matching.Query, error) {
	if mustGetBool(cmd, "interactive") {
		return promptQuery(os.Stdin)
	}

	file := mustGetString(cmd, "file")
	if file == "" && !cmd.Flags().Changed("name") {
		// Fall back to a job file in the working directory, the way the
		// scraper hands off search requests.
		if _, err := os.Stat(defaultJobFile); err == nil {
			file = defaultJobFile
		}
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read query file: %w", err)
		}
		return matching.ParseQuery(data)
	}

	q := &matching.Query{
		Name:         mustGetString(cmd, "name"),
		Age:          mustGetInt(cmd, "age"),
		City:         mustGetString(cmd, "city"),
		Country:      mustGetString(cmd, "country"),
		Image:        mustGetString(cmd, "image"),
		CityOnly:     mustGetBool(cmd, "city-only"),
		NameContains: mustGetString(cmd, "name-contains"),
	}
	if cmd.Flags().Changed("age-min") {
		v := mustGetInt(cmd, "age-min")
		q.AgeMin = &v
	}
	if cmd.Flags().Changed("age-max") {
		v := mustGetInt(cmd, "age-max")
		q.AgeMax = &v
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// promptQuery reads query fields interactively, one per line.
func promptQuery(in *os.File) (*matching.Query, error) {
	reader := bufio.NewReader(in)

	prompt := func(label string) (string, error) {
		fmt.Printf("%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	q := &matching.Query{}
	var err error
	if q.Name, err = prompt("Name"); err != nil {
		return nil, err
	}
	ageStr, err := prompt("Age")
	if err != nil {
		return nil, err
	}
	if q.Age, err = strconv.Atoi(ageStr); err != nil {
		return nil, fmt.Errorf("invalid age %q", ageStr)
	}
	if q.City, err = prompt("City"); err != nil {
		return nil, err
	}
	if q.Country, err = prompt("Country"); err != nil {
		return nil, err
	}
	if q.Image, err = prompt("Reference photo (empty for identity search)"); err != nil {
		return nil, err
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	outputFile := mustGetString(cmd, "output")

	q, err := buildSearchQuery(cmd)
	if err != nil {
		return err
	}

	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if !jsonOutput {
		fmt.Printf("Using %s data source\n", storeName(cfg))
		if q.Image != "" {
			fmt.Printf("Searching for %s (%d) in %s, %s by face...\n", q.Name, q.Age, q.City, q.Country)
		} else {
			fmt.Printf("Searching for %s (%d) in %s, %s by identity...\n", q.Name, q.Age, q.City, q.Country)
		}
	}

	client := faces.NewClient(cfg.Faces.URL)
	engine := matching.NewEngine(store, client, faces.NewFetcher())

	matches, err := engine.Search(context.Background(), q)
	if err != nil {
		if errors.Is(err, matching.ErrNoFaceInQueryImage) {
			return fmt.Errorf("no face detected in reference photo %s", q.Image)
		}
		return err
	}

	if jsonOutput || outputFile != "" {
		return outputJSON(outputFile, matching.EncodeMatches(matches))
	}

	if len(matches) == 0 {
		fmt.Println("No matches found")
		return nil
	}

	fmt.Printf("\nFound %d match(es):\n\n", len(matches))
	printMatchTable(matches)
	return nil
}

func printMatchTable(matches []matching.Match) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAGE\tCITY\tSCORE\tPHOTO")
	fmt.Fprintln(w, "----\t---\t----\t-----\t-----")
	for _, m := range matches {
		score := m.Confidence
		if m.Mode == matching.ModeSimilarity {
			score = m.FaceSimilarity
		}
		photo := ""
		if len(m.Profile.Photos) > 0 {
			photo = m.Profile.Photos[0]
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.2f%%\t%s\n",
			m.Profile.Name, m.Profile.Age, m.Profile.ScrapedFromCity, score*100, photo)
	}
	w.Flush()
}
