package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/profile-finder/internal/config"
	"github.com/kozaktomas/profile-finder/internal/database"
	"github.com/kozaktomas/profile-finder/internal/faces"
)

var similarCmd = &cobra.Command{
	Use:   "similar <profile-id | image>",
	Short: "Find profiles with a similar face across the whole database",
	Long: `Finds stored profiles whose face embedding is close to the given
reference. The reference is either a stored profile ID, a local image file,
or an image URL. All embedded profiles are loaded into an in-memory HNSW
index, so the search ignores scrape locations and stays fast even for large
databases.

Examples:
  profile-finder similar c1f2a9d0
  profile-finder similar ./sam.jpg --limit 10
  profile-finder similar https://example.com/sam.jpg --threshold 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)

	similarCmd.Flags().Int("limit", 5, "Maximum number of results")
	similarCmd.Flags().Float64("threshold", 0.6, "Minimum similarity score (1 - distance)")
	similarCmd.Flags().Bool("json", false, "Output as JSON")
}

// similarResult is the JSON output row for the similar command.
type similarResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Age        int     `json:"age"`
	City       string  `json:"city"`
	Similarity float64 `json:"similarity_score"`
}

// isImageRef reports whether the reference names an image rather than a
// stored profile.
func isImageRef(ref string) bool {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return true
	}
	_, err := os.Stat(ref)
	return err == nil
}

// referenceEmbedding resolves the reference argument to a face embedding.
// Returns the source profile ID when the reference is a stored profile, so
// the profile can be excluded from its own results.
func referenceEmbedding(ctx context.Context, cfg *config.Config, store database.Store, ref string) ([]float32, string, error) {
	if isImageRef(ref) {
		fetcher := faces.NewFetcher()
		img, err := fetcher.Fetch(ctx, ref)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load reference image: %w", err)
		}
		embedding, err := faces.NewClient(cfg.Faces.URL).ExtractFace(ctx, img)
		if err != nil {
			return nil, "", fmt.Errorf("failed to embed reference image: %w", err)
		}
		return embedding, "", nil
	}

	source, err := store.Get(ctx, ref)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get profile: %w", err)
	}
	if source == nil {
		return nil, "", fmt.Errorf("profile not found: %s", ref)
	}
	if !source.HasEmbedding() {
		return nil, "", fmt.Errorf("profile %s has no embedding. Run 'profile-finder embed' first", ref)
	}
	return source.Embedding, source.ID, nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ref := args[0]
	limit := mustGetInt(cmd, "limit")
	threshold := mustGetFloat64(cmd, "threshold")
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	query, sourceID, err := referenceEmbedding(ctx, cfg, store, ref)
	if err != nil {
		return err
	}

	profiles, err := store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	index := database.NewProfileIndex()
	if err := index.Build(profiles); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	if !jsonOutput {
		fmt.Printf("Built index with %d embedded profiles\n", index.Count())
	}

	// Search one extra neighbor since a stored reference matches itself.
	neighbors, distances, err := index.Search(query, limit+1)
	if err != nil {
		return fmt.Errorf("failed to search index: %w", err)
	}

	var results []similarResult
	for i, p := range neighbors {
		if sourceID != "" && p.ID == sourceID {
			continue
		}
		similarity := 1 - distances[i]
		if similarity < threshold {
			continue
		}
		results = append(results, similarResult{
			ID:         p.ID,
			Name:       p.Name,
			Age:        p.Age,
			City:       p.ScrapedFromCity,
			Similarity: similarity,
		})
	}
	if len(results) > limit {
		results = results[:limit]
	}

	if jsonOutput {
		return outputJSON("", results)
	}

	if len(results) == 0 {
		fmt.Printf("No similar profiles found above threshold %.2f\n", threshold)
		return nil
	}

	fmt.Printf("\nFound %d similar profile(s):\n\n", len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAGE\tCITY\tSIMILARITY")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.2f%%\n", r.ID, r.Name, r.Age, r.City, r.Similarity*100)
	}
	w.Flush()
	return nil
}
