package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/profile-finder/internal/config"
	"github.com/kozaktomas/profile-finder/internal/database"
	"github.com/kozaktomas/profile-finder/internal/faces"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Compute face embeddings for profiles that are missing them",
	Long: `Backfills face embeddings for stored profiles.

For every profile without an embedding, the profile photos are fetched in
order and sent to the embedding service until one yields a face. The
resulting embedding is saved back to the store, so searches with a reference
photo do not have to compute it on the fly.

Examples:
  profile-finder embed
  profile-finder embed --limit 50`,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().Int("limit", 0, "Limit number of profiles to process (0 = no limit)")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	limit := mustGetInt(cmd, "limit")

	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	profiles, err := store.ListMissingEmbeddings(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}
	if len(profiles) == 0 {
		fmt.Println("All profiles already have embeddings")
		return nil
	}

	client := faces.NewClient(cfg.Faces.URL)
	fetcher := faces.NewFetcher()

	fmt.Printf("Computing embeddings for %d profiles...\n", len(profiles))
	bar := progressbar.Default(int64(len(profiles)))

	embedded := 0
	noFace := 0
	for i := range profiles {
		bar.Add(1)

		p := &profiles[i]
		embedding := embedFirstFace(ctx, client, fetcher, p)
		if embedding == nil {
			noFace++
			continue
		}

		if err := store.SaveEmbedding(ctx, p.ID, embedding); err != nil {
			return fmt.Errorf("failed to save embedding for %s: %w", p.ID, err)
		}
		embedded++
	}

	fmt.Printf("\nEmbedded: %d, No face found: %d\n", embedded, noFace)
	return nil
}

// embedFirstFace tries the profile photos in order and returns the first
// embedding found, or nil when no photo yields a face.
func embedFirstFace(ctx context.Context, client *faces.Client, fetcher *faces.Fetcher, p *database.Profile) []float32 {
	for _, photo := range p.Photos {
		data, err := fetcher.Fetch(ctx, photo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nWarning: failed to fetch photo for %s: %v\n", p.ID, err)
			continue
		}
		embedding, err := client.ExtractFace(ctx, data)
		if err != nil {
			continue
		}
		return embedding
	}
	return nil
}
