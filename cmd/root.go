package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "profile-finder",
	Short: "A CLI tool for finding scraped profiles by identity or by face",
	Long: `Profile Finder is a CLI application that searches a database of scraped
dating profiles. It matches profiles either by name and age (identity search)
or by comparing face embeddings against a reference photo (similarity search).

Face embeddings are computed by an external embedding service and cached in
the database, so repeated searches over the same profiles stay fast.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
