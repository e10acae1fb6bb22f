package cmd

import (
	"encoding/json"
	"fmt"
	"os"
)

// outputJSON writes data as indented JSON to the given path, or to stdout
// when path is empty.
func outputJSON(path string, data any) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
