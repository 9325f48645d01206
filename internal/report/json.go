package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes the summary artifact, indented so diffs between CI runs
// stay readable.
func WriteJSON(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}
