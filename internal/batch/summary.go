package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteSummary writes the completion summary artifact to
// <dir>/summary.json (spec §4.9/§6).
func WriteSummary(dir string, s *Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("batch: create output dir: %w", err)
	}
	path := filepath.Join(dir, "summary.json")

	enc, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("batch: marshal summary: %w", err)
	}
	if err := os.WriteFile(path, enc, 0o644); err != nil {
		return "", fmt.Errorf("batch: write summary: %w", err)
	}
	return path, nil
}
