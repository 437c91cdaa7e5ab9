package serialize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/pmcgrab/internal/models"
)

// Extension is the file extension per-item artifacts are written with.
const Extension = "json"

// WriteItem implements per-item-file mode: one artifact file per
// Document, named PMC<pmcid>.<ext> under dir (spec §4.8/§6).
func WriteItem(dir string, d *models.Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("serialize: create output dir: %w", err)
	}
	name := fmt.Sprintf("PMC%s.%s", d.PMCID, Extension)
	path := filepath.Join(dir, name)

	data, err := Marshal(FromDocument(d), true)
	if err != nil {
		return "", fmt.Errorf("serialize: marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("serialize: write %s: %w", name, err)
	}
	return path, nil
}
