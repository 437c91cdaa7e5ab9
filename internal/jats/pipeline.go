package jats

import "github.com/ternarybob/pmcgrab/internal/models"

// ParseAndAssemble runs C5 (parse) followed by C7 (assemble) over raw
// JATS XML bytes for one article, returning the fully assembled Document.
func ParseAndAssemble(data []byte, pmcid string) (*models.Document, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Assemble(root, pmcid), nil
}
