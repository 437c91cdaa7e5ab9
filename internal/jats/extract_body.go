package jats

import (
	"fmt"

	"github.com/ternarybob/pmcgrab/internal/models"
)

const untitledSection = "Untitled Section"

// bodyResult bundles the three body-related views C7 assembles in one
// shared depth-first traversal, so flat, nested, and paragraph views stay
// consistent with each other by construction.
type bodyResult struct {
	Flat       *models.OrderedStringMap
	Nested     *models.OrderedBodyMap
	Paragraphs []models.Paragraph
}

// ExtractBody implements the Body (flat view), Body (nested view), and
// Paragraphs view extractors (C6) in a single depth-first traversal of
// top-level <sec> elements under <body>. Must run after CleanInline.
func ExtractBody(root *Node) bodyResult {
	result := bodyResult{
		Flat:   models.NewOrderedStringMap(),
		Nested: models.NewOrderedBodyMap(),
	}

	body := root.FirstChild("body")
	if body == nil {
		return result
	}

	titleCounts := make(map[string]int)
	for _, sec := range body.Children("sec") {
		title := uniqueTitle(titleCounts, sectionTitle(sec, untitledSection))
		node, flatText := walkSection(sec, title, "", &result.Paragraphs)
		result.Nested.Set(title, node)
		result.Flat.Set(title, flatText)
	}

	return result
}

// walkSection recursively builds the nested BodyNode and flat text for one
// section, appending every leaf paragraph it encounters to paragraphs.
func walkSection(sec *Node, topTitle, subPath string, paragraphs *[]models.Paragraph) (*models.BodyNode, string) {
	node := models.NewBodyNode()

	var ownParas []string
	leafIndex := 0
	for _, p := range sec.Children("p") {
		text := Text(p)
		if text == "" {
			continue
		}
		ownParas = append(ownParas, text)
		*paragraphs = append(*paragraphs, models.Paragraph{
			Section:        topTitle,
			Subsection:     subPath,
			ParagraphIndex: leafIndex,
			Text:           text,
		})
		leafIndex++
	}
	node.Text = joinWithSpace(ownParas)

	flat := node.Text

	childCounts := make(map[string]int)
	for _, child := range sec.Children("sec") {
		childTitle := uniqueTitle(childCounts, sectionTitle(child, untitledSection))
		childSubPath := childTitle
		if subPath != "" {
			childSubPath = subPath + " / " + childTitle
		}
		childNode, childFlat := walkSection(child, topTitle, childSubPath, paragraphs)
		node.Children.Set(childTitle, childNode)

		prefixed := fmt.Sprintf("SECTION: %s:\n\n    %s", childTitle, childFlat)
		if flat != "" {
			flat += "\n\n" + prefixed
		} else {
			flat = prefixed
		}
	}

	return node, flat
}

// uniqueTitle deterministically disambiguates duplicate titles at the same
// traversal level by suffixing " (2)", " (3)", ... (spec §4.6).
func uniqueTitle(counts map[string]int, title string) string {
	counts[title]++
	n := counts[title]
	if n == 1 {
		return title
	}
	return fmt.Sprintf("%s (%d)", title, n)
}
