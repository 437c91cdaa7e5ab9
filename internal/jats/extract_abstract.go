package jats

import "github.com/ternarybob/pmcgrab/internal/models"

// ExtractAbstract implements the Abstract extractor (C6). Must run after
// CleanInline so paragraph text has already had inline xrefs stripped.
func ExtractAbstract(root *Node) *models.OrderedStringMap {
	result := models.NewOrderedStringMap()

	abstracts := root.FindAll("abstract")
	var main *Node
	for _, a := range abstracts {
		if a.Attr("abstract-type") == "" {
			main = a
			break
		}
	}
	if main == nil && len(abstracts) > 0 {
		main = abstracts[0]
	}
	if main == nil {
		return result
	}

	var leading []string
	flushLeading := func() {
		if len(leading) == 0 {
			return
		}
		text := joinWithSpace(leading)
		if existing, ok := result.Get("Abstract"); ok {
			text = joinWithSpace([]string{existing, text})
		}
		result.Set("Abstract", text)
		leading = nil
	}

	for _, kid := range main.Children() {
		switch kid.Name {
		case "p":
			if t := Text(kid); t != "" {
				leading = append(leading, t)
			}
		case "sec":
			// Flush any prose discovered before this section now, so it
			// lands at its true discovery-order position rather than
			// after every labeled section.
			flushLeading()
			label := sectionTitle(kid, "Abstract")
			result.Set(label, joinParagraphs(kid))
		}
	}
	flushLeading()

	return result
}

func joinParagraphs(sec *Node) string {
	var parts []string
	for _, p := range sec.Children("p") {
		if t := Text(p); t != "" {
			parts = append(parts, t)
		}
	}
	return joinWithSpace(parts)
}

func joinWithSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// sectionTitle returns the <title> text of a <sec>, or fallback if absent.
func sectionTitle(sec *Node, fallback string) string {
	if t := sec.FirstChild("title"); t != nil {
		if text := Text(t); text != "" {
			return text
		}
	}
	return fallback
}
