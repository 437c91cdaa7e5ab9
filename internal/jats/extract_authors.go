package jats

import "github.com/ternarybob/pmcgrab/internal/models"

// ExtractAuthors implements the Authors extractor (C6). Must run before
// CleanInline strips xref elements, since affiliation resolution reads the
// contrib's xref[@ref-type="aff"]/@rid pointing at a sibling <aff id=...>.
func ExtractAuthors(root *Node) (authors []models.Author, nonAuthors []models.Author) {
	affByID := make(map[string]string)
	for _, aff := range root.FindAll("aff") {
		id := aff.Attr("id")
		if id == "" {
			continue
		}
		affByID[id] = Text(aff)
	}

	for _, contrib := range root.FindAll("contrib") {
		a := models.Author{Extra: map[string]string{}}

		if nameNode := contrib.FirstChild("name"); nameNode != nil {
			if sn := nameNode.FirstChild("surname"); sn != nil {
				a.LastName = DirectText(sn)
			}
			if gn := nameNode.FirstChild("given-names"); gn != nil {
				a.FirstName = DirectText(gn)
			}
		}

		if email := contrib.FirstChild("email"); email != nil {
			a.Email = DirectText(email)
		}

		for _, xref := range contrib.Children("xref") {
			if xref.Attr("ref-type") != "aff" {
				continue
			}
			if text, ok := affByID[xref.Attr("rid")]; ok {
				a.Affiliations = append(a.Affiliations, text)
			}
		}
		if affNode := contrib.FirstChild("aff"); affNode != nil {
			a.Affiliations = append(a.Affiliations, Text(affNode))
		}
		if a.Email == "" {
			if affNode := contrib.FirstChild("aff"); affNode != nil {
				if email := affNode.FirstChild("email"); email != nil {
					a.Email = DirectText(email)
				}
			}
		}

		contribType := contrib.Attr("contrib-type")
		if contribType == "" {
			contribType = "Author"
			a.Type = "Author"
		} else {
			a.Type = contribType
		}

		if contribType == "" || contribType == "Author" || contribType == "author" {
			authors = append(authors, a)
		} else {
			nonAuthors = append(nonAuthors, a)
		}
	}

	return authors, nonAuthors
}
