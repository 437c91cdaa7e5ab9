package jats

import "github.com/ternarybob/pmcgrab/internal/models"

// ExtractCitations implements the Citations extractor (C6). Reference-list
// entries are parsed best-effort into structured fields; raw is always
// populated even when no structure can be recovered.
func ExtractCitations(root *Node) []models.Citation {
	var citations []models.Citation

	for _, ref := range root.FindAll("ref") {
		c := models.Citation{ID: ref.Attr("id"), Raw: Text(ref)}

		citation := ref.FirstChild("element-citation")
		if citation == nil {
			citation = ref.FirstChild("mixed-citation")
		}
		if citation == nil {
			citations = append(citations, c)
			continue
		}

		for _, pg := range citation.Children("person-group") {
			for _, name := range pg.Children("name") {
				surname := ""
				given := ""
				if sn := name.FirstChild("surname"); sn != nil {
					surname = DirectText(sn)
				}
				if gn := name.FirstChild("given-names"); gn != nil {
					given = DirectText(gn)
				}
				switch {
				case surname != "" && given != "":
					c.Authors = append(c.Authors, surname+" "+given)
				case surname != "":
					c.Authors = append(c.Authors, surname)
				}
			}
		}

		if t := citation.FirstChild("article-title"); t != nil {
			c.Title = Text(t)
		}
		if s := citation.FirstChild("source"); s != nil {
			c.Source = Text(s)
		}
		if y := citation.FirstChild("year"); y != nil {
			c.Year = DirectText(y)
		}
		if v := citation.FirstChild("volume"); v != nil {
			c.Volume = DirectText(v)
		}

		fpage, lpage := "", ""
		if f := citation.FirstChild("fpage"); f != nil {
			fpage = DirectText(f)
		}
		if l := citation.FirstChild("lpage"); l != nil {
			lpage = DirectText(l)
		}
		switch {
		case fpage != "" && lpage != "":
			c.Pages = fpage + "-" + lpage
		case fpage != "":
			c.Pages = fpage
		}

		for _, pubID := range citation.Children("pub-id") {
			switch pubID.Attr("pub-id-type") {
			case "doi":
				c.DOI = DirectText(pubID)
			case "pmid":
				c.PMID = DirectText(pubID)
			case "pmcid", "pmc":
				c.PMCID = DirectText(pubID)
			}
		}

		citations = append(citations, c)
	}

	return citations
}
