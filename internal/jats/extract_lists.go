package jats

import "github.com/ternarybob/pmcgrab/internal/identifiers"

// ExtractKeywords implements the Keywords extractor (C6): straightforward
// list extraction with order-preserving deduplication.
func ExtractKeywords(root *Node) []string {
	var keywords []string
	for _, group := range root.FindAll("kwd-group") {
		for _, kwd := range group.Children("kwd") {
			if t := Text(kwd); t != "" {
				keywords = append(keywords, t)
			}
		}
	}
	return identifiers.DedupPreserveOrder(keywords)
}

// ExtractArticleTypes implements the Article Types extractor (C6).
func ExtractArticleTypes(root *Node) []string {
	var types []string
	if t := ArticleTypeAttr(root); t != "" {
		types = append(types, t)
	}
	for _, subjGroup := range root.FindAll("subj-group") {
		if subjGroup.Attr("subj-group-type") != "heading" {
			continue
		}
		for _, subj := range subjGroup.Children("subject") {
			if t := Text(subj); t != "" {
				types = append(types, t)
			}
		}
	}
	return identifiers.DedupPreserveOrder(types)
}

// ExtractArticleCategories implements the Article Categories extractor (C6).
func ExtractArticleCategories(root *Node) []string {
	var categories []string
	for _, catGroup := range root.FindAll("article-categories") {
		for _, subjGroup := range catGroup.FindAll("subj-group") {
			for _, subj := range subjGroup.Children("subject") {
				if t := Text(subj); t != "" {
					categories = append(categories, t)
				}
			}
		}
	}
	return identifiers.DedupPreserveOrder(categories)
}

// ExtractFunding implements the Funding extractor (C6).
func ExtractFunding(root *Node) []string {
	var funding []string
	for _, group := range root.FindAll("funding-group") {
		for _, award := range group.FindAll("award-group") {
			for _, source := range award.Children("funding-source") {
				if t := Text(source); t != "" {
					funding = append(funding, t)
				}
			}
		}
	}
	return identifiers.DedupPreserveOrder(funding)
}

// extras holds the output of ExtractExtras, which gathers the remaining straightforward list/text
// fields the data model names but that carry no special structural rules:
// acknowledgements, footnotes, notes, supplementary materials, appendices,
// related articles, self-uris, conference.
type extras struct {
	Acknowledgements       string
	Footnotes              []string
	Notes                  []string
	SupplementaryMaterials []string
	Appendices             []string
	RelatedArticles        []string
	SelfURIs               []string
	Conference             string
}

func ExtractExtras(root *Node) extras {
	var e extras

	if ack := root.FirstChild("back"); ack != nil {
		if a := ack.FirstChild("ack"); a != nil {
			e.Acknowledgements = Text(a)
		}
	}

	for _, fn := range root.FindAll("fn-group") {
		for _, f := range fn.Children("fn") {
			if t := Text(f); t != "" {
				e.Footnotes = append(e.Footnotes, t)
			}
		}
	}

	for _, n := range root.FindAll("notes") {
		if t := Text(n); t != "" {
			e.Notes = append(e.Notes, t)
		}
	}

	for _, s := range root.FindAll("supplementary-material") {
		if t := Text(s); t != "" {
			e.SupplementaryMaterials = append(e.SupplementaryMaterials, t)
		}
	}

	for _, app := range root.FindAll("app") {
		if t := Text(app); t != "" {
			e.Appendices = append(e.Appendices, t)
		}
	}

	for _, related := range root.FindAll("related-article") {
		if href := related.Attr("href"); href != "" {
			e.RelatedArticles = append(e.RelatedArticles, href)
		}
	}

	for _, uri := range root.FindAll("self-uri") {
		if href := uri.Attr("href"); href != "" {
			e.SelfURIs = append(e.SelfURIs, href)
		}
	}

	if conf := root.FirstChild("conference"); conf != nil {
		e.Conference = Text(conf)
	}

	return e
}
