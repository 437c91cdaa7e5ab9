package jats

import (
	"github.com/ternarybob/pmcgrab/internal/models"
)

// Assemble implements the Document Assembler (C7). It runs extractors in
// a defined order so identifiers become available before fields that
// reference them, matching spec §4.7:
//
//  1. Structural extractors run first, against the uncleaned tree, because
//     they resolve cross-references by rid (author/affiliation linking)
//     or otherwise depend on element structure CleanInline would remove.
//  2. CleanInline then strips xref/target/ref/fn stubs in place.
//  3. Prose extractors (abstract, body) run against the cleaned tree.
//  4. Derived views (full_text, paragraphs, TOC) are computed last.
//
// Assembly is deterministic: identical input bytes always produce a
// byte-for-byte identical Document (spec §4.7, §8).
func Assemble(root *Node, pmcid string) *models.Document {
	doc := models.NewDocument()
	doc.PMCID = pmcid

	doc.Authors, doc.NonAuthorContributors = ExtractAuthors(root)
	doc.Citations = ExtractCitations(root)
	doc.Tables = ExtractTables(root)
	doc.Figures = ExtractFigures(root)
	doc.Equations = ExtractEquations(root)
	doc.PublishedDate = ExtractDates(root)
	doc.HistoryDates = ExtractHistoryDates(root)
	doc.Keywords = ExtractKeywords(root)
	doc.ArticleTypes = ExtractArticleTypes(root)
	doc.ArticleCategories = ExtractArticleCategories(root)
	doc.Funding = ExtractFunding(root)

	perm := ExtractPermissions(root)
	doc.CopyrightStatement = perm.CopyrightStatement
	doc.LicenseType = perm.LicenseType
	doc.Permissions = perm.LicenseText

	extra := ExtractExtras(root)
	doc.Acknowledgements = extra.Acknowledgements
	if extra.Footnotes != nil {
		doc.Footnotes = extra.Footnotes
	}
	if extra.Notes != nil {
		doc.Notes = extra.Notes
	}
	if extra.SupplementaryMaterials != nil {
		doc.SupplementaryMaterials = extra.SupplementaryMaterials
	}
	if extra.Appendices != nil {
		doc.Appendices = extra.Appendices
	}
	if extra.RelatedArticles != nil {
		doc.RelatedArticles = extra.RelatedArticles
	}
	if extra.SelfURIs != nil {
		doc.SelfURIs = extra.SelfURIs
	}
	doc.Conference = extra.Conference

	meta := ExtractMeta(root)
	doc.Title = meta.Title
	doc.ArticleID = meta.ArticleID
	if !doc.ArticleID.Has("pmcid") {
		doc.ArticleID.Set("pmcid", "PMC"+pmcid)
	}
	doc.JournalTitle = meta.JournalTitle
	doc.JournalID = meta.JournalID
	doc.PublisherName = meta.PublisherName
	doc.PublisherLocation = meta.PublisherLocation
	doc.Volume = meta.Volume
	doc.Issue = meta.Issue
	doc.FirstPage = meta.FirstPage
	doc.LastPage = meta.LastPage
	doc.ElocationID = meta.ElocationID

	// Prose extraction follows cleaning: xref/target/ref/fn stubs are
	// removed in place so abstract/body text reads grammatically.
	CleanInline(root)

	doc.Abstract = ExtractAbstract(root)
	body := ExtractBody(root)
	doc.Body = body.Flat
	doc.BodyNested = body.Nested
	doc.Paragraphs = body.Paragraphs

	doc.AbstractText = joinOrdered(doc.Abstract, "\n\n")
	bodyText := joinOrdered(doc.Body, "\n\n")

	switch {
	case doc.AbstractText != "" && bodyText != "":
		doc.FullText = doc.AbstractText + "\n\n" + bodyText
	case doc.AbstractText != "":
		doc.FullText = doc.AbstractText
	default:
		doc.FullText = bodyText
	}

	return doc
}

func joinOrdered(m *models.OrderedStringMap, sep string) string {
	values := m.Values()
	out := ""
	for i, v := range values {
		if i > 0 {
			out += sep
		}
		out += v
	}
	return out
}
