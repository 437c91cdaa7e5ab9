// Package serialize implements the Serializer (C8): it converts an
// assembled Document into the portable, UTF-8 key-value artifact format
// described in spec §6, in per-item-file or single-stream mode.
package serialize

import (
	"bytes"
	"encoding/json"

	"github.com/ternarybob/pmcgrab/internal/models"
)

// Artifact mirrors models.Document field-for-field but fixes the JSON key
// order and names to the external contract (spec §6's top-level key
// list). encoding/json emits struct fields in declaration order, so this
// struct's field order IS the emitted artifact's field order; Document
// itself carries no json tags because its field order is for Go
// ergonomics only; the contract lives here instead.
type Artifact struct {
	PMCID        string                    `json:"pmc_id"`
	Title        string                    `json:"title"`
	AbstractText string                    `json:"abstract_text"`
	Abstract     *models.OrderedStringMap  `json:"abstract"`
	Body         *models.OrderedStringMap  `json:"body"`
	BodyNested   *models.OrderedBodyMap    `json:"body_nested"`
	Paragraphs   []models.Paragraph        `json:"paragraphs"`

	Authors               []models.Author `json:"authors"`
	NonAuthorContributors []models.Author `json:"non_author_contributors"`

	ArticleID         *models.OrderedStringMap `json:"article_id"`
	JournalTitle      string                   `json:"journal_title"`
	JournalID         *models.OrderedStringMap `json:"journal_id"`
	PublisherName     string                   `json:"publisher_name"`
	PublisherLocation string                   `json:"publisher_location"`

	Volume      string `json:"volume"`
	Issue       string `json:"issue"`
	FirstPage   string `json:"first_page"`
	LastPage    string `json:"last_page"`
	ElocationID string `json:"elocation_id"`

	PublishedDate *models.OrderedStringMap `json:"published_date"`
	HistoryDates  *models.OrderedStringMap `json:"history_dates"`

	Keywords          []string `json:"keywords"`
	ArticleTypes      []string `json:"article_types"`
	ArticleCategories []string `json:"article_categories"`

	Citations []models.Citation `json:"citations"`
	Tables    []models.Table    `json:"tables"`
	Figures   []models.Figure   `json:"figures"`
	Equations []models.Equation `json:"equations"`

	SupplementaryMaterials []string `json:"supplementary_materials"`
	Footnotes              []string `json:"footnotes"`
	Acknowledgements       string   `json:"acknowledgements"`
	Notes                  []string `json:"notes"`
	Appendices             []string `json:"appendices"`
	Glossary               *models.OrderedStringMap `json:"glossary"`
	Funding                []string `json:"funding"`
	Ethics                 string   `json:"ethics"`
	Permissions            string   `json:"permissions"`
	CopyrightStatement     string   `json:"copyright_statement"`
	LicenseType            string   `json:"license_type"`
	RelatedArticles        []string `json:"related_articles"`
	Conference             string   `json:"conference"`
	TranslatedTitles       *models.OrderedStringMap `json:"translated_titles"`
	TranslatedAbstracts    *models.OrderedStringMap `json:"translated_abstracts"`
	VersionHistory         []string                 `json:"version_history"`
	Counts                 *models.OrderedStringMap `json:"counts"`
	SelfURIs               []string                 `json:"self_uris"`
	CustomMeta             *models.OrderedStringMap `json:"custom_meta"`
	FullText               string                   `json:"full_text"`
}

// FromDocument copies a Document's fields into the artifact view. It is a
// pure reshape: no field is computed here, matching the assembler's
// determinism guarantee (spec §4.7/§8) — identical Documents always
// produce identical artifacts.
func FromDocument(d *models.Document) *Artifact {
	return &Artifact{
		PMCID:                  d.PMCID,
		Title:                  d.Title,
		AbstractText:           d.AbstractText,
		Abstract:               d.Abstract,
		Body:                   d.Body,
		BodyNested:             d.BodyNested,
		Paragraphs:             d.Paragraphs,
		Authors:                d.Authors,
		NonAuthorContributors:  d.NonAuthorContributors,
		ArticleID:              d.ArticleID,
		JournalTitle:           d.JournalTitle,
		JournalID:              d.JournalID,
		PublisherName:          d.PublisherName,
		PublisherLocation:      d.PublisherLocation,
		Volume:                 d.Volume,
		Issue:                  d.Issue,
		FirstPage:              d.FirstPage,
		LastPage:               d.LastPage,
		ElocationID:            d.ElocationID,
		PublishedDate:          d.PublishedDate,
		HistoryDates:           d.HistoryDates,
		Keywords:               d.Keywords,
		ArticleTypes:           d.ArticleTypes,
		ArticleCategories:      d.ArticleCategories,
		Citations:              d.Citations,
		Tables:                 d.Tables,
		Figures:                d.Figures,
		Equations:              d.Equations,
		SupplementaryMaterials: d.SupplementaryMaterials,
		Footnotes:              d.Footnotes,
		Acknowledgements:       d.Acknowledgements,
		Notes:                  d.Notes,
		Appendices:             d.Appendices,
		Glossary:               d.Glossary,
		Funding:                d.Funding,
		Ethics:                 d.Ethics,
		Permissions:            d.Permissions,
		CopyrightStatement:     d.CopyrightStatement,
		LicenseType:            d.LicenseType,
		RelatedArticles:        d.RelatedArticles,
		Conference:             d.Conference,
		TranslatedTitles:       d.TranslatedTitles,
		TranslatedAbstracts:    d.TranslatedAbstracts,
		VersionHistory:         d.VersionHistory,
		Counts:                 d.Counts,
		SelfURIs:               d.SelfURIs,
		CustomMeta:             d.CustomMeta,
		FullText:               d.FullText,
	}
}

// Marshal renders an Artifact as JSON without HTML-escaping, so Unicode
// and bare ampersands in the plain string fields (title, abstract_text,
// full_text, ...) survive unescaped (spec §4.8: "Unicode is preserved
// without escape"). Ordered-map fields (abstract, body, body_nested,
// article_id, ...) are rendered by their own MarshalJSON via json.Marshal,
// so they keep encoding/json's default HTML escaping of <, > and &;
// non-ASCII Unicode stays unescaped there too. indent controls whether the
// output is pretty-printed (per-item files) or compact single-line
// (stream mode).
func Marshal(a *Artifact, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(a); err != nil {
		return nil, err
	}
	// Encode always appends a trailing newline; callers control their
	// own line framing (per-item files want one, stream mode wants one
	// per record), so this is exactly what both modes need.
	return buf.Bytes(), nil
}
