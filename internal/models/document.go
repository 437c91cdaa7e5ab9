// Package models holds the Document entity and the batch/ledger types
// shared across the XML parser, assembler, serializer, and orchestrator.
package models

// Author is a contributor record. In the source JATS each contributor is
// an ad-hoc attribute bag; here it is a tagged struct with an Extra map
// for the rarely used attributes (orcid, degrees) rather than open
// dynamic typing, per the reference design note on dynamically shaped
// contributor records.
type Author struct {
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Email        string            `json:"email"`
	Affiliations []string          `json:"affiliations"`
	Type         string            `json:"type"` // "Author" unless the source declares another contrib-type
	Extra        map[string]string `json:"extra"`
}

// Citation is one reference-list entry. Raw is always populated; the
// structured fields are best-effort.
type Citation struct {
	ID      string   `json:"id"`
	Raw     string   `json:"raw"`
	Authors []string `json:"authors"`
	Title   string   `json:"title"`
	Source  string   `json:"source"`
	Year    string   `json:"year"`
	Volume  string   `json:"volume"`
	Pages   string   `json:"pages"`
	DOI     string   `json:"doi"`
	PMID    string   `json:"pmid"`
	PMCID   string   `json:"pmcid"`
}

// Table is one table-wrap entity. Rows is a dense, rectangular matrix
// (short rows right-padded with "").
type Table struct {
	Label   string     `json:"label"`
	Caption string     `json:"caption"`
	Rows    [][]string `json:"rows"`
}

// Figure is one figure entity.
type Figure struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Caption     string `json:"caption"`
	GraphicHref string `json:"graphic_href"`
	AltText     string `json:"alt_text"`
}

// Equation is one disp-formula/inline-formula entity.
type Equation struct {
	ID     string `json:"id"`
	MathML string `json:"mathml"`
	TeX    string `json:"tex"`
}

// Paragraph is one leaf-section paragraph record.
type Paragraph struct {
	Section        string `json:"section"`
	Subsection     string `json:"subsection"`
	ParagraphIndex int    `json:"paragraph_index"`
	Text           string `json:"text"`
}

// Document is the central, immutable-after-assembly entity. Field order
// here is for Go ergonomics only; the serializer owns field emission
// order (spec-contracted, see internal/serialize).
type Document struct {
	PMCID string
	Title string

	Abstract     *OrderedStringMap
	AbstractText string

	Body       *OrderedStringMap
	BodyNested *OrderedBodyMap
	Paragraphs []Paragraph
	FullText   string

	Authors                []Author
	NonAuthorContributors  []Author

	ArticleID          *OrderedStringMap // id_type -> value, at least "pmcid"
	JournalTitle       string
	JournalID          *OrderedStringMap
	PublisherName      string
	PublisherLocation  string

	Volume      string
	Issue       string
	FirstPage   string
	LastPage    string
	ElocationID string

	PublishedDate *OrderedStringMap // pub_type -> YYYY-MM-DD
	HistoryDates  *OrderedStringMap // received/accepted/revised -> YYYY-MM-DD

	Keywords          []string
	ArticleTypes      []string
	ArticleCategories []string

	Citations []Citation
	Tables    []Table
	Figures   []Figure
	Equations []Equation

	SupplementaryMaterials []string
	Footnotes              []string
	Acknowledgements       string
	Notes                  []string
	Appendices             []string
	Glossary               *OrderedStringMap
	Funding                []string
	Ethics                 string
	Permissions            string
	CopyrightStatement     string
	LicenseType            string
	RelatedArticles        []string
	Conference             string
	TranslatedTitles       *OrderedStringMap
	TranslatedAbstracts    *OrderedStringMap
	VersionHistory         []string
	Counts                 *OrderedStringMap
	SelfURIs               []string
	CustomMeta             *OrderedStringMap
}

// NewDocument returns a Document with every ordered-mapping and slice
// field initialized to its empty-of-type value, so that unset fields
// serialize as {} / [] / "" rather than being nil (spec §6: "missing
// fields emit their empty-of-type value rather than being omitted").
func NewDocument() *Document {
	return &Document{
		Abstract:            NewOrderedStringMap(),
		Body:                NewOrderedStringMap(),
		BodyNested:          NewOrderedBodyMap(),
		Paragraphs:          []Paragraph{},
		Authors:             []Author{},
		NonAuthorContributors: []Author{},
		ArticleID:           NewOrderedStringMap(),
		JournalID:           NewOrderedStringMap(),
		PublishedDate:       NewOrderedStringMap(),
		HistoryDates:        NewOrderedStringMap(),
		Keywords:            []string{},
		ArticleTypes:        []string{},
		ArticleCategories:   []string{},
		Citations:           []Citation{},
		Tables:              []Table{},
		Figures:             []Figure{},
		Equations:           []Equation{},
		SupplementaryMaterials: []string{},
		Footnotes:           []string{},
		Notes:               []string{},
		Appendices:          []string{},
		Glossary:            NewOrderedStringMap(),
		Funding:             []string{},
		RelatedArticles:     []string{},
		TranslatedTitles:    NewOrderedStringMap(),
		TranslatedAbstracts: NewOrderedStringMap(),
		VersionHistory:      []string{},
		Counts:              NewOrderedStringMap(),
		SelfURIs:            []string{},
		CustomMeta:          NewOrderedStringMap(),
	}
}

// TOC returns the ordered list of top-level section titles from Body,
// satisfying the invariant d.get_toc() == list(d.body.keys()).
func (d *Document) TOC() []string {
	return d.Body.Keys()
}
