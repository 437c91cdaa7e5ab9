package serialize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/pmcgrab/internal/models"
)

func sampleDocument() *models.Document {
	d := models.NewDocument()
	d.PMCID = "7181753"
	d.Title = "Unicode: café & <script> résumé"
	d.Abstract.Set("Abstract", "Widgets are crucial.")
	d.AbstractText = "Widgets are crucial."
	d.ArticleID.Set("pmcid", "PMC7181753")
	d.Authors = []models.Author{{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Affiliations: []string{"Analytical Engine Dept."},
		Type:         "Author",
	}}
	d.Paragraphs = []models.Paragraph{{Section: "Intro", ParagraphIndex: 0, Text: "Hello."}}
	d.Figures = []models.Figure{{ID: "f1", GraphicHref: "fig1.jpg", AltText: "a figure"}}
	return d
}

func TestFromDocumentIsPureReshape(t *testing.T) {
	d := sampleDocument()
	a := FromDocument(d)

	assert.Equal(t, d.PMCID, a.PMCID)
	assert.Equal(t, d.Title, a.Title)
	assert.Same(t, d.Abstract, a.Abstract)
	assert.Same(t, d.ArticleID, a.ArticleID)
}

func TestMarshalFieldOrderMatchesContract(t *testing.T) {
	a := FromDocument(sampleDocument())
	data, err := Marshal(a, false)
	require.NoError(t, err)

	pmcIdx := strings.Index(string(data), `"pmc_id"`)
	titleIdx := strings.Index(string(data), `"title"`)
	fullTextIdx := strings.Index(string(data), `"full_text"`)

	require.GreaterOrEqual(t, pmcIdx, 0)
	require.GreaterOrEqual(t, titleIdx, 0)
	require.GreaterOrEqual(t, fullTextIdx, 0)
	assert.Less(t, pmcIdx, titleIdx)
	assert.Less(t, titleIdx, fullTextIdx)
}

func TestMarshalDoesNotEscapeHTMLOrUnicode(t *testing.T) {
	a := FromDocument(sampleDocument())
	data, err := Marshal(a, false)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "café & <script> résumé", "raw Unicode and HTML metacharacters must survive unescaped, not as \\u00e9 / \\u0026 / \\u003c")
}

func TestMarshalUsesSnakeCaseKeysInNestedStructs(t *testing.T) {
	a := FromDocument(sampleDocument())
	data, err := Marshal(a, false)
	require.NoError(t, err)

	var roundTrip map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &roundTrip))

	authors, ok := roundTrip["authors"].([]interface{})
	require.True(t, ok)
	require.Len(t, authors, 1)
	author := authors[0].(map[string]interface{})
	assert.Equal(t, "Lovelace", author["last_name"])
	assert.Equal(t, "Ada", author["first_name"])
	assert.NotContains(t, author, "LastName", "nested structs must not leak Go field names into the artifact")

	paragraphs, ok := roundTrip["paragraphs"].([]interface{})
	require.True(t, ok)
	require.Len(t, paragraphs, 1)
	para := paragraphs[0].(map[string]interface{})
	assert.Equal(t, float64(0), para["paragraph_index"])

	figures, ok := roundTrip["figures"].([]interface{})
	require.True(t, ok)
	require.Len(t, figures, 1)
	figure := figures[0].(map[string]interface{})
	assert.Equal(t, "fig1.jpg", figure["graphic_href"])
	assert.Equal(t, "a figure", figure["alt_text"])
}

func TestMarshalIndentTogglesPrettyPrinting(t *testing.T) {
	a := FromDocument(sampleDocument())

	compact, err := Marshal(a, false)
	require.NoError(t, err)
	pretty, err := Marshal(a, true)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(compact), "\n"))
	assert.Greater(t, strings.Count(string(pretty), "\n"), 1)

	var roundTrip map[string]interface{}
	require.NoError(t, json.Unmarshal(pretty, &roundTrip))
	assert.Equal(t, "7181753", roundTrip["pmc_id"])
}
