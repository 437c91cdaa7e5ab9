package jats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsNonArticleDocument(t *testing.T) {
	_, err := Parse([]byte(`<not-an-article/>`))
	require.Error(t, err)
}

func TestParseRejectsMalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<article><unterminated`))
	require.Error(t, err)
}

func TestParseFindsFirstTopLevelArticle(t *testing.T) {
	root, err := Parse([]byte(`<article article-type="review"><front/></article>`))
	require.NoError(t, err)
	assert.Equal(t, "article", root.Name)
	assert.Equal(t, "review", root.Attr("article-type"))
}

func TestNodeChildrenAndFirstChild(t *testing.T) {
	root, err := Parse([]byte(`<article><a/><b id="x"/><b id="y"/></article>`))
	require.NoError(t, err)

	bs := root.Children("b")
	require.Len(t, bs, 2)
	assert.Equal(t, "x", bs[0].Attr("id"))
	assert.Equal(t, "y", bs[1].Attr("id"))

	first := root.FirstChild("b")
	require.NotNil(t, first)
	assert.Equal(t, "x", first.Attr("id"))

	assert.Nil(t, root.FirstChild("missing"))
}

func TestNodeFindAllIsDepthFirst(t *testing.T) {
	root, err := Parse([]byte(`<article><sec><p>one</p><sec><p>two</p></sec></sec></article>`))
	require.NoError(t, err)

	ps := root.FindAll("p")
	require.Len(t, ps, 2)
	assert.Equal(t, "one", DirectText(ps[0]))
	assert.Equal(t, "two", DirectText(ps[1]))
}

func TestParseDecodesNamedEntities(t *testing.T) {
	root, err := Parse([]byte(`<article><p>10&mu;g&nbsp;per&ndash;dose</p></article>`))
	require.NoError(t, err)
	p := root.FirstChild("p")
	require.NotNil(t, p)
	assert.Equal(t, "10μg per–dose", DirectText(p))
}
