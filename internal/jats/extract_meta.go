package jats

import "github.com/ternarybob/pmcgrab/internal/models"

// metaResult bundles the straightforward front-matter fields (spec §3,
// §4.6) that don't warrant their own file.
type metaResult struct {
	Title             string
	ArticleID         *models.OrderedStringMap
	JournalTitle      string
	JournalID         *models.OrderedStringMap
	PublisherName     string
	PublisherLocation string
	Volume            string
	Issue             string
	FirstPage         string
	LastPage          string
	ElocationID       string
}

// ExtractMeta implements the article/journal/publisher identity fields.
func ExtractMeta(root *Node) metaResult {
	var m metaResult
	m.ArticleID = models.NewOrderedStringMap()
	m.JournalID = models.NewOrderedStringMap()

	for _, meta := range root.FindAll("article-meta") {
		if tg := meta.FirstChild("title-group"); tg != nil {
			if at := tg.FirstChild("article-title"); at != nil {
				m.Title = Text(at)
			}
		}
		for _, aid := range meta.Children("article-id") {
			idType := aid.Attr("pub-id-type")
			if idType == "" {
				idType = "unknown"
			}
			m.ArticleID.Set(idType, DirectText(aid))
		}
		if v := meta.FirstChild("volume"); v != nil {
			m.Volume = DirectText(v)
		}
		if i := meta.FirstChild("issue"); i != nil {
			m.Issue = DirectText(i)
		}
		if f := meta.FirstChild("fpage"); f != nil {
			m.FirstPage = DirectText(f)
		}
		if l := meta.FirstChild("lpage"); l != nil {
			m.LastPage = DirectText(l)
		}
		if e := meta.FirstChild("elocation-id"); e != nil {
			m.ElocationID = DirectText(e)
		}
		break
	}

	for _, meta := range root.FindAll("journal-meta") {
		for _, jid := range meta.Children("journal-id") {
			idType := jid.Attr("journal-id-type")
			if idType == "" {
				idType = "unknown"
			}
			m.JournalID.Set(idType, DirectText(jid))
		}
		if tg := meta.FirstChild("journal-title-group"); tg != nil {
			if jt := tg.FirstChild("journal-title"); jt != nil {
				m.JournalTitle = Text(jt)
			}
		} else if jt := meta.FirstChild("journal-title"); jt != nil {
			m.JournalTitle = Text(jt)
		}
		if pub := meta.FirstChild("publisher"); pub != nil {
			if pn := pub.FirstChild("publisher-name"); pn != nil {
				m.PublisherName = Text(pn)
			}
			if pl := pub.FirstChild("publisher-loc"); pl != nil {
				m.PublisherLocation = Text(pl)
			}
		}
		break
	}

	return m
}

// ArticleTypeAttr returns the root <article>'s article-type attribute,
// the primary entry of the Article Types extractor.
func ArticleTypeAttr(root *Node) string {
	return root.Attr("article-type")
}
