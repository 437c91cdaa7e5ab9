package jats

import (
	"fmt"

	"github.com/ternarybob/pmcgrab/internal/models"
)

// ExtractDates implements the Dates extractor (C6) for <pub-date>
// elements, keyed by their pub-type or date-type attribute.
func ExtractDates(root *Node) *models.OrderedStringMap {
	result := models.NewOrderedStringMap()
	for _, pd := range root.FindAll("pub-date") {
		key := pd.Attr("pub-type")
		if key == "" {
			key = pd.Attr("date-type")
		}
		if key == "" {
			key = "pub"
		}
		result.Set(key, assembleDate(pd))
	}
	return result
}

// ExtractHistoryDates implements the History Dates extractor (C6), for
// the <history><date date-type="received|accepted|revised"> elements.
func ExtractHistoryDates(root *Node) *models.OrderedStringMap {
	result := models.NewOrderedStringMap()
	for _, history := range root.FindAll("history") {
		for _, d := range history.Children("date") {
			key := d.Attr("date-type")
			if key == "" {
				continue
			}
			result.Set(key, assembleDate(d))
		}
	}
	return result
}

// assembleDate builds YYYY-MM-DD from a <year>/<month>/<day> triple,
// defaulting missing month/day to "01" (spec §4.6, §8 boundary behavior).
func assembleDate(dateNode *Node) string {
	year, month, day := "", "01", "01"
	if y := dateNode.FirstChild("year"); y != nil {
		year = DirectText(y)
	}
	if m := dateNode.FirstChild("month"); m != nil {
		if v := DirectText(m); v != "" {
			month = zeroPad(v)
		}
	}
	if d := dateNode.FirstChild("day"); d != nil {
		if v := DirectText(d); v != "" {
			day = zeroPad(v)
		}
	}
	if year == "" {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s", year, month, day)
}

func zeroPad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
