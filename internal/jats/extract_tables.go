package jats

import (
	"strconv"

	"github.com/ternarybob/pmcgrab/internal/models"
)

// ExtractTables implements the Tables extractor (C6): thead rows then
// tbody rows, colspan/rowspan expanded into a dense rectangular matrix
// padded with empty strings (spec §4.6, §8 invariant).
func ExtractTables(root *Node) []models.Table {
	var tables []models.Table

	for _, wrap := range root.FindAll("table-wrap") {
		t := models.Table{}
		if label := wrap.FirstChild("label"); label != nil {
			t.Label = Text(label)
		}
		if caption := wrap.FirstChild("caption"); caption != nil {
			t.Caption = Text(caption)
		}

		table := wrap.FirstChild("table")
		if table == nil {
			tables = append(tables, t)
			continue
		}

		var rowNodes []*Node
		if thead := table.FirstChild("thead"); thead != nil {
			rowNodes = append(rowNodes, thead.Children("tr")...)
		}
		if tbody := table.FirstChild("tbody"); tbody != nil {
			rowNodes = append(rowNodes, tbody.Children("tr")...)
		}
		// Some JATS tables have bare <tr> children with no thead/tbody.
		if len(rowNodes) == 0 {
			rowNodes = table.Children("tr")
		}

		t.Rows = expandSpans(rowNodes)
		tables = append(tables, t)
	}

	return tables
}

type carryCell struct {
	value     string
	remaining int
}

// expandSpans materializes colspan/rowspan attributes into a dense matrix.
func expandSpans(rowNodes []*Node) [][]string {
	var matrix [][]string
	carry := make(map[int]*carryCell)
	maxCols := 0

	for _, row := range rowNodes {
		cells := row.Children("th", "td")
		var out []string
		col := 0
		cellIdx := 0

		for {
			if c, ok := carry[col]; ok && c.remaining > 0 {
				out = append(out, c.value)
				c.remaining--
				col++
				continue
			}
			if cellIdx >= len(cells) {
				break
			}
			cell := cells[cellIdx]
			cellIdx++
			value := Text(cell)

			colspan := parseSpan(cell.Attr("colspan"))
			rowspan := parseSpan(cell.Attr("rowspan"))

			for s := 0; s < colspan; s++ {
				out = append(out, value)
				if rowspan > 1 {
					carry[col] = &carryCell{value: value, remaining: rowspan - 1}
				}
				col++
			}
		}

		if len(out) > maxCols {
			maxCols = len(out)
		}
		matrix = append(matrix, out)

		for k, c := range carry {
			if c.remaining <= 0 {
				delete(carry, k)
			}
		}
	}

	for i, row := range matrix {
		for len(row) < maxCols {
			row = append(row, "")
		}
		matrix[i] = row
	}

	return matrix
}

func parseSpan(attr string) int {
	if attr == "" {
		return 1
	}
	n, err := strconv.Atoi(attr)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
