package guide

import (
	"strings"

	"github.com/Dtrusso8/jimsdrugguides/docx"
)

// NormalizedTable is the rendering independent view of one table: first row
// as headers, remaining rows as data. Cell text follows the physical grid, so
// merged cells contribute their content once per grid position they cover.
type NormalizedTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// normalizeTable flattens one table over its physical grid. Tables without
// rows report ok=false and are excluded from the structured payload.
func normalizeTable(t *docx.Table) (NormalizedTable, bool) {
	grid := t.Grid()
	if len(grid) == 0 {
		return NormalizedTable{}, false
	}
	nt := NormalizedTable{
		Headers: make([]string, 0, len(grid[0])),
		Rows:    make([][]string, 0, len(grid)-1),
	}
	for _, cell := range grid[0] {
		nt.Headers = append(nt.Headers, cellText(cell))
	}
	for _, row := range grid[1:] {
		texts := make([]string, 0, len(row))
		for _, cell := range row {
			texts = append(texts, cellText(cell))
		}
		nt.Rows = append(nt.Rows, texts)
	}
	return nt, true
}

// cellText flattens a cell to plain text: run text concatenated per
// paragraph, empty paragraphs dropped, the rest joined with "<br>" literals
// so multi paragraph cells survive a round trip through the JSON payload.
func cellText(c *docx.Cell) string {
	var parts []string
	for i := range c.Paragraphs {
		text := strings.TrimSpace(c.Paragraphs[i].Text())
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "<br>"))
}
