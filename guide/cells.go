package guide

import (
	"fmt"
	"regexp"
	"strings"
)

// Cell identifiers and the annotation map. Identifiers address positions in
// the physical grid of the structured payload: tables are numbered from 1 in
// payload order, rows from 0 with the header row as row 0, columns from 0.

const nbspEntity = "&nbsp;"

// NoDataSentinel marks annotation summaries that hold no curated content.
// Such entries never migrate between cells.
const NoDataSentinel = "no data"

// CellID composes the canonical identifier for a grid position.
func CellID(table, row, col int) string {
	return fmt.Sprintf("table_%d_row_%d_col_%d", table, row, col)
}

var cellIDRe = regexp.MustCompile(`^table_\d+_row_\d+_col_\d+$`)

// ValidCellID reports whether id matches the canonical identifier grammar.
func ValidCellID(id string) bool {
	return cellIDRe.MatchString(id)
}

var markupTagRe = regexp.MustCompile(`<[^>]+>`)

// NormalizeContent reduces cell content to its comparable core: markup tags
// stripped and whitespace trimmed. Annotation content is stored in this form
// and content based migration matches on it.
func NormalizeContent(s string) string {
	return strings.TrimSpace(markupTagRe.ReplaceAllString(s, ""))
}

// Annotation is the curated layer attached to one cell: the extracted
// content it belongs to plus an editor supplied summary.
type Annotation struct {
	Content     string `json:"content"`
	Summary     string `json:"summary"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// AnnotationMap keys annotations by cell identifier.
type AnnotationMap map[string]Annotation

// FreshAnnotations builds the annotation map for freshly normalized tables:
// one empty summary entry per cell that carries visible content. Blank cells
// and placeholder non breaking spaces get no entry.
func FreshAnnotations(tables []NormalizedTable) AnnotationMap {
	m := make(AnnotationMap)
	add := func(table, row, col int, text string) {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || trimmed == nbspEntity {
			return
		}
		normalized := NormalizeContent(text)
		if normalized == "" {
			return
		}
		m[CellID(table, row, col)] = Annotation{Content: normalized, Summary: ""}
	}
	for ti, t := range tables {
		for col, header := range t.Headers {
			add(ti+1, 0, col, header)
		}
		for ri, row := range t.Rows {
			for col, cell := range row {
				add(ti+1, ri+1, col, cell)
			}
		}
	}
	return m
}
