package docx

import "strings"

// Type definitions for the WordprocessingML structures we care about. Only
// tables with their content and formatting survive parsing - drug guides are
// tables, anything else in the document body is decoration.

// Document is the typed representation of word/document.xml limited to what
// conversion needs.
type Document struct {
	Tables []Table
	Styles *StyleSheet
}

// Table mirrors <w:tbl>: an ordered list of rows plus table level formatting.
type Table struct {
	Rows  []Row
	Props TableProps
}

// TableProps aggregates <w:tblPr> values.
type TableProps struct {
	Borders     BorderSet
	CellMargins MarginSet
}

// Row mirrors <w:tr>. Cells here are raw: one entry per <w:tc> element, merge
// geometry is not resolved.
type Row struct {
	Cells []Cell
}

// VMerge is the vertical merge state recorded on a cell. OOXML records merges
// on follower cells only: the top cell of a merged range restarts, every cell
// below it continues.
type VMerge int

const (
	VMergeNone VMerge = iota
	VMergeRestart
	VMergeContinue
)

// Cell mirrors <w:tc> with its <w:tcPr> formatting.
type Cell struct {
	GridSpan   int // horizontal span, at least 1
	VMerge     VMerge
	Fill       string // shading fill as written, may be "auto"
	VAlign     string // "", "top", "center", "bottom"
	Borders    BorderSet
	Margins    MarginSet
	Paragraphs []Paragraph
}

// Border describes one side of a cell or table frame.
type Border struct {
	Style string // OOXML border style token, e.g. "single"
	Size  *int   // width in eighths of a point when present
	Color string // hex without '#', may be "auto"
}

// BorderSet holds per-side borders, any side may be absent.
type BorderSet struct {
	Top, Bottom, Left, Right *Border
	InsideH, InsideV         *Border
}

// Side returns the border for a side by its OOXML name.
func (b *BorderSet) Side(name string) (Border, bool) {
	var side *Border
	switch name {
	case "top":
		side = b.Top
	case "bottom":
		side = b.Bottom
	case "left":
		side = b.Left
	case "right":
		side = b.Right
	case "insideH":
		side = b.InsideH
	case "insideV":
		side = b.InsideV
	}
	if side == nil {
		return Border{}, false
	}
	return *side, true
}

// MarginSet holds per-side margins in twips, any side may be absent.
type MarginSet struct {
	Top, Bottom, Left, Right *int
}

// Side returns the margin for a side by its OOXML name.
func (m *MarginSet) Side(name string) (int, bool) {
	var side *int
	switch name {
	case "top":
		side = m.Top
	case "bottom":
		side = m.Bottom
	case "left":
		side = m.Left
	case "right":
		side = m.Right
	}
	if side == nil {
		return 0, false
	}
	return *side, true
}

// Background returns explicit cell shading. Fills marked "auto" mean "let the
// application decide" and are reported as absent.
func (c *Cell) Background() (string, bool) {
	if c.Fill == "" || c.Fill == "auto" {
		return "", false
	}
	return c.Fill, true
}

// VerticalAlignment returns the explicit vertical alignment setting.
func (c *Cell) VerticalAlignment() (string, bool) {
	if c.VAlign == "" {
		return "", false
	}
	return c.VAlign, true
}

// Paragraph mirrors <w:p> with the subset of <w:pPr> conversion uses.
type Paragraph struct {
	StyleID      string
	Alignment    string // "", "left", "center", "right", "both", ...
	SpaceBefore  *int   // twips
	SpaceAfter   *int   // twips
	LineSpacing  *float64
	ListItem     bool // carries <w:numPr>
	Runs         []Run
}

// Text returns concatenated run text of the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Run mirrors <w:r> with its character formatting.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Color     string // hex without '#', may be "auto"
	Highlight string // OOXML highlight token, e.g. "yellow"
}

// FontColor returns explicit run color, skipping the "auto" marker.
func (r *Run) FontColor() (string, bool) {
	if r.Color == "" || r.Color == "auto" {
		return "", false
	}
	return r.Color, true
}

// Grid returns the physical grid view of the table: a horizontally merged
// cell repeats for every grid column it spans and a vertical continuation
// resolves to the cell directly above it (transitively the restart cell).
// This is the view cell identifiers and normalized rows are built from.
func (t *Table) Grid() [][]*Cell {
	grid := make([][]*Cell, len(t.Rows))
	for r := range t.Rows {
		var row []*Cell
		for c := range t.Rows[r].Cells {
			cell := &t.Rows[r].Cells[c]
			span := cell.GridSpan
			if span < 1 {
				span = 1
			}
			for i := 0; i < span; i++ {
				resolved := cell
				if cell.VMerge == VMergeContinue && r > 0 && len(grid[r-1]) > len(row) {
					resolved = grid[r-1][len(row)]
				}
				row = append(row, resolved)
			}
		}
		grid[r] = row
	}
	return grid
}

// GridWidth returns the widest physical row of the table.
func (t *Table) GridWidth() int {
	width := 0
	for _, row := range t.Grid() {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
