package guide

import (
	"github.com/Dtrusso8/jimsdrugguides/docx"
)

// Merge geometry. OOXML records vertical merges on follower cells only, so
// spans have to be reconstructed by looking down the column from every
// restart cell. Geometry is computed once per table up front and consulted by
// index during rendering.

// Placement describes how one raw cell participates in the rendered grid:
// either it claims a rectangle of the grid or it is a continuation consumed
// by a cell above and must not be rendered at all.
type Placement struct {
	RowSpan int
	ColSpan int
	Skip    bool
}

// ResolveGeometry computes a placement for every raw cell of the table,
// indexed as [row][cell].
func ResolveGeometry(t *docx.Table) [][]Placement {
	placements := make([][]Placement, len(t.Rows))
	for r := range t.Rows {
		placements[r] = make([]Placement, len(t.Rows[r].Cells))
		col := 0
		for c := range t.Rows[r].Cells {
			cell := &t.Rows[r].Cells[c]
			span := cell.GridSpan
			if span < 1 {
				span = 1
			}
			p := Placement{RowSpan: 1, ColSpan: span}
			switch cell.VMerge {
			case docx.VMergeContinue:
				p.Skip = true
			case docx.VMergeRestart:
				p.RowSpan = 1 + continuationDepth(t, r+1, col)
			}
			placements[r][c] = p
			col += span
		}
	}
	return placements
}

// continuationDepth counts contiguous continuation rows at the given grid
// column starting from row. The scan stops at the first restart, at the first
// cell without a merge marker, or when a ragged row has no cell at that
// column - a short row silently caps the span instead of breaking the grid.
func continuationDepth(t *docx.Table, row, col int) int {
	depth := 0
	for ; row < len(t.Rows); row++ {
		cell := cellAt(&t.Rows[row], col)
		if cell == nil || cell.VMerge != docx.VMergeContinue {
			break
		}
		depth++
	}
	return depth
}

// cellAt returns the raw cell covering the given grid column, nil when the
// row ends before it.
func cellAt(row *docx.Row, col int) *docx.Cell {
	at := 0
	for i := range row.Cells {
		span := row.Cells[i].GridSpan
		if span < 1 {
			span = 1
		}
		if col < at+span {
			return &row.Cells[i]
		}
		at += span
	}
	return nil
}
