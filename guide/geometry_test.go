package guide

import (
	"testing"

	"github.com/Dtrusso8/jimsdrugguides/docx"
)

func cell(span int, merge docx.VMerge) docx.Cell {
	return docx.Cell{GridSpan: span, VMerge: merge}
}

func TestResolveGeometry(t *testing.T) {
	t.Run("plain_table", func(t *testing.T) {
		table := &docx.Table{Rows: []docx.Row{
			{Cells: []docx.Cell{cell(1, docx.VMergeNone), cell(1, docx.VMergeNone)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeNone), cell(1, docx.VMergeNone)}},
		}}

		geometry := ResolveGeometry(table)
		for r := range geometry {
			for c, p := range geometry[r] {
				if p.Skip || p.RowSpan != 1 || p.ColSpan != 1 {
					t.Fatalf("unexpected placement at %d/%d: %+v", r, c, p)
				}
			}
		}
	})

	t.Run("horizontal_span", func(t *testing.T) {
		table := &docx.Table{Rows: []docx.Row{
			{Cells: []docx.Cell{cell(3, docx.VMergeNone)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeNone), cell(1, docx.VMergeNone), cell(1, docx.VMergeNone)}},
		}}

		geometry := ResolveGeometry(table)
		if got := geometry[0][0].ColSpan; got != 3 {
			t.Fatalf("expected colspan 3, got %d", got)
		}
	})

	t.Run("vertical_span_counts_continuations", func(t *testing.T) {
		table := &docx.Table{Rows: []docx.Row{
			{Cells: []docx.Cell{cell(1, docx.VMergeRestart), cell(1, docx.VMergeNone)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeContinue), cell(1, docx.VMergeNone)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeContinue), cell(1, docx.VMergeNone)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeNone), cell(1, docx.VMergeNone)}},
		}}

		geometry := ResolveGeometry(table)
		if got := geometry[0][0].RowSpan; got != 3 {
			t.Fatalf("expected rowspan 3, got %d", got)
		}
		if !geometry[1][0].Skip || !geometry[2][0].Skip {
			t.Fatalf("continuations must be skipped")
		}
		if geometry[3][0].Skip || geometry[3][0].RowSpan != 1 {
			t.Fatalf("cell after the merge should stand alone: %+v", geometry[3][0])
		}
	})

	t.Run("new_restart_stops_the_scan", func(t *testing.T) {
		table := &docx.Table{Rows: []docx.Row{
			{Cells: []docx.Cell{cell(1, docx.VMergeRestart)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeContinue)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeRestart)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeContinue)}},
		}}

		geometry := ResolveGeometry(table)
		if got := geometry[0][0].RowSpan; got != 2 {
			t.Fatalf("expected first rowspan 2, got %d", got)
		}
		if got := geometry[2][0].RowSpan; got != 2 {
			t.Fatalf("expected second rowspan 2, got %d", got)
		}
	})

	t.Run("merge_tracks_grid_column_not_cell_index", func(t *testing.T) {
		// the restart sits at grid column 2 because of the wide first cell,
		// the continuation below is the third raw cell of its row
		table := &docx.Table{Rows: []docx.Row{
			{Cells: []docx.Cell{cell(2, docx.VMergeNone), cell(1, docx.VMergeRestart)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeNone), cell(1, docx.VMergeNone), cell(1, docx.VMergeContinue)}},
		}}

		geometry := ResolveGeometry(table)
		if got := geometry[0][1].RowSpan; got != 2 {
			t.Fatalf("expected rowspan 2, got %d", got)
		}
		if !geometry[1][2].Skip {
			t.Fatalf("continuation under the wide cell must be skipped")
		}
	})

	t.Run("ragged_row_caps_the_span", func(t *testing.T) {
		table := &docx.Table{Rows: []docx.Row{
			{Cells: []docx.Cell{cell(1, docx.VMergeNone), cell(1, docx.VMergeRestart)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeNone), cell(1, docx.VMergeContinue)}},
			{Cells: []docx.Cell{cell(1, docx.VMergeNone)}},
		}}

		geometry := ResolveGeometry(table)
		if got := geometry[0][1].RowSpan; got != 2 {
			t.Fatalf("expected rowspan capped at 2, got %d", got)
		}
	})

	t.Run("rendered_columns_stay_consistent", func(t *testing.T) {
		table := &docx.Table{Rows: []docx.Row{
			{Cells: []docx.Cell{cell(2, docx.VMergeRestart), cell(1, docx.VMergeNone)}},
			{Cells: []docx.Cell{cell(2, docx.VMergeContinue), cell(1, docx.VMergeNone)}},
		}}

		geometry := ResolveGeometry(table)
		// each rendered row covers the same number of grid columns once
		// rowspans from above are taken into account
		covered := func(r int) int {
			total := 0
			for _, p := range geometry[r] {
				if !p.Skip {
					total += p.ColSpan
				}
			}
			return total
		}
		if covered(0) != 3 {
			t.Fatalf("expected first row to cover 3 columns, got %d", covered(0))
		}
		// second row renders only the last cell, the merge covers the rest
		if covered(1) != 1 {
			t.Fatalf("expected second row to cover 1 column, got %d", covered(1))
		}
	})
}
