package docx

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docFooter = `</w:body></w:document>`

func parseTestDocument(t *testing.T, body string) *Document {
	t.Helper()
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tree, err := parseXML([]byte(docHeader + body + docFooter))
	if err != nil {
		t.Fatalf("unable to parse test xml: %v", err)
	}
	doc, err := ParseDocument(tree, NewStyleSheet(), log)
	if err != nil {
		t.Fatalf("unable to parse document: %v", err)
	}
	return doc
}

func TestParseDocument(t *testing.T) {
	t.Run("table_with_text", func(t *testing.T) {
		doc := parseTestDocument(t, `<w:tbl>
			<w:tr><w:tc><w:p><w:r><w:t>Drug</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Dose</w:t></w:r></w:p></w:tc></w:tr>
			<w:tr><w:tc><w:p><w:r><w:t>Aspirin</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>81 mg</w:t></w:r></w:p></w:tc></w:tr>
		</w:tbl>`)

		if len(doc.Tables) != 1 {
			t.Fatalf("expected 1 table, got %d", len(doc.Tables))
		}
		table := doc.Tables[0]
		if len(table.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(table.Rows))
		}
		if got := table.Rows[0].Cells[0].Paragraphs[0].Text(); got != "Drug" {
			t.Fatalf("wrong header cell text: %q", got)
		}
		if got := table.Rows[1].Cells[1].Paragraphs[0].Text(); got != "81 mg" {
			t.Fatalf("wrong data cell text: %q", got)
		}
	})

	t.Run("paragraphs_outside_tables_ignored", func(t *testing.T) {
		doc := parseTestDocument(t, `<w:p><w:r><w:t>preamble</w:t></w:r></w:p><w:tbl><w:tr><w:tc><w:p/></w:tc></w:tr></w:tbl>`)
		if len(doc.Tables) != 1 {
			t.Fatalf("expected 1 table, got %d", len(doc.Tables))
		}
	})

	t.Run("merge_markers", func(t *testing.T) {
		doc := parseTestDocument(t, `<w:tbl>
			<w:tr>
				<w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>wide</w:t></w:r></w:p></w:tc>
			</w:tr>
			<w:tr>
				<w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>tall</w:t></w:r></w:p></w:tc>
				<w:tc><w:p/></w:tc>
			</w:tr>
			<w:tr>
				<w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>
				<w:tc><w:p/></w:tc>
			</w:tr>
		</w:tbl>`)

		table := doc.Tables[0]
		if got := table.Rows[0].Cells[0].GridSpan; got != 2 {
			t.Fatalf("expected gridSpan 2, got %d", got)
		}
		if got := table.Rows[1].Cells[0].VMerge; got != VMergeRestart {
			t.Fatalf("expected restart marker, got %v", got)
		}
		// vMerge without value continues the merge above
		if got := table.Rows[2].Cells[0].VMerge; got != VMergeContinue {
			t.Fatalf("expected continue marker, got %v", got)
		}
	})

	t.Run("cell_formatting", func(t *testing.T) {
		doc := parseTestDocument(t, `<w:tbl><w:tr><w:tc>
			<w:tcPr>
				<w:shd w:val="clear" w:fill="DDEEFF"/>
				<w:vAlign w:val="center"/>
				<w:tcBorders><w:top w:val="single" w:sz="8" w:color="FF0000"/><w:bottom w:val="nil"/></w:tcBorders>
				<w:tcMar><w:left w:w="120" w:type="dxa"/></w:tcMar>
			</w:tcPr>
			<w:p/>
		</w:tc></w:tr></w:tbl>`)

		cell := doc.Tables[0].Rows[0].Cells[0]
		if fill, ok := cell.Background(); !ok || fill != "DDEEFF" {
			t.Fatalf("wrong background: %q ok=%v", fill, ok)
		}
		if align, ok := cell.VerticalAlignment(); !ok || align != "center" {
			t.Fatalf("wrong alignment: %q ok=%v", align, ok)
		}
		top, ok := cell.Borders.Side("top")
		if !ok || top.Style != "single" || top.Size == nil || *top.Size != 8 || top.Color != "FF0000" {
			t.Fatalf("wrong top border: %+v ok=%v", top, ok)
		}
		if bottom, ok := cell.Borders.Side("bottom"); !ok || bottom.Style != "nil" {
			t.Fatalf("wrong bottom border: %+v ok=%v", bottom, ok)
		}
		if left, ok := cell.Margins.Side("left"); !ok || left != 120 {
			t.Fatalf("wrong left margin: %d ok=%v", left, ok)
		}
	})

	t.Run("run_formatting", func(t *testing.T) {
		doc := parseTestDocument(t, `<w:tbl><w:tr><w:tc><w:p>
			<w:pPr><w:jc w:val="center"/><w:numPr><w:ilvl w:val="0"/></w:numPr><w:spacing w:before="240" w:line="360" w:lineRule="auto"/></w:pPr>
			<w:r><w:rPr><w:b/><w:i/><w:u w:val="single"/><w:color w:val="112233"/><w:highlight w:val="yellow"/></w:rPr><w:t>hot</w:t></w:r>
			<w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t xml:space="preserve"> cold</w:t></w:r>
		</w:p></w:tc></w:tr></w:tbl>`)

		p := doc.Tables[0].Rows[0].Cells[0].Paragraphs[0]
		if p.Alignment != "center" {
			t.Fatalf("wrong alignment: %q", p.Alignment)
		}
		if !p.ListItem {
			t.Fatalf("expected list item marker")
		}
		if p.SpaceBefore == nil || *p.SpaceBefore != 240 {
			t.Fatalf("wrong space before: %v", p.SpaceBefore)
		}
		if p.LineSpacing == nil || *p.LineSpacing != 1.5 {
			t.Fatalf("wrong line spacing: %v", p.LineSpacing)
		}

		r := p.Runs[0]
		if !r.Bold || !r.Italic || !r.Underline {
			t.Fatalf("wrong run toggles: %+v", r)
		}
		if r.Color != "112233" || r.Highlight != "yellow" {
			t.Fatalf("wrong run colors: %+v", r)
		}
		if p.Runs[1].Bold {
			t.Fatalf("explicitly disabled bold should be off")
		}
		if got := p.Text(); got != "hot cold" {
			t.Fatalf("wrong paragraph text: %q", got)
		}
	})

	t.Run("breaks_become_newlines", func(t *testing.T) {
		doc := parseTestDocument(t, `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>one</w:t><w:br/><w:t>two</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)
		if got := doc.Tables[0].Rows[0].Cells[0].Paragraphs[0].Text(); got != "one\ntwo" {
			t.Fatalf("wrong text: %q", got)
		}
	})
}

func TestTableGrid(t *testing.T) {
	t.Run("horizontal_merge_repeats", func(t *testing.T) {
		doc := parseTestDocument(t, `<w:tbl><w:tr>
			<w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>wide</w:t></w:r></w:p></w:tc>
			<w:tc><w:p><w:r><w:t>narrow</w:t></w:r></w:p></w:tc>
		</w:tr></w:tbl>`)

		grid := doc.Tables[0].Grid()
		if len(grid[0]) != 3 {
			t.Fatalf("expected 3 grid columns, got %d", len(grid[0]))
		}
		if grid[0][0] != grid[0][1] {
			t.Fatalf("merged cell should repeat across its columns")
		}
		if grid[0][2].Paragraphs[0].Text() != "narrow" {
			t.Fatalf("wrong last column")
		}
	})

	t.Run("vertical_merge_resolves_upward", func(t *testing.T) {
		doc := parseTestDocument(t, `<w:tbl>
			<w:tr><w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>tall</w:t></w:r></w:p></w:tc><w:tc><w:p/></w:tc></w:tr>
			<w:tr><w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc><w:tc><w:p/></w:tc></w:tr>
			<w:tr><w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc><w:tc><w:p/></w:tc></w:tr>
		</w:tbl>`)

		grid := doc.Tables[0].Grid()
		if grid[1][0] != grid[0][0] || grid[2][0] != grid[0][0] {
			t.Fatalf("continuations should resolve to the restart cell")
		}
		if got := grid[2][0].Paragraphs[0].Text(); got != "tall" {
			t.Fatalf("wrong resolved text: %q", got)
		}
	})

	t.Run("grid_width", func(t *testing.T) {
		doc := parseTestDocument(t, `<w:tbl>
			<w:tr><w:tc><w:p/></w:tc></w:tr>
			<w:tr><w:tc><w:tcPr><w:gridSpan w:val="3"/></w:tcPr><w:p/></w:tc></w:tr>
		</w:tbl>`)
		if got := doc.Tables[0].GridWidth(); got != 3 {
			t.Fatalf("expected width 3, got %d", got)
		}
	})
}
