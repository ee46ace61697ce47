package guide

import (
	"fmt"
	"html"
	"strings"

	"github.com/Dtrusso8/jimsdrugguides/docx"
)

// HTML fragment rendering. Fragments are self contained: formatting travels
// as inline CSS, merged cells become rowspan/colspan attributes, and the
// whole thing is wrapped in a section keyed by the guide slug so a host page
// can address it. Built with string assembly rather than a DOM because the
// output deliberately contains raw "&nbsp;" entities that any serializer
// would re-escape.

// RenderFragment produces the HTML fragment for a document. Documents with
// no tables render an explanatory placeholder paragraph instead.
func RenderFragment(d *docx.Document, guideSlug string) string {
	var parts []string
	for i := range d.Tables {
		parts = append(parts, renderTable(&d.Tables[i], d.Styles, i+1))
	}
	if len(parts) == 0 {
		parts = append(parts, `<p class="guide-empty">No tables were found in this guide.</p>`)
	}
	return fmt.Sprintf("<section class=\"guide-fragment\" data-guide=\"%s\">\n%s\n</section>",
		guideSlug, strings.Join(parts, "\n"))
}

func renderTable(t *docx.Table, styles *docx.StyleSheet, index int) string {
	geometry := ResolveGeometry(t)
	var rowChunks []string

	for r := range t.Rows {
		tag := "td"
		if r == 0 {
			tag = "th"
		}
		var cellChunks []string
		for c := range t.Rows[r].Cells {
			place := geometry[r][c]
			if place.Skip {
				continue
			}
			var attrs []string
			if place.ColSpan > 1 {
				attrs = append(attrs, fmt.Sprintf(`colspan="%d"`, place.ColSpan))
			}
			if place.RowSpan > 1 {
				attrs = append(attrs, fmt.Sprintf(`rowspan="%d"`, place.RowSpan))
			}
			if style := cellStyles(&t.Rows[r].Cells[c]); style != "" {
				attrs = append(attrs, `style="`+style+`"`)
			}
			attrString := ""
			if len(attrs) > 0 {
				attrString = " " + strings.Join(attrs, " ")
			}
			inner := renderCell(&t.Rows[r].Cells[c], styles)
			cellChunks = append(cellChunks, fmt.Sprintf("    <%s%s>%s</%s>", tag, attrString, inner, tag))
		}
		if len(cellChunks) > 0 {
			rowChunks = append(rowChunks, "  <tr>\n"+strings.Join(cellChunks, "\n")+"\n  </tr>")
		}
	}

	tableAttrs := []string{
		fmt.Sprintf(`class="guide-table guide-table-%d"`, index),
		fmt.Sprintf(`data-table-index="%d"`, index),
	}
	if width := t.GridWidth(); width > 0 {
		tableAttrs = append(tableAttrs, fmt.Sprintf(`data-columns="%d"`, width))
	}
	if style := tableStyles(t); style != "" {
		tableAttrs = append(tableAttrs, `style="`+style+`"`)
	}
	return fmt.Sprintf("<table %s>\n%s\n</table>", strings.Join(tableAttrs, " "), strings.Join(rowChunks, "\n"))
}

func renderCell(c *docx.Cell, styles *docx.StyleSheet) string {
	var paragraphs []string
	for i := range c.Paragraphs {
		paragraphs = append(paragraphs, renderParagraph(&c.Paragraphs[i], styles))
	}
	merged := strings.Join(paragraphs, "\n")
	if merged == "" {
		return nbspEntity
	}
	return merged
}

func renderParagraph(p *docx.Paragraph, styles *docx.StyleSheet) string {
	var runs []string
	for i := range p.Runs {
		if rendered := renderRun(&p.Runs[i]); rendered != "" {
			runs = append(runs, rendered)
		}
	}
	text := strings.Join(runs, "")
	if text == "" {
		text = nbspEntity
	}

	var classes []string
	if named, ok := styles.Paragraph(p.StyleID); ok && named.Name != "" {
		if sanitized := makeSlug(named.Name); sanitized != "" {
			classes = append(classes, "para-"+sanitized)
		}
	}
	if p.ListItem {
		classes = append(classes, "para-list")
	}

	classAttr := ""
	if len(classes) > 0 {
		classAttr = ` class="` + strings.Join(classes, " ") + `"`
	}
	styleAttr := ""
	if style := paragraphStyles(p, styles); style != "" {
		styleAttr = ` style="` + style + `"`
	}
	return "<p" + classAttr + styleAttr + ">" + text + "</p>"
}

// renderRun wraps escaped run text in its formatting, outermost to
// innermost: strong, em, underline span, then a span for color and
// highlight. Runs without text render as nothing.
func renderRun(r *docx.Run) string {
	if r.Text == "" {
		return ""
	}
	text := html.EscapeString(r.Text)

	var opening, closing []string
	wrap := func(o, c string) {
		opening = append(opening, o)
		closing = append([]string{c}, closing...)
	}
	if r.Bold {
		wrap("<strong>", "</strong>")
	}
	if r.Italic {
		wrap("<em>", "</em>")
	}
	if r.Underline {
		wrap(`<span style="text-decoration: underline;">`, "</span>")
	}
	if style := runStyles(r); style != "" {
		wrap(`<span style="`+style+`">`, "</span>")
	}
	return strings.Join(opening, "") + text + strings.Join(closing, "")
}
