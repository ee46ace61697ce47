package guide

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Dtrusso8/jimsdrugguides/docx"
)

// Inline style extraction. Every formatting decision the source document
// makes - shading, borders, margins, alignment - is carried into the HTML
// fragment as inline CSS so the fragment renders faithfully without any
// external stylesheet.

// fallbackBorderColor is used when a border carries no usable color value.
const fallbackBorderColor = "#13294b"

// borderStyleMap translates OOXML border style tokens to CSS line styles.
// Unlisted tokens fall back to solid.
var borderStyleMap = map[string]string{
	"nil":          "none",
	"none":         "none",
	"single":       "solid",
	"double":       "double",
	"dashed":       "dashed",
	"dotted":       "dotted",
	"thick":        "solid",
	"hairline":     "solid",
	"wave":         "wavy",
	"dashSmallGap": "dashed",
	"dashDot":      "dashed",
	"dashDotDot":   "dashed",
	"triple":       "double",
}

// highlightColors maps OOXML highlight tokens to display hex values.
var highlightColors = map[string]string{
	"yellow":      "#fff200",
	"cyan":        "#00a8e8",
	"green":       "#66ff00",
	"magenta":     "#ff66cc",
	"blue":        "#4f81bd",
	"red":         "#ff0000",
	"darkBlue":    "#17365d",
	"darkCyan":    "#31859b",
	"darkGreen":   "#00b050",
	"darkMagenta": "#7030a0",
	"darkRed":     "#c00000",
	"darkYellow":  "#806000",
	"darkGray":    "#808080",
	"lightGray":   "#c0c0c0",
	"black":       "#000000",
}

// twipsToPt converts twentieths of a point.
func twipsToPt(v int) float64 { return float64(v) / 20 }

// eighthPtToPt converts eighths of a point.
func eighthPtToPt(v int) float64 { return float64(v) / 8 }

func borderLineStyle(token string) string {
	if css, ok := borderStyleMap[token]; ok {
		return css
	}
	return "solid"
}

// borderCSS renders one border as a CSS shorthand value. Explicit "nil" and
// "none" styles come back as "none" so they override any inherited border. A
// missing or zero size renders as the 1pt hairline Word would draw.
func borderCSS(b docx.Border) string {
	if b.Style == "nil" || b.Style == "none" {
		return "none"
	}
	width := "1pt"
	if b.Size != nil && *b.Size != 0 {
		width = fmt.Sprintf("%.2fpt", eighthPtToPt(*b.Size))
	}
	color := fallbackBorderColor
	if b.Color != "" && b.Color != "auto" {
		color = "#" + b.Color
	}
	return width + " " + borderLineStyle(b.Style) + " " + color
}

// buildStyleString joins CSS declarations into a style attribute value:
// semicolon separated with a single trailing semicolon.
func buildStyleString(decls []string) string {
	if len(decls) == 0 {
		return ""
	}
	trimmed := make([]string, 0, len(decls))
	for _, d := range decls {
		d = strings.TrimRight(strings.TrimSpace(d), ";")
		d = strings.TrimSpace(d)
		if d != "" {
			trimmed = append(trimmed, d)
		}
	}
	if len(trimmed) == 0 {
		return ""
	}
	return strings.Join(trimmed, "; ") + ";"
}

// cellStyles collects the inline declarations for one table cell in a fixed
// order so identical formatting always serializes identically.
func cellStyles(c *docx.Cell) string {
	var decls []string
	if fill, ok := c.Background(); ok {
		decls = append(decls, "background-color: #"+fill)
	}
	if align, ok := c.VerticalAlignment(); ok {
		switch align {
		case "top":
			decls = append(decls, "vertical-align: top")
		case "center":
			decls = append(decls, "vertical-align: middle")
		case "bottom":
			decls = append(decls, "vertical-align: bottom")
		}
	}
	for _, side := range [...]string{"top", "bottom", "left", "right"} {
		if b, ok := c.Borders.Side(side); ok {
			decls = append(decls, "border-"+side+": "+borderCSS(b))
		}
	}
	for _, side := range [...]string{"top", "bottom", "left", "right"} {
		if twips, ok := c.Margins.Side(side); ok {
			decls = append(decls, fmt.Sprintf("padding-%s: %.2fpt", side, twipsToPt(twips)))
		}
	}
	return buildStyleString(decls)
}

// tableStyles collects table level declarations: collapse always, a frame
// border from the first side that defines one, and spacing derived from the
// widest default cell margin.
func tableStyles(t *docx.Table) string {
	decls := []string{"border-collapse: collapse"}
	for _, side := range [...]string{"top", "bottom", "left", "right", "insideH", "insideV"} {
		b, ok := t.Props.Borders.Side(side)
		if !ok || b.Style == "nil" || b.Style == "none" {
			continue
		}
		decls = append(decls, "border: "+borderCSS(b))
		break
	}
	spacing := 0
	for _, side := range [...]string{"top", "bottom", "left", "right"} {
		if twips, ok := t.Props.CellMargins.Side(side); ok && twips > spacing {
			spacing = twips
		}
	}
	if spacing > 0 {
		decls = append(decls, fmt.Sprintf("border-spacing: %.2fpt", twipsToPt(spacing)))
	}
	return buildStyleString(decls)
}

// paragraphStyles collects paragraph level declarations: alignment, the
// referenced named style's font settings, and explicit spacing.
func paragraphStyles(p *docx.Paragraph, styles *docx.StyleSheet) string {
	var decls []string
	switch p.Alignment {
	case "center":
		decls = append(decls, "text-align: center")
	case "right", "end":
		decls = append(decls, "text-align: right")
	case "both":
		decls = append(decls, "text-align: justify")
	}
	if named, ok := styles.Paragraph(p.StyleID); ok {
		if size, ok := named.FontSize(); ok {
			decls = append(decls, fmt.Sprintf("font-size: %.2fpt", size))
		}
		if color, ok := named.FontColor(); ok {
			decls = append(decls, "color: #"+color)
		}
	}
	// explicit zero spacing renders the same as no spacing
	if p.SpaceBefore != nil && *p.SpaceBefore != 0 {
		decls = append(decls, fmt.Sprintf("margin-top: %.2fpt", twipsToPt(*p.SpaceBefore)))
	}
	if p.SpaceAfter != nil && *p.SpaceAfter != 0 {
		decls = append(decls, fmt.Sprintf("margin-bottom: %.2fpt", twipsToPt(*p.SpaceAfter)))
	}
	if p.LineSpacing != nil && *p.LineSpacing != 0 {
		decls = append(decls, "line-height: "+formatLineSpacing(*p.LineSpacing))
	}
	return buildStyleString(decls)
}

// formatLineSpacing renders a unitless multiplier, keeping one decimal for
// whole values so single spacing reads as "1.0".
func formatLineSpacing(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// runStyles collects run level declarations beyond the semantic wrapper tags.
func runStyles(r *docx.Run) string {
	var decls []string
	if color, ok := r.FontColor(); ok {
		decls = append(decls, "color: #"+color)
	}
	if r.Highlight != "" {
		if hex, ok := highlightColors[r.Highlight]; ok {
			decls = append(decls, "background-color: "+hex)
		}
	}
	return buildStyleString(decls)
}
