package docx

import (
	"errors"
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// XML parsing for the WordprocessingML document part. We want exhaustive
// parsing of the table subtree: it is not very effective but ensures full
// correctness, gives us detailed debug output and the result should be easy
// to extend if necessary.

var errNoRoot = errors.New("document has no root element")

// ParseDocument walks the etree DOM of word/document.xml and constructs the
// typed representation used by conversion.
func ParseDocument(doc *etree.Document, styles *StyleSheet, log *zap.Logger) (*Document, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}

	root := doc.Root()
	if root == nil {
		return nil, errNoRoot
	}
	if root.Tag != "document" {
		return nil, errors.New("unexpected root element " + strconv.Quote(root.Tag))
	}

	body := root.SelectElement("body")
	if body == nil {
		return nil, errors.New("document has no body element")
	}

	if styles == nil {
		styles = NewStyleSheet()
	}
	d := &Document{Styles: styles}
	for _, child := range body.ChildElements() {
		switch child.Tag {
		case "tbl":
			d.Tables = append(d.Tables, parseTable(child, log))
		case "p", "sectPr", "bookmarkStart", "bookmarkEnd":
			// body level paragraphs and section setup do not contribute to guides
		default:
			log.Debug("Unexpected tag in document body, ignoring", zap.String("tag", child.Tag))
		}
	}
	return d, nil
}

func parseTable(el *etree.Element, log *zap.Logger) Table {
	var t Table
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "tblPr":
			t.Props = parseTableProps(child)
		case "tblGrid":
			// column widths are not used, grid shape is derived from cells
		case "tr":
			t.Rows = append(t.Rows, parseRow(child, log))
		default:
			log.Debug("Unexpected tag in table, ignoring", zap.String("tag", child.Tag))
		}
	}
	return t
}

func parseTableProps(el *etree.Element) TableProps {
	var props TableProps
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "tblBorders":
			props.Borders = parseBorderSet(child)
		case "tblCellMar":
			props.CellMargins = parseMarginSet(child)
		}
	}
	return props
}

func parseRow(el *etree.Element, log *zap.Logger) Row {
	var row Row
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "tc":
			row.Cells = append(row.Cells, parseCell(child, log))
		case "trPr", "tblPrEx":
			// row heights and property exceptions are not used
		default:
			log.Debug("Unexpected tag in table row, ignoring", zap.String("tag", child.Tag))
		}
	}
	return row
}

func parseCell(el *etree.Element, log *zap.Logger) Cell {
	cell := Cell{GridSpan: 1}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "tcPr":
			parseCellProps(child, &cell)
		case "p":
			cell.Paragraphs = append(cell.Paragraphs, parseParagraph(child, log))
		case "tbl":
			// nested tables are flattened away, only their position is lost
			log.Debug("Nested table in cell, ignoring")
		default:
			log.Debug("Unexpected tag in table cell, ignoring", zap.String("tag", child.Tag))
		}
	}
	return cell
}

func parseCellProps(el *etree.Element, cell *Cell) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "gridSpan":
			if v, err := strconv.Atoi(attrValue(child, "val")); err == nil && v > 0 {
				cell.GridSpan = v
			}
		case "vMerge":
			if attrValue(child, "val") == "restart" {
				cell.VMerge = VMergeRestart
			} else {
				// no value means continuation
				cell.VMerge = VMergeContinue
			}
		case "shd":
			cell.Fill = attrValue(child, "fill")
		case "vAlign":
			cell.VAlign = attrValue(child, "val")
		case "tcBorders":
			cell.Borders = parseBorderSet(child)
		case "tcMar":
			cell.Margins = parseMarginSet(child)
		}
	}
}

func parseBorderSet(el *etree.Element) BorderSet {
	var set BorderSet
	for _, child := range el.ChildElements() {
		b := &Border{
			Style: attrValue(child, "val"),
			Color: attrValue(child, "color"),
		}
		if v, err := strconv.Atoi(attrValue(child, "sz")); err == nil {
			b.Size = &v
		}
		switch child.Tag {
		case "top":
			set.Top = b
		case "bottom":
			set.Bottom = b
		case "left", "start":
			set.Left = b
		case "right", "end":
			set.Right = b
		case "insideH":
			set.InsideH = b
		case "insideV":
			set.InsideV = b
		}
	}
	return set
}

func parseMarginSet(el *etree.Element) MarginSet {
	var set MarginSet
	for _, child := range el.ChildElements() {
		v, err := strconv.Atoi(attrValue(child, "w"))
		if err != nil {
			continue
		}
		m := &v
		switch child.Tag {
		case "top":
			set.Top = m
		case "bottom":
			set.Bottom = m
		case "left", "start":
			set.Left = m
		case "right", "end":
			set.Right = m
		}
	}
	return set
}

func parseParagraph(el *etree.Element, log *zap.Logger) Paragraph {
	var p Paragraph
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "pPr":
			parseParagraphProps(child, &p)
		case "r":
			p.Runs = append(p.Runs, parseRun(child))
		case "hyperlink":
			// keep the runs, drop the link itself
			for _, sub := range child.ChildElements() {
				if sub.Tag == "r" {
					p.Runs = append(p.Runs, parseRun(sub))
				}
			}
		case "proofErr", "bookmarkStart", "bookmarkEnd":
			// markup noise
		default:
			log.Debug("Unexpected tag in paragraph, ignoring", zap.String("tag", child.Tag))
		}
	}
	return p
}

func parseParagraphProps(el *etree.Element, p *Paragraph) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "pStyle":
			p.StyleID = attrValue(child, "val")
		case "jc":
			p.Alignment = attrValue(child, "val")
		case "numPr":
			p.ListItem = true
		case "spacing":
			if v, err := strconv.Atoi(attrValue(child, "before")); err == nil {
				p.SpaceBefore = &v
			}
			if v, err := strconv.Atoi(attrValue(child, "after")); err == nil {
				p.SpaceAfter = &v
			}
			// only multiples of single line spacing translate to line-height,
			// exact and minimum heights have no meaningful CSS equivalent here
			rule := attrValue(child, "lineRule")
			if rule == "" || rule == "auto" {
				if v, err := strconv.ParseFloat(attrValue(child, "line"), 64); err == nil {
					spacing := v / 240
					p.LineSpacing = &spacing
				}
			}
		}
	}
}

func parseRun(el *etree.Element) Run {
	var run Run
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "rPr":
			parseRunProps(child, &run)
		case "t":
			run.Text += child.Text()
		case "br", "cr":
			run.Text += "\n"
		case "tab":
			run.Text += "\t"
		}
	}
	return run
}

func parseRunProps(el *etree.Element, run *Run) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "b":
			run.Bold = isOnOff(attrValue(child, "val"))
		case "i":
			run.Italic = isOnOff(attrValue(child, "val"))
		case "u":
			v := attrValue(child, "val")
			run.Underline = v != "none" && isOnOff(v)
		case "color":
			run.Color = attrValue(child, "val")
		case "highlight":
			run.Highlight = attrValue(child, "val")
		}
	}
}

// attrValue finds attribute by local name ignoring namespace prefix - guides
// come from many Word versions and we do not want to depend on the exact
// prefix spelling.
func attrValue(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// isOnOff interprets OOXML on/off values where element presence with no value
// means "on".
func isOnOff(v string) bool {
	switch v {
	case "0", "false", "off", "none":
		return false
	}
	return true
}
