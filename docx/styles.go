package docx

import (
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// NamedStyle carries the small slice of a paragraph style conversion needs:
// presentation name and the style level font settings.
type NamedStyle struct {
	ID    string
	Name  string
	SizePt *float64 // font size in points when the style sets one
	Color string   // hex without '#'
}

// FontSize returns the style level font size in points.
func (s *NamedStyle) FontSize() (float64, bool) {
	if s == nil || s.SizePt == nil {
		return 0, false
	}
	return *s.SizePt, true
}

// FontColor returns the style level font color.
func (s *NamedStyle) FontColor() (string, bool) {
	if s == nil || s.Color == "" || s.Color == "auto" {
		return "", false
	}
	return s.Color, true
}

// StyleSheet indexes paragraph styles from word/styles.xml.
type StyleSheet struct {
	byID       map[string]*NamedStyle
	defaultPar *NamedStyle
}

// NewStyleSheet returns an empty stylesheet - every lookup misses.
func NewStyleSheet() *StyleSheet {
	return &StyleSheet{byID: make(map[string]*NamedStyle)}
}

// Paragraph resolves a style reference. An empty id resolves to the
// document's default paragraph style when one is defined.
func (ss *StyleSheet) Paragraph(id string) (*NamedStyle, bool) {
	if ss == nil {
		return nil, false
	}
	if id == "" {
		if ss.defaultPar == nil {
			return nil, false
		}
		return ss.defaultPar, true
	}
	s, ok := ss.byID[id]
	return s, ok
}

// ParseStyles walks the etree DOM of word/styles.xml and indexes paragraph
// styles. Unknown content is ignored - styles are advisory for rendering,
// never required.
func ParseStyles(doc *etree.Document, log *zap.Logger) (*StyleSheet, error) {
	ss := NewStyleSheet()

	root := doc.Root()
	if root == nil {
		return nil, errNoRoot
	}
	if root.Tag != "styles" {
		log.Warn("Unexpected root element in styles part, ignoring styles", zap.String("tag", root.Tag))
		return ss, nil
	}

	for _, el := range root.ChildElements() {
		if el.Tag != "style" || attrValue(el, "type") != "paragraph" {
			continue
		}
		style := &NamedStyle{ID: attrValue(el, "styleId")}
		for _, child := range el.ChildElements() {
			switch child.Tag {
			case "name":
				style.Name = attrValue(child, "val")
			case "rPr":
				for _, pr := range child.ChildElements() {
					switch pr.Tag {
					case "sz":
						// stored in half points
						if v, err := strconv.ParseFloat(attrValue(pr, "val"), 64); err == nil {
							pt := v / 2
							style.SizePt = &pt
						}
					case "color":
						style.Color = attrValue(pr, "val")
					}
				}
			}
		}
		if style.ID == "" && style.Name == "" {
			continue
		}
		ss.byID[style.ID] = style
		if def := attrValue(el, "default"); (def == "1" || def == "true") && ss.defaultPar == nil {
			ss.defaultPar = style
		}
	}
	return ss, nil
}
