package docx

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/Dtrusso8/jimsdrugguides/archive"
)

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"
)

// Open reads a .docx container and returns the typed document model. The
// styles part is optional: without it paragraphs simply resolve no named
// style. The document part is required.
func Open(path string, log *zap.Logger) (*Document, error) {

	styles := NewStyleSheet()
	if data, err := archive.ReadFile(path, stylesPart); err != nil {
		log.Debug("Document has no readable styles part", zap.String("file", path), zap.Error(err))
	} else if doc, err := parseXML(data); err != nil {
		log.Warn("Unable to parse styles part, continuing without styles", zap.String("file", path), zap.Error(err))
	} else if styles, err = ParseStyles(doc, log); err != nil {
		log.Warn("Unable to interpret styles part, continuing without styles", zap.String("file", path), zap.Error(err))
		styles = NewStyleSheet()
	}

	data, err := archive.ReadFile(path, documentPart)
	if err != nil {
		return nil, fmt.Errorf("unable to read document part: %w", err)
	}
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse document part: %w", err)
	}
	return ParseDocument(doc, styles, log)
}

// parseXML reads OOXML part into etree DOM. Word output is well formed UTF-8
// but we stay permissive, documents saved by other editors stray from the
// standard surprisingly often.
func parseXML(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	return doc, nil
}
