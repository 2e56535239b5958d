package markup

import (
	"fmt"
	"html"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports"
)

var _ ports.Exporter = (*Exporter)(nil)

// Exporter encodes compiled documents. Production export formats live
// behind the same interface outside this module; the built-in formats
// are plain text (one buffer per page) and a single-buffer HTML
// rendition.
type Exporter struct{}

// NewExporter creates the built-in exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export encodes the document for the given format selector.
func (e *Exporter) Export(doc *domain.Document, format string, ppi float32) ([][]byte, error) {
	switch format {
	case "txt", "text":
		buffers := make([][]byte, 0, len(doc.Pages))
		for _, page := range doc.Pages {
			buffers = append(buffers, []byte(page.Text()+"\n"))
		}
		return buffers, nil
	case "html":
		return [][]byte{exportHTML(doc, ppi)}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "no exporter for format"), "format", format)
	}
}

func exportHTML(doc *domain.Document, ppi float32) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<meta name=\"generator\" content=\"quill\">\n<meta name=\"ppi\" content=\"%g\">\n", ppi)
	b.WriteString("</head>\n<body>\n")

	for _, page := range doc.Pages {
		fmt.Fprintf(&b, "<section data-page=\"%d\">\n", page.Number)
		for _, line := range page.Lines {
			if line == "" {
				b.WriteString("<br>\n")
				continue
			}
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(line))
		}
		b.WriteString("</section>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}
