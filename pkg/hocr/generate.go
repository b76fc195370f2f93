package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"strconv"
	"text/template"

	"github.com/gardar/ocrlayout/pkg/geom"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"esc":   html.EscapeString,
	"bbox":  formatBBox,
	"wconf": func(c float64) string { return strconv.FormatFloat(c, 'f', 0, 64) },
}

// formatBBox renders a rectangle as an hOCR bbox property
func formatBBox(r geom.Rect) string {
	return fmt.Sprintf("bbox %d %d %d %d", r.Left, r.Top, r.Right(), r.Bottom())
}

// Generate creates an hOCR HTML document from the Document struct
func Generate(doc *Document) ([]byte, error) {
	tmpl, err := template.New("hocr.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/hocr.tmpl")
	if err != nil {
		return nil, fmt.Errorf("error parsing hOCR template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.Bytes(), nil
}
