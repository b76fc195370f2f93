package hocr

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/ocrlayout/pkg/geom"
	"github.com/gardar/ocrlayout/pkg/region"
)

var (
	// ErrNoElements is returned when a document holds no ocr_* elements
	ErrNoElements = errors.New("no hOCR elements found")
	// ErrUnsupportedCharset is returned for a declared charset Parse cannot decode
	ErrUnsupportedCharset = errors.New("unsupported charset")
	// ErrNoBBox is reported by Regions for an element without a bbox
	ErrNoBBox = errors.New("element has no bbox")
)

var charsets = map[string]encoding.Encoding{
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

// declaredCharset returns the lower-cased charset named in the document
// head, or "utf-8" when none is declared
func declaredCharset(data []byte) string {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	i := bytes.Index(bytes.ToLower(head), []byte("charset="))
	if i < 0 {
		return "utf-8"
	}
	rest := string(head[i+len("charset="):])
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == '/' || r == ' '
	})
	if len(fields) == 0 {
		return "utf-8"
	}
	return strings.ToLower(fields[0])
}

// decode converts data to UTF-8 according to its declared charset
func decode(data []byte) ([]byte, error) {
	cs := declaredCharset(data)
	if cs == "utf-8" || cs == "utf8" || cs == "us-ascii" {
		return data, nil
	}
	enc, ok := charsets[cs]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCharset, cs)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", cs, err)
	}
	return out, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// parseBBox reads the bbox property of a parsed title
func parseBBox(props map[string][]string) (geom.Rect, bool) {
	v, ok := props["bbox"]
	if !ok || len(v) < 4 {
		return geom.Rect{}, false
	}
	var c [4]int
	for i := range c {
		n, err := strconv.Atoi(v[i])
		if err != nil {
			return geom.Rect{}, false
		}
		c[i] = n
	}
	return geom.NewRect(c[0], c[1], c[2], c[3]), true
}

// ocrClass returns the first ocr_* or ocrx_* class of a node
func ocrClass(n *html.Node) string {
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		if strings.HasPrefix(c, "ocr_") || strings.HasPrefix(c, "ocrx_") {
			return c
		}
	}
	return ""
}

// Parse reads hOCR data into a flat list of elements in document order
func Parse(data []byte) ([]Element, error) {
	decoded, err := decode(data)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	var out []Element
	var walk func(n *html.Node, parent int)
	walk = func(n *html.Node, parent int) {
		if n.Type == html.ElementNode {
			if class := ocrClass(n); class != "" {
				props := ParseTitle(getAttrVal(n, "title"))
				e := Element{
					Class:      class,
					ID:         getAttrVal(n, "id"),
					Confidence: -1,
					Text:       textOf(n),
					Parent:     parent,
				}
				e.BBox, e.HasBBox = parseBBox(props)
				if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
					if v, err := strconv.ParseFloat(conf[0], 64); err == nil {
						e.Confidence = v
					}
				}
				out = append(out, e)
				parent = len(out) - 1
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, parent)
		}
	}
	walk(doc, -1)

	if len(out) == 0 {
		return nil, ErrNoElements
	}
	return out, nil
}

// textOf collects the text below n, joining words by spaces and ocr_line
// elements by newlines
func textOf(n *html.Node) string {
	var (
		done []string
		cur  []string
	)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			cur = append(cur, strings.Fields(n.Data)...)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && ocrClass(n) == "ocr_line" && len(cur) > 0 {
			done = append(done, strings.Join(cur, " "))
			cur = nil
		}
	}
	walk(n)
	if len(cur) > 0 {
		done = append(done, strings.Join(cur, " "))
	}
	return strings.Join(done, "\n")
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}

// Regions converts parsed elements into unlinked regions. Elements without a
// bbox are skipped and reported. The returned map gives the region index of
// every converted element.
func Regions(elements []Element) ([]region.Region, map[int]int, []error) {
	var (
		out   []region.Region
		skips []error
	)
	index := make(map[int]int, len(elements))
	for i, e := range elements {
		if !e.HasBBox {
			skips = append(skips, fmt.Errorf("%s %q (element %d): %w", e.Class, e.ID, i, ErrNoBBox))
			continue
		}
		var conf float32
		if e.Confidence >= 0 {
			conf = float32(e.Confidence / 100)
		}
		index[i] = len(out)
		out = append(out, region.New(len(out), e.Text, e.BBox, conf))
	}
	return out, index, skips
}
