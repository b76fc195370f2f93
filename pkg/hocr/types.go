package hocr

import "github.com/gardar/ocrlayout/pkg/geom"

// Document represents an entire hOCR document
type Document struct {
	Title    string // Document title
	Language string // Document language
	System   string // Value of the ocr-system meta tag
	Pages    []Page // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string    // Unique identifier
	PageNumber int       // Zero based physical page number
	ImageName  string    // Source image filename
	BBox       geom.Rect // Page coordinates
	Areas      []Area    // Content areas (blocks)
	Lines      []Line    // Lines directly under page
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Area represents a content area (block)
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string      // Unique identifier
	BBox       geom.Rect   // Area coordinates
	Paragraphs []Paragraph // Paragraphs in this area
}

// Class assign 'ocr_carea' to 'Area' struct
func (Area) Class() string { return "ocr_carea" }

// Paragraph represents a paragraph within an area
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID    string    // Unique identifier
	BBox  geom.Rect // Paragraph coordinates
	Lines []Line    // Text lines in this paragraph
}

// Class assign 'ocr_par' to 'Paragraph' struct
func (Paragraph) Class() string { return "ocr_par" }

// Line represents a line of text. A line built from assembled text carries
// its Text directly and has no words.
// Corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID         string    // Unique identifier
	BBox       geom.Rect // Line coordinates
	Confidence float64   // Recognition confidence (0-100), zero when unknown
	Text       string    // Line text when Words is empty
	Words      []Word    // Words in this line
}

// Class assign 'ocr_line' to 'Line' struct
func (Line) Class() string { return "ocr_line" }

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string    // Unique identifier
	Text       string    // The actual text content
	BBox       geom.Rect // Word coordinates
	Confidence float64   // Recognition confidence (0-100)
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// Element is one hOCR element read back by Parse
type Element struct {
	Class      string    // First ocr_* or ocrx_* class of the element
	ID         string    // id attribute
	BBox       geom.Rect // bbox property of the title attribute
	HasBBox    bool      // Whether the title carried a usable bbox
	Confidence float64   // x_wconf property (0-100), -1 when absent
	Text       string    // Words joined by spaces, lines by newlines
	Parent     int       // Index of the enclosing element, -1 for none
}
