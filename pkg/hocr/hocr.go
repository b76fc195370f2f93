// Package hocr reads and writes hOCR, the HTML-based format for OCR results.
//
// Writing goes through a small object model (Document, Page, Area,
// Paragraph, Line, Word) rendered with an embedded template. Reading
// flattens every ocr_* element into an Element so the geometry can be fed
// to the region hierarchy builder.
//
// Key Types:
//
// - Document: Top-level structure representing an entire hOCR document
// - Page, Area, Paragraph, Line, Word: the 'ocr_page' to 'ocrx_word' levels
// - Element: one parsed hOCR element with its bbox and confidence
//
// Main Functions:
//
// - FromLines: Builds a page from assembled text lines
// - Generate: Renders a Document as hOCR HTML
// - Parse: Reads hOCR HTML into a flat list of elements
// - Regions: Converts parsed elements into regions
package hocr
