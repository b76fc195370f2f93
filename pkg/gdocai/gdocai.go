// Package gdocai feeds Google Document AI OCR results into the region
// hierarchy builder and the line assembler.
//
// Document AI already returns blocks, paragraphs, lines and tokens, but as
// separate flat lists tied together only by offsets into the document text.
// This package turns those lists into pixel-space regions so the containment
// hierarchy can be rebuilt geometrically, and into token streams whose line
// ends are marked so the line assembler reproduces Document AI's lines with a
// bounding box and a pessimistic confidence.
//
// Main Functions:
//
// - ProcessDocument: sends a document to Document AI
// - PageRegions: blocks, paragraphs, lines and tokens of a page as regions
// - PageLines: assembled lines of a page
// - PageImage: the rendered page image returned by Document AI
// - MarshalDocument / UnmarshalDocument: raw response persistence
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS environment variable
package gdocai

// Config identifies the Document AI processor to use
type Config struct {
	ProjectID   string // Google Cloud project
	Location    string // Processor location, e.g. "us" or "eu"
	ProcessorID string // OCR processor id
}
