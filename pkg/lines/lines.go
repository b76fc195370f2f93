// Package lines rebuilds readable text lines from a stream of recognized
// symbols annotated with break markers.
//
// Symbols are consumed once, in order. Text accumulates until a symbol carries
// an end-of-line break, at which point a Line is emitted with the union of the
// contributing symbol rectangles and the lowest confidence seen since the
// previous line. Whatever is left when the stream ends is flushed as a final
// line.
package lines

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gardar/ocrlayout/pkg/geom"
)

// BreakKind classifies what follows a symbol
type BreakKind int

const (
	BreakNone      BreakKind = iota // No break, the next symbol continues the word
	BreakSpace                      // Word boundary within the line
	BreakSureSpace                  // Wide space at the end of a line
	BreakLineBreak                  // Line ends here
	BreakOther                      // Any other detected break, treated as a space
)

var breakNames = map[BreakKind]string{
	BreakNone:      "none",
	BreakSpace:     "space",
	BreakSureSpace: "sure_space",
	BreakLineBreak: "line_break",
	BreakOther:     "other",
}

func (k BreakKind) String() string {
	if s, ok := breakNames[k]; ok {
		return s
	}
	return fmt.Sprintf("BreakKind(%d)", int(k))
}

// confidenceCeiling is above any valid confidence, which lies in [0,1]
const confidenceCeiling float32 = 1.01

var (
	// ErrUnknownBreak is reported for a break marker outside the known kinds
	ErrUnknownBreak = errors.New("unknown break kind")
	// ErrNoBoundingBox is reported for a symbol without a rectangle
	ErrNoBoundingBox = errors.New("symbol has no bounding box")
)

// Symbol is one recognized glyph
type Symbol struct {
	Text       string     // Usually a single character
	Rect       *geom.Rect // Glyph bounding box, nil when the recognizer gave none
	Confidence float32    // Recognition confidence in [0,1]
	Break      BreakKind  // What follows this symbol
}

// Word groups symbols that share a word-level confidence
type Word struct {
	Confidence float32
	Symbols    []Symbol
}

// Line is one emitted line of text
type Line struct {
	Index      int       `json:"index"`
	Text       string    `json:"text"`
	Rect       geom.Rect `json:"rect"`
	Confidence float32   `json:"confidence"`
	Area       int64     `json:"area"`
}

// SymbolError describes a symbol that could not be fully interpreted.
// The pass that produced it carried on with the next symbol.
type SymbolError struct {
	Position int    // Position of the symbol in the stream it came from
	Text     string // Symbol text
	Line     int    // Index the pending line will get when emitted
	Err      error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %d %q (line %d): %v", e.Position, e.Text, e.Line, e.Err)
}

func (e *SymbolError) Unwrap() error { return e.Err }

// lineState is the accumulator for the line being built
type lineState struct {
	text    strings.Builder
	rect    geom.Rect
	hasRect bool
	minConf float32
}

func newLineState() *lineState {
	return &lineState{minConf: confidenceCeiling}
}

func (s *lineState) observe(conf float32) {
	if conf < s.minConf {
		s.minConf = conf
	}
}

func (s *lineState) grow(r geom.Rect) {
	if !s.hasRect {
		s.rect = r
		s.hasRect = true
		return
	}
	s.rect = s.rect.Union(r)
}

func (s *lineState) reset() {
	s.text.Reset()
	s.rect = geom.Rect{}
	s.hasRect = false
	s.minConf = confidenceCeiling
}
