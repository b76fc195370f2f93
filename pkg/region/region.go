// Package region builds a containment hierarchy over a flat set of recognized
// entities (words, lines, paragraphs, blocks) using nothing but their bounding
// rectangles.
//
// Regions live in a caller-owned slice. A region's Index is its position in
// that slice, and Parent/Children hold indexes into it, so the links are plain
// relationship edges and never own the regions they point at.
//
// Key Types:
//
// - Region: one recognized entity with its rectangle, area and links
// - SizeIndex: regions ordered by area, duplicate areas allowed
// - Forest: the result of BuildHierarchy with traversal helpers
//
// Main Functions:
//
// - FromPolygon: creates a Region from a four-corner polygon
// - FindParent: attaches one region to its smallest enclosing region
// - BuildHierarchy: attaches every region of a set
package region

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gardar/ocrlayout/pkg/geom"
)

// NoParent marks a region without an enclosing region
const NoParent = -1

// displayWidth is the number of runes of text shown by Region.String
const displayWidth = 25

// Region is one recognized visual entity
type Region struct {
	Index      int       `json:"index"`              // Position in the master slice
	Text       string    `json:"text"`               // Recovered text, never truncated
	Rect       geom.Rect `json:"rect"`               // Axis-aligned bounding box
	Area       int64     `json:"area"`               // Rect.Width * Rect.Height
	Confidence float32   `json:"confidence"`         // Minimum contributing confidence
	Parent     int       `json:"parent"`             // Index of the enclosing region or NoParent
	Children   []int     `json:"children,omitempty"` // Indexes of directly nested regions
}

// New creates an unlinked region
func New(index int, text string, rect geom.Rect, confidence float32) Region {
	return Region{
		Index:      index,
		Text:       text,
		Rect:       rect,
		Area:       rect.Area(),
		Confidence: confidence,
		Parent:     NoParent,
	}
}

// MalformedError reports a source polygon that could not be turned into a region
type MalformedError struct {
	Index    int    // Ordinal of the rejected entity in its source
	Text     string // Text of the rejected entity
	Vertices int    // Number of vertices found
	Err      error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed region %d %q (%d vertices): %v", e.Index, e.Text, e.Vertices, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// FromPolygon creates a region from a four-corner polygon.
// Any other vertex count is rejected with a *MalformedError.
func FromPolygon(index int, text string, points []geom.Point, confidence float32) (Region, error) {
	rect, err := geom.FromVertices(points)
	if err != nil {
		return Region{}, &MalformedError{Index: index, Text: text, Vertices: len(points), Err: err}
	}
	return New(index, text, rect, confidence), nil
}

// IsMalformed reports whether err was caused by a malformed polygon
func IsMalformed(err error) bool {
	var me *MalformedError
	return errors.As(err, &me) || errors.Is(err, geom.ErrMalformedPolygon)
}

// HasParent reports whether the region is nested inside another one
func (r *Region) HasParent() bool { return r.Parent != NoParent }

// Degenerate reports whether the region has no area and therefore never
// takes part in containment
func (r *Region) Degenerate() bool { return r.Area <= 0 }

// Contains reports whether region a encloses region b: b is not larger than a
// and every edge of b lies on or inside the matching edge of a.
func Contains(a, b *Region) bool {
	if b.Area > a.Area {
		return false
	}
	return a.Rect.Encloses(b.Rect)
}

func (r Region) String() string {
	d := r.Text
	if utf8.RuneCountInString(d) > displayWidth {
		d = string([]rune(d)[:displayWidth])
	}
	d = strings.ReplaceAll(d, "\r\n", `\n`)
	d = strings.ReplaceAll(d, "\n", `\n`)
	return fmt.Sprintf("(%d. %d %v,%d,%d [%s] %d)",
		r.Index, r.Area, r.Rect, r.Rect.Right(), r.Rect.Bottom(), d, utf8.RuneCountInString(r.Text))
}
