// Package geom provides the axis-aligned rectangle arithmetic shared by the
// hierarchy builder and the line assembler.
//
// Recognizers report positions as polygons. Every polygon is reduced to its
// axis-aligned bounding box, even when the quadrilateral is skewed, and all
// containment and union logic works on those boxes only.
package geom

import (
	"errors"
	"fmt"
)

// ErrMalformedPolygon is returned when a bounding polygon does not have
// exactly four corners.
var ErrMalformedPolygon = errors.New("bounding polygon must have exactly 4 vertices")

// Point is a pixel coordinate
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned rectangle in pixel space
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect creates a rectangle from its left/top/right/bottom edges
func NewRect(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() int { return r.Top + r.Height }

// Area returns width*height
func (r Rect) Area() int64 { return int64(r.Width) * int64(r.Height) }

// Encloses reports whether o lies entirely inside r.
// Shared edges count as inside.
func (r Rect) Encloses(o Rect) bool {
	return o.Left >= r.Left &&
		o.Top >= r.Top &&
		o.Right() <= r.Right() &&
		o.Bottom() <= r.Bottom()
}

// Union returns the smallest rectangle covering both r and o
func (r Rect) Union(o Rect) Rect {
	return NewRect(
		min(r.Left, o.Left),
		min(r.Top, o.Top),
		max(r.Right(), o.Right()),
		max(r.Bottom(), o.Bottom()),
	)
}

// Expand grows r to cover every point. An empty point set leaves r unchanged.
func (r Rect) Expand(points []Point) Rect {
	if len(points) == 0 {
		return r
	}
	return r.Union(Bounds(points))
}

func (r Rect) String() string {
	return fmt.Sprintf("{X=%d,Y=%d,Width=%d,Height=%d}", r.Left, r.Top, r.Width, r.Height)
}

// Bounds returns the bounding box of a non-empty point set.
// It returns the zero Rect for an empty set.
func Bounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	l, t := points[0].X, points[0].Y
	r, b := l, t
	for _, p := range points[1:] {
		l = min(l, p.X)
		t = min(t, p.Y)
		r = max(r, p.X)
		b = max(b, p.Y)
	}
	return NewRect(l, t, r, b)
}

// FromVertices converts a four-corner polygon to its bounding box
func FromVertices(points []Point) (Rect, error) {
	if len(points) != 4 {
		return Rect{}, fmt.Errorf("%w: got %d", ErrMalformedPolygon, len(points))
	}
	return Bounds(points), nil
}
