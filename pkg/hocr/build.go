package hocr

import (
	"fmt"
	"math"

	"github.com/gardar/ocrlayout/pkg/geom"
	"github.com/gardar/ocrlayout/pkg/lines"
)

// FromLines builds one hOCR page holding assembled lines. A zero bounds is
// replaced by the union of the line rectangles.
func FromLines(number int, imageName string, bounds geom.Rect, ls []lines.Line) Page {
	page := Page{
		ID:         fmt.Sprintf("page_%d", number+1),
		PageNumber: number,
		ImageName:  imageName,
		BBox:       bounds,
	}
	derive := bounds == (geom.Rect{})
	for i, l := range ls {
		if derive {
			if i == 0 {
				page.BBox = l.Rect
			} else {
				page.BBox = page.BBox.Union(l.Rect)
			}
		}
		page.Lines = append(page.Lines, Line{
			ID:         fmt.Sprintf("line_%d_%d", number+1, l.Index),
			BBox:       l.Rect,
			Confidence: Percent(l.Confidence),
			Text:       l.Text,
		})
	}
	return page
}

// Percent converts a [0,1] confidence to the 0-100 scale of x_wconf.
// Values outside [0,1] are treated as unknown.
func Percent(c float32) float64 {
	if c < 0 || c > 1 {
		return 0
	}
	return math.Round(float64(c) * 100)
}
