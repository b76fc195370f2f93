package gdocai

import (
	"errors"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrlayout/pkg/geom"
)

// ErrNoDimension is returned when normalized vertices cannot be scaled
// because the page has no dimension
var ErrNoDimension = errors.New("page has no dimension")

// layoutPoints converts a layout's bounding poly to pixel coordinates.
// Normalized vertices (0-1) are scaled by the page dimension; absolute
// vertices are used as they are.
func layoutPoints(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) ([]geom.Point, error) {
	bp := layout.GetBoundingPoly()
	if nv := bp.GetNormalizedVertices(); len(nv) > 0 {
		if dim == nil || dim.Width == 0 || dim.Height == 0 {
			return nil, ErrNoDimension
		}
		out := make([]geom.Point, 0, len(nv))
		for _, v := range nv {
			out = append(out, geom.Point{
				X: int(v.X*dim.Width + 0.5),
				Y: int(v.Y*dim.Height + 0.5),
			})
		}
		return out, nil
	}

	vs := bp.GetVertices()
	out := make([]geom.Point, 0, len(vs))
	for _, v := range vs {
		out = append(out, geom.Point{X: int(v.X), Y: int(v.Y)})
	}
	return out, nil
}

// layoutRect returns the bounding box of a layout in pixel coordinates
func layoutRect(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (geom.Rect, error) {
	pts, err := layoutPoints(layout, dim)
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.FromVertices(pts)
}

// PageImage returns the page image Document AI rendered for the page
func PageImage(page *documentaipb.Document_Page) ([]byte, error) {
	if page == nil {
		return nil, fmt.Errorf("no documentai page provided")
	}

	image := page.GetImage()
	if image == nil {
		return nil, fmt.Errorf("no image found in documentai page")
	}

	content := image.GetContent()
	if len(content) == 0 {
		return nil, fmt.Errorf("image content is empty")
	}

	return content, nil
}
