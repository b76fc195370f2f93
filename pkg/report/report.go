// Package report writes the artifacts produced for one processed image:
// JSON files holding the interpreted regions and assembled lines, error
// files for failed inputs, and a PDF overlay that draws the rectangles over
// the source image.
//
// Key Types:
//
// - Box: One interpreted region with its links and depth
// - OverlayConfig: Styling of the PDF overlay
//
// Main Functions:
//
// - Boxes: Flattens a region forest for the boxes artifact
// - WriteJSON: Writes any value or protobuf message as JSON
// - WriteError: Writes the error artifact of a failed input
// - Overlay: Renders the region and line rectangles over the page image
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/gardar/ocrlayout/pkg/geom"
	"github.com/gardar/ocrlayout/pkg/region"
)

// Box is one interpreted region as written to the boxes artifact
type Box struct {
	Index      int       `json:"index"`
	Text       string    `json:"text"`
	Rect       geom.Rect `json:"rect"`
	Area       int64     `json:"area"`
	Confidence float32   `json:"confidence"`
	Parent     int       `json:"parent"`
	Children   []int     `json:"children"`
	Depth      int       `json:"depth"`
}

// Boxes flattens a forest in region order. Degenerate regions are listed
// with no parent and depth zero.
func Boxes(f *region.Forest) []Box {
	out := make([]Box, 0, len(f.Regions))
	for i, r := range f.Regions {
		children := r.Children
		if children == nil {
			children = []int{}
		}
		out = append(out, Box{
			Index:      r.Index,
			Text:       r.Text,
			Rect:       r.Rect,
			Area:       r.Area,
			Confidence: r.Confidence,
			Parent:     r.Parent,
			Children:   children,
			Depth:      f.Depth(i),
		})
	}
	return out
}

// Marshal converts protocol buffer messages with protojson and everything
// else with encoding/json
func Marshal(v any, pretty bool) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		opts := protojson.MarshalOptions{}
		if pretty {
			opts.Multiline = true
			opts.Indent = "  "
		}
		return opts.Marshal(m)
	}
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// WriteJSON marshals v and writes it to path
func WriteJSON(path string, v any, pretty bool) error {
	data, err := Marshal(v, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteError writes the text of err to path
func WriteError(path string, err error) error {
	if werr := os.WriteFile(path, []byte(err.Error()+"\n"), 0o644); werr != nil {
		return fmt.Errorf("failed to write %s: %w", path, werr)
	}
	return nil
}
