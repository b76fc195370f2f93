package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/tiff"
)

// pageImage holds an image ready to be embedded by fpdf
type pageImage struct {
	data   []byte
	kind   string // fpdf image type
	width  int
	height int
}

// loadImage detects the image format and converts TIFF, which fpdf cannot
// embed, to PNG
func loadImage(data []byte) (*pageImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image config: %w", err)
	}
	img := &pageImage{data: data, kind: strings.ToUpper(format), width: cfg.Width, height: cfg.Height}

	if format == "tiff" {
		decoded, err := tiff.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode tiff: %w", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, decoded); err != nil {
			return nil, fmt.Errorf("failed to convert tiff to png: %w", err)
		}
		img.data = buf.Bytes()
		img.kind = "PNG"
	}
	return img, nil
}
