package report

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/ocrlayout/pkg/geom"
	"github.com/gardar/ocrlayout/pkg/lines"
	"github.com/gardar/ocrlayout/pkg/region"
)

// Overlay builds a one page PDF showing the page image with the region
// rectangles coloured by depth and, below them in a separate layer, the
// assembled lines with their text. Page units are image pixels. Either
// forest or ls may be empty.
func Overlay(imageData []byte, forest *region.Forest, ls []lines.Line, cfg OverlayConfig) ([]byte, error) {
	img, err := loadImage(imageData)
	if err != nil {
		return nil, err
	}
	w, h := float64(img.width), float64(img.height)

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: img.kind}
	pdf.RegisterImageOptionsReader("page", opts, bytes.NewReader(img.data))
	pdf.ImageOptions("page", 0, 0, w, h, false, opts, 0, "")
	pdf.SetLineWidth(cfg.LineWidth)

	if forest != nil && len(forest.Regions) > 0 {
		layer := pdf.AddLayer(cfg.RegionName, true)
		pdf.BeginLayer(layer)
		err := forest.Walk(func(r *region.Region, depth int) error {
			c := depthColors[min(depth, len(depthColors)-1)]
			pdf.SetDrawColor(c[0], c[1], c[2])
			drawRect(pdf, r.Rect)
			return nil
		})
		pdf.EndLayer()
		if err != nil {
			return nil, err
		}
	}

	if len(ls) > 0 {
		layer := pdf.AddLayer(cfg.LineName, true)
		pdf.BeginLayer(layer)
		if cfg.ShowLines {
			pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
			for _, l := range ls {
				drawRect(pdf, l.Rect)
			}
		}
		err := drawText(pdf, ls, cfg)
		pdf.EndLayer()
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRect(pdf *fpdf.Fpdf, r geom.Rect) {
	pdf.Rect(float64(r.Left), float64(r.Top), float64(r.Width), float64(r.Height), "D")
}

// drawText places each line's text over its rectangle, scaled to the
// rectangle width. Unless cfg.ShowText is set the text is transparent, which
// keeps the PDF searchable without hiding the image.
func drawText(pdf *fpdf.Fpdf, ls []lines.Line, cfg OverlayConfig) error {
	font := cfg.Font
	pdf.SetFont(font.Name, font.Style, font.Size)
	if cfg.ShowText {
		pdf.SetTextColor(255, 0, 0)
	} else {
		pdf.SetAlpha(0.0, "Normal")
	}

	encodingErrors := 0
	for _, l := range ls {
		if l.Text == "" || l.Rect.Width <= 0 {
			continue
		}

		// fpdf core fonts are single byte
		latin1, err := charmap.ISO8859_1.NewEncoder().String(l.Text)
		if err != nil {
			encodingErrors++
			latin1 = l.Text
		}

		if sw := pdf.GetStringWidth(latin1); sw > 0 {
			pdf.SetFontSize(font.Size * float64(l.Rect.Width) / sw)
		}
		size, _ := pdf.GetFontSize()
		pdf.Text(float64(l.Rect.Left), float64(l.Rect.Top)+size*font.AscentRatio, latin1)
		pdf.SetFontSize(font.Size)
	}

	if !cfg.ShowText {
		pdf.SetAlpha(1.0, "Normal")
	}
	if encodingErrors > 0 && encodingErrors > len(ls)/10 {
		return fmt.Errorf("character encoding issues in %d of %d lines", encodingErrors, len(ls))
	}
	return nil
}
