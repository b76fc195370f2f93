package gvision

import (
	"fmt"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/gardar/ocrlayout/pkg/geom"
	"github.com/gardar/ocrlayout/pkg/hocr"
	"github.com/gardar/ocrlayout/pkg/lines"
)

// HOCRPage converts a Vision page to an hOCR page. Blocks become areas and
// words are grouped into lines at end-of-line breaks.
func HOCRPage(page *visionpb.Page, number int, imageName string) hocr.Page {
	n := number + 1
	out := hocr.Page{
		ID:         fmt.Sprintf("page_%d", n),
		PageNumber: number,
		ImageName:  imageName,
		BBox:       geom.NewRect(0, 0, int(page.GetWidth()), int(page.GetHeight())),
	}

	var nblock, npar, nline, nword int
	for _, block := range page.GetBlocks() {
		nblock++
		area := hocr.Area{
			ID:   fmt.Sprintf("block_%d_%d", n, nblock),
			BBox: geom.Bounds(points(block.GetBoundingBox())),
		}
		for _, para := range block.GetParagraphs() {
			npar++
			p := hocr.Paragraph{
				ID:   fmt.Sprintf("par_%d_%d", n, npar),
				BBox: geom.Bounds(points(para.GetBoundingBox())),
			}

			var cur *hocr.Line
			for _, w := range para.GetWords() {
				if cur == nil {
					nline++
					cur = &hocr.Line{ID: fmt.Sprintf("line_%d_%d", n, nline)}
				}
				nword++
				word := hocr.Word{
					ID:         fmt.Sprintf("word_%d_%d", n, nword),
					Text:       wordText(w),
					BBox:       geom.Bounds(points(w.GetBoundingBox())),
					Confidence: hocr.Percent(w.GetConfidence()),
				}
				if len(cur.Words) == 0 {
					cur.BBox = word.BBox
				} else {
					cur.BBox = cur.BBox.Union(word.BBox)
				}
				cur.Words = append(cur.Words, word)

				if endsLine(w) {
					p.Lines = append(p.Lines, *cur)
					cur = nil
				}
			}
			if cur != nil {
				p.Lines = append(p.Lines, *cur)
			}
			area.Paragraphs = append(area.Paragraphs, p)
		}
		out.Areas = append(out.Areas, area)
	}
	return out
}

// endsLine reports whether the last symbol of a word carries an end-of-line break
func endsLine(w *visionpb.Word) bool {
	syms := w.GetSymbols()
	if len(syms) == 0 {
		return false
	}
	switch BreakKindOf(syms[len(syms)-1].GetProperty().GetDetectedBreak()) {
	case lines.BreakSureSpace, lines.BreakLineBreak:
		return true
	}
	return false
}
