package gvision

import (
	"fmt"
	"strings"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/gardar/ocrlayout/pkg/geom"
	"github.com/gardar/ocrlayout/pkg/lines"
	"github.com/gardar/ocrlayout/pkg/region"
)

// points converts the pixel vertices of a bounding poly
func points(bp *visionpb.BoundingPoly) []geom.Point {
	vs := bp.GetVertices()
	out := make([]geom.Point, 0, len(vs))
	for _, v := range vs {
		out = append(out, geom.Point{X: int(v.GetX()), Y: int(v.GetY())})
	}
	return out
}

// RegionsFromAnnotations converts DetectText annotations to regions in
// response order. Annotations without a description or bounding poly are
// skipped; polygons that do not have four corners are skipped and reported.
func RegionsFromAnnotations(anns []*visionpb.EntityAnnotation) ([]region.Region, []error) {
	var (
		out   []region.Region
		skips []error
	)
	for num, ann := range anns {
		if ann.GetDescription() == "" || ann.GetBoundingPoly() == nil {
			continue
		}
		r, err := region.FromPolygon(len(out), ann.GetDescription(), points(ann.GetBoundingPoly()), ann.GetConfidence())
		if err != nil {
			skips = append(skips, fmt.Errorf("annotation %d: %w", num+1, err))
			continue
		}
		out = append(out, r)
	}
	return out, skips
}

// BreakKindOf classifies a Vision detected break. Only the end-of-line kinds
// end a line; any other break that is present, UNKNOWN included, acts as a
// plain space. A missing break joins the symbols.
func BreakKindOf(b *visionpb.TextAnnotation_DetectedBreak) lines.BreakKind {
	if b == nil {
		return lines.BreakNone
	}
	switch b.GetType() {
	case visionpb.TextAnnotation_DetectedBreak_SPACE:
		return lines.BreakSpace
	case visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE:
		return lines.BreakSureSpace
	case visionpb.TextAnnotation_DetectedBreak_LINE_BREAK:
		return lines.BreakLineBreak
	case visionpb.TextAnnotation_DetectedBreak_UNKNOWN,
		visionpb.TextAnnotation_DetectedBreak_SURE_SPACE,
		visionpb.TextAnnotation_DetectedBreak_HYPHEN:
		return lines.BreakOther
	default:
		// out of range on purpose, the assembler reports it and falls back to a space
		return lines.BreakKind(-int(b.GetType()))
	}
}

// symbolFrom converts one Vision symbol. A symbol whose bounding box has no
// vertices gets a nil rectangle.
func symbolFrom(s *visionpb.Symbol) lines.Symbol {
	sym := lines.Symbol{
		Text:       s.GetText(),
		Confidence: s.GetConfidence(),
		Break:      BreakKindOf(s.GetProperty().GetDetectedBreak()),
	}
	if pts := points(s.GetBoundingBox()); len(pts) > 0 {
		r := geom.Bounds(pts)
		sym.Rect = &r
	}
	return sym
}

// ParagraphWords converts the words of a paragraph, keeping the word-level
// confidence Vision reports
func ParagraphWords(p *visionpb.Paragraph) []lines.Word {
	words := make([]lines.Word, 0, len(p.GetWords()))
	for _, w := range p.GetWords() {
		word := lines.Word{Confidence: w.GetConfidence()}
		for _, s := range w.GetSymbols() {
			word.Symbols = append(word.Symbols, symbolFrom(s))
		}
		words = append(words, word)
	}
	return words
}

// PageLines assembles the lines of every paragraph on a page with one
// assembler, so line indexes run across the page. Symbol problems are
// returned with their block and paragraph position.
func PageLines(page *visionpb.Page) ([]lines.Line, []error) {
	var (
		out   []lines.Line
		diags []error
	)
	a := lines.NewAssembler()
	for bnum, block := range page.GetBlocks() {
		for pnum, para := range block.GetParagraphs() {
			before := len(a.Diagnostics())
			out = append(out, a.Words(ParagraphWords(para))...)
			for _, d := range a.Diagnostics()[before:] {
				diags = append(diags, fmt.Errorf("block %d paragraph %d: %w", bnum, pnum, d))
			}
		}
	}
	return out, diags
}

// wordText concatenates the symbol text of a word
func wordText(w *visionpb.Word) string {
	var sb strings.Builder
	for _, s := range w.GetSymbols() {
		sb.WriteString(s.GetText())
	}
	return sb.String()
}

// paragraphText renders a paragraph as its assembled lines joined by newlines
func paragraphText(p *visionpb.Paragraph) string {
	ls := lines.NewAssembler().Words(ParagraphWords(p))
	texts := make([]string, 0, len(ls))
	for _, l := range ls {
		texts = append(texts, l.Text)
	}
	return strings.Join(texts, "\n")
}

// RegionsFromPage flattens the block, paragraph and word structure of a page
// into regions, each block followed by its paragraphs and their words.
// Elements whose bounding box does not have four corners are skipped and
// reported.
func RegionsFromPage(page *visionpb.Page) ([]region.Region, []error) {
	var (
		out   []region.Region
		skips []error
	)
	add := func(kind string, text string, bp *visionpb.BoundingPoly, conf float32) {
		r, err := region.FromPolygon(len(out), text, points(bp), conf)
		if err != nil {
			skips = append(skips, fmt.Errorf("%s: %w", kind, err))
			return
		}
		out = append(out, r)
	}

	for bnum, block := range page.GetBlocks() {
		var paras []string
		for _, para := range block.GetParagraphs() {
			paras = append(paras, paragraphText(para))
		}
		add(fmt.Sprintf("block %d", bnum), strings.Join(paras, "\n"), block.GetBoundingBox(), block.GetConfidence())

		for pnum, para := range block.GetParagraphs() {
			add(fmt.Sprintf("block %d paragraph %d", bnum, pnum), paras[pnum], para.GetBoundingBox(), para.GetConfidence())

			for wnum, w := range para.GetWords() {
				add(fmt.Sprintf("block %d paragraph %d word %d", bnum, pnum, wnum), wordText(w), w.GetBoundingBox(), w.GetConfidence())
			}
		}
	}
	return out, skips
}
