package gdocai

import (
	"fmt"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrlayout/pkg/lines"
	"github.com/gardar/ocrlayout/pkg/region"
)

// PageRegions returns the blocks, paragraphs, lines and tokens of a page as
// regions, in that order. Elements whose bounding poly cannot be resolved to
// four corners are skipped and reported.
func PageRegions(page *documentaipb.Document_Page, fullText string) ([]region.Region, []error) {
	var (
		out   []region.Region
		skips []error
	)
	add := func(kind string, n int, layout *documentaipb.Document_Page_Layout, text string) {
		pts, err := layoutPoints(layout, page.GetDimension())
		if err != nil {
			skips = append(skips, fmt.Errorf("%s %d: %w", kind, n, err))
			return
		}
		r, err := region.FromPolygon(len(out), text, pts, layout.GetConfidence())
		if err != nil {
			skips = append(skips, fmt.Errorf("%s %d: %w", kind, n, err))
			return
		}
		out = append(out, r)
	}

	for i, b := range page.GetBlocks() {
		add("block", i, b.GetLayout(), strings.TrimSpace(textFromLayout(b.GetLayout(), fullText)))
	}
	for i, p := range page.GetParagraphs() {
		add("paragraph", i, p.GetLayout(), strings.TrimSpace(textFromLayout(p.GetLayout(), fullText)))
	}
	for i, l := range page.GetLines() {
		add("line", i, l.GetLayout(), strings.TrimSpace(textFromLayout(l.GetLayout(), fullText)))
	}
	for i, t := range page.GetTokens() {
		add("token", i, t.GetLayout(), tokenText(t, fullText))
	}
	return out, skips
}

// tokenBreak maps a Document AI token break to a break kind. A break that
// is present but unspecified still separates the tokens.
func tokenBreak(t *documentaipb.Document_Page_Token) lines.BreakKind {
	if t.GetDetectedBreak() == nil {
		return lines.BreakNone
	}
	switch t.GetDetectedBreak().GetType() {
	case documentaipb.Document_Page_Token_DetectedBreak_SPACE,
		documentaipb.Document_Page_Token_DetectedBreak_WIDE_SPACE:
		return lines.BreakSpace
	default:
		return lines.BreakOther
	}
}

// lineSymbols turns the tokens of one Document AI line into symbols. The
// last token is marked as a line break because Document AI keeps line ends
// in the line list rather than on the tokens.
func lineSymbols(line *documentaipb.Document_Page_Line, page *documentaipb.Document_Page, fullText string) []lines.Symbol {
	var out []lines.Symbol
	for _, t := range page.GetTokens() {
		if !inParent(t.GetLayout(), line.GetLayout()) {
			continue
		}
		s := lines.Symbol{
			Text:       tokenText(t, fullText),
			Confidence: t.GetLayout().GetConfidence(),
			Break:      tokenBreak(t),
		}
		if r, err := layoutRect(t.GetLayout(), page.GetDimension()); err == nil {
			s.Rect = &r
		}
		out = append(out, s)
	}
	if len(out) > 0 {
		out[len(out)-1].Break = lines.BreakLineBreak
	}
	return out
}

// PageLines assembles the lines of a page paragraph by paragraph, numbering
// them continuously. Lines outside every paragraph come last.
func PageLines(page *documentaipb.Document_Page, fullText string) ([]lines.Line, []error) {
	var (
		out   []lines.Line
		diags []error
	)
	a := lines.NewAssembler()
	assemble := func(where string, syms []lines.Symbol) {
		before := len(a.Diagnostics())
		out = append(out, a.Symbols(syms)...)
		for _, d := range a.Diagnostics()[before:] {
			diags = append(diags, fmt.Errorf("%s: %w", where, d))
		}
	}

	assigned := make(map[int]bool)
	for pnum, para := range page.GetParagraphs() {
		var syms []lines.Symbol
		for lnum, line := range page.GetLines() {
			if !inParent(line.GetLayout(), para.GetLayout()) {
				continue
			}
			assigned[lnum] = true
			syms = append(syms, lineSymbols(line, page, fullText)...)
		}
		assemble(fmt.Sprintf("paragraph %d", pnum), syms)
	}

	var rest []lines.Symbol
	for lnum, line := range page.GetLines() {
		if !assigned[lnum] {
			rest = append(rest, lineSymbols(line, page, fullText)...)
		}
	}
	if len(rest) > 0 {
		assemble("unassigned lines", rest)
	}
	return out, diags
}
