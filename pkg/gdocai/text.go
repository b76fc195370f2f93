package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	result := strings.Builder{}
	totalRunes := len(runes)

	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > totalRunes {
			end = totalRunes
		}
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}

// tokenText returns the token text without the whitespace Document AI
// appends to tokens followed by a break
func tokenText(token *documentaipb.Document_Page_Token, fullText string) string {
	return strings.TrimRight(textFromLayout(token.GetLayout(), fullText), " \t\r\n")
}

// span returns the first text segment of a layout
func span(layout *documentaipb.Document_Page_Layout) (start, end int64, ok bool) {
	segs := layout.GetTextAnchor().GetTextSegments()
	if len(segs) == 0 {
		return 0, 0, false
	}
	return segs[0].GetStartIndex(), segs[0].GetEndIndex(), true
}

// inParent reports whether an element's text span lies within its parent's span
func inParent(element, parent *documentaipb.Document_Page_Layout) bool {
	es, ee, ok := span(element)
	if !ok {
		return false
	}
	ps, pe, ok := span(parent)
	if !ok {
		return false
	}
	return es >= ps && ee <= pe
}
