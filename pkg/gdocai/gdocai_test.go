package gdocai

import (
	"errors"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/testing/protocmp"

	"github.com/gardar/ocrlayout/pkg/geom"
	"github.com/gardar/ocrlayout/pkg/lines"
)

const testText = "Hello World\nBye\n"

func testLayout(start, end int64, l, t, r, b float32, conf float32) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
		},
		Confidence: conf,
		BoundingPoly: &documentaipb.BoundingPoly{
			NormalizedVertices: []*documentaipb.NormalizedVertex{
				{X: l, Y: t}, {X: r, Y: t}, {X: r, Y: b}, {X: l, Y: b},
			},
		},
	}
}

func spaceBreak() *documentaipb.Document_Page_Token_DetectedBreak {
	return &documentaipb.Document_Page_Token_DetectedBreak{
		Type: documentaipb.Document_Page_Token_DetectedBreak_SPACE,
	}
}

// testPage is a 1000x1000 page with two paragraphs of one line each
func testPage() *documentaipb.Document_Page {
	return &documentaipb.Document_Page{
		Dimension: &documentaipb.Document_Page_Dimension{Width: 1000, Height: 1000, Unit: "pixels"},
		Blocks: []*documentaipb.Document_Page_Block{
			{Layout: testLayout(0, 16, 0, 0, 0.5, 0.2, 0.9)},
		},
		Paragraphs: []*documentaipb.Document_Page_Paragraph{
			{Layout: testLayout(0, 12, 0, 0, 0.5, 0.1, 0.9)},
			{Layout: testLayout(12, 16, 0, 0.1, 0.2, 0.2, 0.9)},
		},
		Lines: []*documentaipb.Document_Page_Line{
			{Layout: testLayout(0, 12, 0, 0, 0.5, 0.1, 0.9)},
			{Layout: testLayout(12, 16, 0, 0.1, 0.2, 0.2, 0.9)},
		},
		Tokens: []*documentaipb.Document_Page_Token{
			{Layout: testLayout(0, 6, 0, 0, 0.2, 0.1, 0.95), DetectedBreak: spaceBreak()},
			{Layout: testLayout(6, 12, 0.25, 0, 0.5, 0.1, 0.85)},
			{Layout: testLayout(12, 16, 0, 0.1, 0.2, 0.2, 0.7)},
		},
	}
}

func TestPageLines(t *testing.T) {
	t.Parallel()

	got, diags := PageLines(testPage(), testText)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	want := []lines.Line{
		{Index: 1, Text: "Hello World", Rect: geom.NewRect(0, 0, 500, 100), Confidence: 0.85, Area: 500 * 100},
		{Index: 2, Text: "Bye", Rect: geom.NewRect(0, 100, 200, 200), Confidence: 0.7, Area: 200 * 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PageLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestPageLinesUnassigned(t *testing.T) {
	t.Parallel()

	page := testPage()
	page.Paragraphs = page.Paragraphs[:1]

	got, _ := PageLines(page, testText)
	var texts []string
	for _, l := range got {
		texts = append(texts, l.Text)
	}
	if diff := cmp.Diff([]string{"Hello World", "Bye"}, texts); diff != "" {
		t.Errorf("line texts mismatch (-want +got):\n%s", diff)
	}
}

func TestPageRegions(t *testing.T) {
	t.Parallel()

	regions, skips := PageRegions(testPage(), testText)
	if len(skips) != 0 {
		t.Fatalf("unexpected skips: %v", skips)
	}

	var texts []string
	for i, r := range regions {
		if r.Index != i {
			t.Errorf("region %d has index %d", i, r.Index)
		}
		texts = append(texts, r.Text)
	}
	want := []string{
		"Hello World\nBye", // block
		"Hello World", "Bye", // paragraphs
		"Hello World", "Bye", // lines
		"Hello", "World", "Bye", // tokens
	}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("region texts mismatch (-want +got):\n%s", diff)
	}
	if got, want := regions[0].Rect, geom.NewRect(0, 0, 500, 200); got != want {
		t.Errorf("block rect = %v, want %v", got, want)
	}
}

func TestPageRegionsNoDimension(t *testing.T) {
	t.Parallel()

	page := testPage()
	page.Dimension = nil

	regions, skips := PageRegions(page, testText)
	if len(regions) != 0 {
		t.Errorf("got %d regions, want none", len(regions))
	}
	if len(skips) != 8 {
		t.Fatalf("got %d skips, want 8", len(skips))
	}
	if !errors.Is(skips[0], ErrNoDimension) {
		t.Errorf("skip %v is not ErrNoDimension", skips[0])
	}
}

func TestLayoutPointsAbsolute(t *testing.T) {
	t.Parallel()

	layout := &documentaipb.Document_Page_Layout{
		BoundingPoly: &documentaipb.BoundingPoly{
			Vertices: []*documentaipb.Vertex{{X: 1, Y: 2}, {X: 11, Y: 2}, {X: 11, Y: 7}, {X: 1, Y: 7}},
		},
	}
	r, err := layoutRect(layout, nil)
	if err != nil {
		t.Fatalf("layoutRect() error = %v", err)
	}
	if want := geom.NewRect(1, 2, 11, 7); r != want {
		t.Errorf("layoutRect() = %v, want %v", r, want)
	}
}

func TestTokenBreak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		brk  *documentaipb.Document_Page_Token_DetectedBreak
		want lines.BreakKind
	}{
		{"missing", nil, lines.BreakNone},
		{"unspecified", &documentaipb.Document_Page_Token_DetectedBreak{}, lines.BreakOther},
		{"space", spaceBreak(), lines.BreakSpace},
		{"wide space", &documentaipb.Document_Page_Token_DetectedBreak{Type: documentaipb.Document_Page_Token_DetectedBreak_WIDE_SPACE}, lines.BreakSpace},
		{"hyphen", &documentaipb.Document_Page_Token_DetectedBreak{Type: documentaipb.Document_Page_Token_DetectedBreak_HYPHEN}, lines.BreakOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tokenBreak(&documentaipb.Document_Page_Token{DetectedBreak: tt.brk})
			if got != tt.want {
				t.Errorf("tokenBreak() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	doc := &documentaipb.Document{Text: testText, Pages: []*documentaipb.Document_Page{testPage()}}
	data, err := MarshalDocument(doc, true)
	if err != nil {
		t.Fatalf("MarshalDocument() error = %v", err)
	}
	got, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument() error = %v", err)
	}
	if diff := cmp.Diff(doc, got, protocmp.Transform()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPageImage(t *testing.T) {
	t.Parallel()

	if _, err := PageImage(nil); err == nil {
		t.Error("PageImage(nil) returned no error")
	}
	page := &documentaipb.Document_Page{Image: &documentaipb.Document_Page_Image{Content: []byte{1, 2}}}
	got, err := PageImage(page)
	if err != nil {
		t.Fatalf("PageImage() error = %v", err)
	}
	if diff := cmp.Diff([]byte{1, 2}, got); diff != "" {
		t.Errorf("PageImage() mismatch (-want +got):\n%s", diff)
	}
}
