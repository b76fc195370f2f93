package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/tiff"

	"github.com/gardar/ocrlayout/pkg/geom"
	"github.com/gardar/ocrlayout/pkg/lines"
	"github.com/gardar/ocrlayout/pkg/region"
)

func testForest() *region.Forest {
	return region.BuildHierarchy([]region.Region{
		region.New(0, "page", geom.NewRect(0, 0, 200, 100), 0.9),
		region.New(1, "word", geom.NewRect(10, 10, 60, 30), 0.8),
		region.New(2, "", geom.NewRect(5, 5, 5, 50), 0),
	})
}

func testImage(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		img.Set(x, 50, color.Black)
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(buf *bytes.Buffer, img image.Image) error { return png.Encode(buf, img) }

func encodeTIFF(buf *bytes.Buffer, img image.Image) error { return tiff.Encode(buf, img, nil) }

func TestBoxes(t *testing.T) {
	t.Parallel()

	got := Boxes(testForest())
	want := []Box{
		{Index: 0, Text: "page", Rect: geom.NewRect(0, 0, 200, 100), Area: 20000, Confidence: 0.9, Parent: region.NoParent, Children: []int{1}, Depth: 0},
		{Index: 1, Text: "word", Rect: geom.NewRect(10, 10, 60, 30), Area: 1000, Confidence: 0.8, Parent: 0, Children: []int{}, Depth: 1},
		{Index: 2, Rect: geom.NewRect(5, 5, 5, 50), Parent: region.NoParent, Children: []int{}, Depth: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Boxes() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "boxes.json")
	if err := WriteJSON(path, Boxes(testForest()), true); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back []Box
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("written JSON does not parse: %v", err)
	}
	if len(back) != 3 || back[1].Parent != 0 {
		t.Errorf("read back %+v", back)
	}

	// protobuf messages go through protojson
	msgPath := filepath.Join(dir, "raw.json")
	ann := &visionpb.EntityAnnotation{Description: "hi", Locale: "en"}
	if err := WriteJSON(msgPath, ann, false); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	data, err = os.ReadFile(msgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"description":"hi"`) {
		t.Errorf("protojson output = %s", data)
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scan.error.txt")
	if err := WriteError(path, errors.New("quota exceeded")); err != nil {
		t.Fatalf("WriteError() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "quota exceeded\n" {
		t.Errorf("error file = %q", got)
	}
}

func TestOverlay(t *testing.T) {
	t.Parallel()

	ls := []lines.Line{
		{Index: 1, Text: "Hello World", Rect: geom.NewRect(10, 10, 120, 30), Confidence: 0.9},
		{Index: 2, Text: "Smörgåsbord", Rect: geom.NewRect(10, 40, 120, 60), Confidence: 0.8},
	}
	tests := []struct {
		name   string
		image  func(*bytes.Buffer, image.Image) error
		forest *region.Forest
		lines  []lines.Line
	}{
		{"png with regions and lines", encodePNG, testForest(), ls},
		{"tiff with regions only", encodeTIFF, testForest(), nil},
		{"png with lines only", encodePNG, nil, ls},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := Overlay(testImage(t, tt.image), tt.forest, tt.lines, DefaultOverlayConfig())
			if err != nil {
				t.Fatalf("Overlay() error = %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF-")) {
				t.Errorf("Overlay() output does not start with a PDF header")
			}
		})
	}
}

func TestOverlayBadImage(t *testing.T) {
	t.Parallel()

	if _, err := Overlay(nil, nil, nil, DefaultOverlayConfig()); err == nil {
		t.Error("Overlay() accepted an empty image")
	}
	if _, err := Overlay([]byte("not an image"), nil, nil, DefaultOverlayConfig()); err == nil {
		t.Error("Overlay() accepted garbage")
	}
}

func TestLoadImageConvertsTIFF(t *testing.T) {
	t.Parallel()

	img, err := loadImage(testImage(t, encodeTIFF))
	if err != nil {
		t.Fatalf("loadImage() error = %v", err)
	}
	if img.kind != "PNG" || img.width != 200 || img.height != 100 {
		t.Errorf("loadImage() = %s %dx%d, want PNG 200x100", img.kind, img.width, img.height)
	}
	if _, err := png.Decode(bytes.NewReader(img.data)); err != nil {
		t.Errorf("converted data is not PNG: %v", err)
	}
}
