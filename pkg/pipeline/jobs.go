package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/geom"
	"github.com/gardar/ocrlayout/pkg/gvision"
	"github.com/gardar/ocrlayout/pkg/hocr"
)

// ErrNoService is returned when a job has to call a service it was not given
var ErrNoService = errors.New("no OCR service configured")

// TextDetector runs Vision text detection
type TextDetector interface {
	DetectText(ctx context.Context, r io.Reader) ([]*visionpb.EntityAnnotation, error)
}

// DocumentDetector runs Vision document text detection
type DocumentDetector interface {
	DetectDocumentText(ctx context.Context, r io.Reader) (*visionpb.TextAnnotation, error)
}

// DocumentProcessor sends file content to Document AI
type DocumentProcessor func(ctx context.Context, content []byte, mimeType string) (*documentaipb.Document, error)

// cachedResponse returns the content of a raw response file when cached
// mode is on and the file exists
func cachedResponse(cached bool, path string, log logrus.FieldLogger) ([]byte, bool) {
	if !cached {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithField("response", path).Debug("no cached response, calling the service")
		return nil, false
	}
	log.WithField("response", path).Debug("using cached response")
	return data, true
}

func writeRaw(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write raw response: %w", err)
	}
	return nil
}

// TextJob runs DetectText and builds the hierarchy of the returned
// annotations
type TextJob struct {
	Detector  TextDetector
	Cached    bool // Reuse an existing raw response
	Artifacts Artifacts
}

// Name implements Processor
func (j *TextJob) Name() string { return "DetectText" }

// Process implements Processor
func (j *TextJob) Process(ctx context.Context, in Input, log logrus.FieldLogger) error {
	rawPath := in.Artifact(".DetectText.raw.google.response.json")

	var anns []*visionpb.EntityAnnotation
	if data, ok := cachedResponse(j.Cached, rawPath, log); ok {
		var err error
		if anns, _, err = gvision.UnmarshalResponse(data); err != nil {
			return err
		}
	} else {
		if j.Detector == nil {
			return ErrNoService
		}
		f, err := os.Open(in.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		if anns, err = j.Detector.DetectText(ctx, f); err != nil {
			return err
		}
		data, err := gvision.MarshalResponse(anns, nil, j.Artifacts.Pretty)
		if err != nil {
			return err
		}
		if err := writeRaw(rawPath, data); err != nil {
			return err
		}
	}

	regions, skips := gvision.RegionsFromAnnotations(anns)
	return j.Artifacts.write(in, j.Name(), []pageResult{{
		regions: regions,
		skips:   skips,
		image:   fileImage(in.Path),
	}}, log)
}

// DocumentJob runs DetectDocumentText, assembles the lines of every page
// and builds the hierarchy of its blocks, paragraphs and words
type DocumentJob struct {
	Detector  DocumentDetector
	Cached    bool
	Artifacts Artifacts
}

// Name implements Processor
func (j *DocumentJob) Name() string { return "DetectDocumentText" }

// Process implements Processor
func (j *DocumentJob) Process(ctx context.Context, in Input, log logrus.FieldLogger) error {
	rawPath := in.Artifact(".DetectDocumentText.response.json")

	var full *visionpb.TextAnnotation
	if data, ok := cachedResponse(j.Cached, rawPath, log); ok {
		var err error
		if _, full, err = gvision.UnmarshalResponse(data); err != nil {
			return err
		}
	} else {
		if j.Detector == nil {
			return ErrNoService
		}
		f, err := os.Open(in.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		if full, err = j.Detector.DetectDocumentText(ctx, f); err != nil {
			return err
		}
		data, err := gvision.MarshalResponse(nil, full, j.Artifacts.Pretty)
		if err != nil {
			return err
		}
		if err := writeRaw(rawPath, data); err != nil {
			return err
		}
	}

	imageName := filepath.Base(in.Path)
	var pages []pageResult
	for i, page := range full.GetPages() {
		regions, skips := gvision.RegionsFromPage(page)
		ls, diags := gvision.PageLines(page)
		hp := gvision.HOCRPage(page, i, imageName)
		res := pageResult{
			regions:  regions,
			skips:    skips,
			lines:    ls,
			hasLines: true,
			diags:    diags,
			hocr:     &hp,
		}
		if i == 0 {
			res.image = fileImage(in.Path)
		}
		pages = append(pages, res)
	}
	if len(pages) == 0 {
		log.Info("no text found")
	}
	return j.Artifacts.write(in, j.Name(), pages, log)
}

// mimeTypes maps the file types Document AI accepts
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

// MimeType returns the Document AI MIME type of a file
func MimeType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mt, ok := mimeTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
	return mt, nil
}

// DocAIJob sends the file to Document AI and rebuilds its lines and
// hierarchy from the returned layout
type DocAIJob struct {
	Send      DocumentProcessor
	Cached    bool
	Artifacts Artifacts
}

// Name implements Processor
func (j *DocAIJob) Name() string { return "DocumentAI" }

// Process implements Processor
func (j *DocAIJob) Process(ctx context.Context, in Input, log logrus.FieldLogger) error {
	rawPath := in.Artifact(".DocumentAI.response.json")

	var doc *documentaipb.Document
	if data, ok := cachedResponse(j.Cached, rawPath, log); ok {
		var err error
		if doc, err = gdocai.UnmarshalDocument(data); err != nil {
			return err
		}
	} else {
		if j.Send == nil {
			return ErrNoService
		}
		mt, err := MimeType(in.Path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(in.Path)
		if err != nil {
			return err
		}
		if doc, err = j.Send(ctx, content, mt); err != nil {
			return err
		}
		data, err := gdocai.MarshalDocument(doc, j.Artifacts.Pretty)
		if err != nil {
			return err
		}
		if err := writeRaw(rawPath, data); err != nil {
			return err
		}
	}

	imageName := filepath.Base(in.Path)
	var pages []pageResult
	for i, page := range doc.GetPages() {
		regions, skips := gdocai.PageRegions(page, doc.GetText())
		ls, diags := gdocai.PageLines(page, doc.GetText())

		var bounds geom.Rect
		if dim := page.GetDimension(); dim != nil {
			bounds = geom.NewRect(0, 0, int(dim.GetWidth()), int(dim.GetHeight()))
		}
		hp := hocr.FromLines(i, imageName, bounds, ls)

		res := pageResult{
			regions:  regions,
			skips:    skips,
			lines:    ls,
			hasLines: true,
			diags:    diags,
			hocr:     &hp,
		}
		switch {
		case page.GetImage() != nil:
			res.image = func() ([]byte, error) { return gdocai.PageImage(page) }
		case i == 0 && !strings.EqualFold(filepath.Ext(in.Path), ".pdf"):
			res.image = fileImage(in.Path)
		}
		pages = append(pages, res)
	}
	return j.Artifacts.write(in, j.Name(), pages, log)
}

// HOCRJob reads an existing hOCR file and builds the hierarchy of its
// elements without calling any service
type HOCRJob struct {
	Artifacts Artifacts
}

// Name implements Processor
func (j *HOCRJob) Name() string { return "hOCR" }

// Process implements Processor
func (j *HOCRJob) Process(_ context.Context, in Input, log logrus.FieldLogger) error {
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return err
	}
	elements, err := hocr.Parse(data)
	if err != nil {
		return err
	}

	counts := make(logrus.Fields)
	for _, e := range elements {
		n, _ := counts[e.Class].(int)
		counts[e.Class] = n + 1
	}
	log.WithFields(counts).Debug("hOCR parsed")

	regions, _, skips := hocr.Regions(elements)
	return j.Artifacts.write(in, j.Name(), []pageResult{{regions: regions, skips: skips}}, log)
}
