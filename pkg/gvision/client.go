// Package gvision connects Google Cloud Vision text detection to the region
// hierarchy builder and the line assembler.
//
// The package sends images to the Vision API, persists the raw responses so a
// run can be repeated offline, and converts the returned annotations into the
// plain domain values used by the region and lines packages.
//
// Main Functions:
//
// - NewClient: creates a Vision client from Config
// - DetectText / DetectDocumentText: call the API for one image
// - RegionsFromAnnotations: entity annotations to regions
// - RegionsFromPage: full-text page structure to regions
// - PageLines: full-text page symbols to assembled lines
// - HOCRPage: full-text page structure to an hOCR page
// - MarshalResponse / UnmarshalResponse: raw response persistence
//
// Usage Requirements:
//
// - Google Cloud project with the Vision API enabled
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS or Config.CredentialsFile
package gvision

import (
	"context"
	"fmt"
	"io"
	"os"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// Config holds the Vision API connection settings
type Config struct {
	CredentialsFile string   // Service account file, falls back to GOOGLE_APPLICATION_CREDENTIALS
	Endpoint        string   // Optional API endpoint override
	LanguageHints   []string // BCP-47 language hints passed with every request
}

// annotator is the part of the generated image annotator client in use
type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// Client wraps the Vision image annotator
type Client struct {
	annotator annotator
	imageCtx  *visionpb.ImageContext
}

// NewClient creates a Vision client. Close it when done.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	var opts []option.ClientOption
	creds := cfg.CredentialsFile
	if creds == "" {
		creds = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	ac, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision client: %w", err)
	}
	return newClient(ac, cfg.LanguageHints), nil
}

func newClient(a annotator, hints []string) *Client {
	c := &Client{annotator: a}
	if len(hints) > 0 {
		c.imageCtx = &visionpb.ImageContext{LanguageHints: hints}
	}
	return c
}

// Close releases the underlying connection
func (c *Client) Close() error {
	return c.annotator.Close()
}

// annotate sends one image with one feature and returns its response
func (c *Client) annotate(ctx context.Context, r io.Reader, feature visionpb.Feature_Type) (*visionpb.AnnotateImageResponse, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	res, err := c.annotator.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:        &visionpb.Image{Content: content},
			Features:     []*visionpb.Feature{{Type: feature}},
			ImageContext: c.imageCtx,
		}},
	})
	if err != nil {
		return nil, err
	}
	if len(res.GetResponses()) == 0 {
		return nil, fmt.Errorf("empty response for %s", feature)
	}
	air := res.GetResponses()[0]
	if e := air.GetError(); e != nil {
		return nil, fmt.Errorf("%s failed: %s (code %d)", feature, e.GetMessage(), e.GetCode())
	}
	return air, nil
}

// DetectText runs sparse text detection. The first annotation covers the
// whole detected text, the rest are single words.
func (c *Client) DetectText(ctx context.Context, r io.Reader) ([]*visionpb.EntityAnnotation, error) {
	air, err := c.annotate(ctx, r, visionpb.Feature_TEXT_DETECTION)
	if err != nil {
		return nil, fmt.Errorf("failed to detect text: %w", err)
	}
	return air.GetTextAnnotations(), nil
}

// DetectDocumentText runs dense document text detection
func (c *Client) DetectDocumentText(ctx context.Context, r io.Reader) (*visionpb.TextAnnotation, error) {
	air, err := c.annotate(ctx, r, visionpb.Feature_DOCUMENT_TEXT_DETECTION)
	if err != nil {
		return nil, fmt.Errorf("failed to detect document text: %w", err)
	}
	return air.GetFullTextAnnotation(), nil
}
