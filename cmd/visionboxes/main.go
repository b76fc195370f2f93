// visionboxes runs OCR over images and rebuilds the layout of the result.
//
// For every input image it writes, into a directory named after the image,
// the raw service response, the recognized regions with their containment
// hierarchy, and depending on the mode the assembled text lines, an hOCR
// file and a PDF overlay.
//
// Modes:
//
//	text      Cloud Vision DetectText, hierarchy of the word annotations
//	document  Cloud Vision DetectDocumentText, lines, blocks, paragraphs and words
//	docai     Google Document AI OCR processor
//	hocr      existing hOCR files, no service call
//
// Configuration:
//
//	vision:
//	  credentials_file: /path/to/key.json
//	  language_hints: [en]
//	documentai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
//	scan:
//	  extensions: [.jpg, .tif, .png]
//	  workers: 4
//	output:
//	  dir: ""
//	  pretty: true
//	  hocr: false
//	  overlay: false
//
// Example:
//
//	export GOOGLE_APPLICATION_CREDENTIALS=/path/to/credentials.json
//	visionboxes --config config.yml --path scans/ --mode document --hocr --overlay
//	visionboxes --path scans/ --mode text --cached -v
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrlayout/pkg/config"
	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/gvision"
	"github.com/gardar/ocrlayout/pkg/pipeline"
)

type options struct {
	Config  string `arg:"-c,--config" help:"path to the YAML config file"`
	Path    string `arg:"-p,--path,required" help:"image file or directory of images"`
	Mode    string `arg:"-m,--mode" default:"text" help:"text, document, docai or hocr"`
	Out     string `arg:"-o,--out" help:"root of the per-image output directories (default: next to each image)"`
	Cached  bool   `arg:"--cached" help:"reuse raw responses already on disk"`
	HOCR    bool   `arg:"--hocr" help:"write an hOCR file"`
	Overlay bool   `arg:"--overlay" help:"write a PDF overlay of the boxes"`
	Workers int    `arg:"-w,--workers" help:"images processed at once (default from config)"`
	Verbose bool   `arg:"-v,--verbose" help:"debug logging"`
}

func (options) Description() string {
	return "visionboxes rebuilds the layout of OCR results as nested boxes and text lines"
}

var (
	args options
	log  = logrus.New()
)

func main() {
	arg.MustParse(&args)
	if args.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	os.Exit(run())
}

// run processes the input and returns the exit code. It returns instead of
// exiting so the service client is closed on every path.
func run() int {
	cfg, err := loadConfig()
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	proc, closer, err := newProcessor(ctx, cfg)
	if err != nil {
		log.Errorf("Failed to set up %s mode: %v", args.Mode, err)
		return 2
	}
	defer closer()

	exts := cfg.Scan.Extensions
	if args.Mode == "hocr" {
		exts = []string{".hocr", ".html"}
	}
	files, err := pipeline.Scan(args.Path, exts)
	if err != nil {
		log.Errorf("Failed to scan input: %v", err)
		return 1
	}
	if len(files) == 0 {
		log.WithField("path", args.Path).Warn("no matching files")
		return 0
	}

	log.WithFields(logrus.Fields{"files": len(files), "mode": args.Mode}).Info("starting")
	sum, err := pipeline.Run(ctx, files, pipeline.Options{OutDir: cfg.Output.Dir, Workers: cfg.Scan.Workers}, proc, log)
	log.WithFields(logrus.Fields{"processed": sum.Processed, "failed": sum.Failed}).Info("finished")
	if err != nil {
		log.WithError(err).Error("Run interrupted")
		return 1
	}
	if sum.Failed > 0 {
		return 1
	}
	return 0
}

// loadConfig reads the config file when given and applies the flag overrides
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if args.Config != "" {
		var err error
		if cfg, err = config.Load(args.Config); err != nil {
			return nil, err
		}
	}
	if args.Out != "" {
		cfg.Output.Dir = args.Out
	}
	if args.Workers > 0 {
		cfg.Scan.Workers = args.Workers
	}
	cfg.Output.HOCR = cfg.Output.HOCR || args.HOCR
	cfg.Output.Overlay = cfg.Output.Overlay || args.Overlay
	return cfg, cfg.Validate()
}

// newProcessor builds the job of the selected mode. In cached mode a
// service client that cannot be created is only a warning, since the raw
// responses may all be on disk already.
func newProcessor(ctx context.Context, cfg *config.Config) (pipeline.Processor, func(), error) {
	artifacts := pipeline.Artifacts{
		Pretty:  cfg.Output.Pretty,
		HOCR:    cfg.Output.HOCR,
		Overlay: cfg.Output.Overlay,
		Style:   cfg.OverlayConfig(),
	}
	if len(cfg.Vision.LanguageHints) > 0 {
		artifacts.Language = cfg.Vision.LanguageHints[0]
	}
	noop := func() {}

	switch args.Mode {
	case "text", "document":
		client, err := gvision.NewClient(ctx, cfg.VisionClient())
		if err != nil {
			if !args.Cached {
				return nil, noop, err
			}
			log.WithError(err).Warn("Vision client unavailable, using cached responses only")
		}
		closer := noop
		if client != nil {
			closer = func() { _ = client.Close() }
		}
		if args.Mode == "text" {
			job := &pipeline.TextJob{Cached: args.Cached, Artifacts: artifacts}
			if client != nil {
				job.Detector = client
			}
			return job, closer, nil
		}
		job := &pipeline.DocumentJob{Cached: args.Cached, Artifacts: artifacts}
		if client != nil {
			job.Detector = client
		}
		return job, closer, nil

	case "docai":
		job := &pipeline.DocAIJob{Cached: args.Cached, Artifacts: artifacts}
		if err := cfg.RequireDocumentAI(); err != nil {
			if !args.Cached {
				return nil, noop, err
			}
			log.WithError(err).Warn("Document AI not configured, using cached responses only")
			return job, noop, nil
		}
		dcfg := cfg.DocumentAIClient()
		job.Send = func(ctx context.Context, content []byte, mimeType string) (*documentaipb.Document, error) {
			return gdocai.ProcessDocument(ctx, content, mimeType, dcfg)
		}
		return job, noop, nil

	case "hocr":
		return &pipeline.HOCRJob{Artifacts: artifacts}, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown mode %q", args.Mode)
}
