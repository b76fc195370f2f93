// Package pipeline runs one OCR job over a batch of input files.
//
// Every input gets its own output directory named after the file stem.
// Files are processed concurrently up to a worker limit; a failing file
// leaves an error artifact in its directory and does not stop the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gardar/ocrlayout/pkg/report"
)

// ErrInvalidPath is returned by Scan for a path that is neither a file nor
// a directory
var ErrInvalidPath = errors.New("invalid file or directory path")

// DefaultExtensions are the image types scanned when none are configured
var DefaultExtensions = []string{".jpg", ".tif", ".png"}

// Input is one file to process
type Input struct {
	Path   string // Source file
	Stem   string // File name without extension
	OutDir string // Directory receiving the artifacts
}

// Artifact returns the path of an artifact named <stem><suffix>
func (in Input) Artifact(suffix string) string {
	return filepath.Join(in.OutDir, in.Stem+suffix)
}

// Processor handles one input file
type Processor interface {
	// Name is used in artifact names, e.g. "DetectText"
	Name() string
	Process(ctx context.Context, in Input, log logrus.FieldLogger) error
}

// Options controls a batch run
type Options struct {
	OutDir  string // Root of the per-file directories, empty for next to each input
	Workers int    // Files processed at once
}

// Summary counts the outcome of a batch
type Summary struct {
	Processed int
	Failed    int
}

// Scan returns path itself when it is a file, or the files directly inside
// it whose extension matches exts (case-insensitive), sorted by name
func Scan(path string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	return files, nil
}

// NewInput derives the stem and output directory of a file
func NewInput(path, outRoot string) Input {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	root := outRoot
	if root == "" {
		root = filepath.Dir(path)
	}
	return Input{Path: path, Stem: stem, OutDir: filepath.Join(root, stem)}
}

// Run processes files with proc. Per-file failures are logged and written
// to "<stem>.<name>.error.txt"; the returned error is only set when the
// context ends the batch early.
func Run(ctx context.Context, files []string, opts Options, proc Processor, log logrus.FieldLogger) (Summary, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	var processed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, file := range files {
		if gctx.Err() != nil {
			break
		}
		in := NewInput(file, opts.OutDir)
		g.Go(func() error {
			flog := log.WithFields(logrus.Fields{"file": in.Path, "job": proc.Name()})
			if err := runOne(gctx, in, proc, flog); err != nil {
				failed.Add(1)
				if gctx.Err() != nil {
					return gctx.Err()
				}
				return nil
			}
			processed.Add(1)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return Summary{Processed: int(processed.Load()), Failed: int(failed.Load())}, err
}

func runOne(ctx context.Context, in Input, proc Processor, log logrus.FieldLogger) error {
	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		log.WithError(err).Error("failed to create output directory")
		return err
	}
	log.Debug("processing")
	err := proc.Process(ctx, in, log)
	if err == nil {
		log.Info("done")
		return nil
	}

	log.WithError(err).Error("processing failed")
	errFile := in.Artifact("." + proc.Name() + ".error.txt")
	if werr := report.WriteError(errFile, err); werr != nil {
		log.WithError(werr).Warn("failed to write error file")
	}
	return err
}
