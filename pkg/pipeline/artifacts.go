package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrlayout/pkg/hocr"
	"github.com/gardar/ocrlayout/pkg/lines"
	"github.com/gardar/ocrlayout/pkg/region"
	"github.com/gardar/ocrlayout/pkg/report"
)

// Artifacts selects and styles the files written for each input
type Artifacts struct {
	Pretty   bool                 // Indent JSON
	HOCR     bool                 // Write <stem>.<job>.hocr
	Overlay  bool                 // Write <stem>.<job>.overlay.pdf
	Style    report.OverlayConfig // Overlay styling
	Language string               // hOCR document language
}

// pageResult is what a job recognized on one page
type pageResult struct {
	regions  []region.Region
	skips    []error
	lines    []lines.Line
	hasLines bool
	diags    []error
	hocr     *hocr.Page
	image    func() ([]byte, error) // nil when no page image is available
}

func fileImage(path string) func() ([]byte, error) {
	return func() ([]byte, error) { return os.ReadFile(path) }
}

// write stores the results of every page. Artifact names carry a page
// number only when there is more than one page.
func (a Artifacts) write(in Input, job string, pages []pageResult, log logrus.FieldLogger) error {
	var hocrPages []hocr.Page
	for i, p := range pages {
		name := "." + job
		if len(pages) > 1 {
			name = fmt.Sprintf(".%s.page%d", job, i+1)
		}
		plog := log.WithField("page", i+1)

		for _, err := range p.skips {
			plog.WithError(err).Warn("skipped element")
		}
		for _, err := range p.diags {
			plog.WithError(err).Warn("symbol problem")
		}

		forest := region.BuildHierarchy(p.regions)
		plog.WithFields(logrus.Fields{
			"regions":    len(forest.Regions),
			"roots":      len(forest.Roots),
			"leaves":     len(forest.Leaves()),
			"degenerate": len(forest.Degenerate),
		}).Debug("hierarchy built")
		if err := forest.Walk(func(r *region.Region, depth int) error {
			plog.WithFields(logrus.Fields{"index": r.Index, "parent": r.Parent, "depth": depth}).Debug(r.String())
			return nil
		}); err != nil {
			plog.WithError(err).Warn("failed to walk hierarchy")
		}
		if err := report.WriteJSON(in.Artifact(name+".interpreted.json"), report.Boxes(forest), a.Pretty); err != nil {
			return err
		}

		if p.hasLines {
			if err := report.WriteJSON(in.Artifact(name+".lines.json"), p.lines, a.Pretty); err != nil {
				return err
			}
			if err := writeText(in.Artifact(name+".txt"), p.lines); err != nil {
				return err
			}
			plog.WithField("lines", len(p.lines)).Debug("lines assembled")
		}

		if p.hocr != nil {
			hocrPages = append(hocrPages, *p.hocr)
		}

		if a.Overlay && p.image != nil {
			img, err := p.image()
			if err != nil {
				return fmt.Errorf("failed to read page image: %w", err)
			}
			pdf, err := report.Overlay(img, forest, p.lines, a.Style)
			if err != nil {
				return fmt.Errorf("failed to render overlay: %w", err)
			}
			if err := os.WriteFile(in.Artifact(name+".overlay.pdf"), pdf, 0o644); err != nil {
				return fmt.Errorf("failed to write overlay: %w", err)
			}
		}
	}

	if a.HOCR && len(hocrPages) > 0 {
		doc := &hocr.Document{
			Title:    filepath.Base(in.Path),
			Language: a.Language,
			System:   "ocrlayout " + job,
			Pages:    hocrPages,
		}
		data, err := hocr.Generate(doc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(in.Artifact("."+job+".hocr"), data, 0o644); err != nil {
			return fmt.Errorf("failed to write hOCR: %w", err)
		}
	}
	return nil
}

func writeText(path string, ls []lines.Line) error {
	var sb strings.Builder
	for _, l := range ls {
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
