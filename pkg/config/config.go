// Package config loads the YAML configuration of the visionboxes tool.
//
// Values missing from the file keep the defaults returned by Default, so a
// configuration only needs the keys it changes. The Document AI section is
// only required when the docai mode is used.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/gvision"
	"github.com/gardar/ocrlayout/pkg/report"
)

// ErrDocumentAI is returned when the docai mode is requested without a
// complete documentai section
var ErrDocumentAI = errors.New("documentai project_id, location and processor_id are required")

// Config holds the application configuration
type Config struct {
	Vision     VisionConfig     `yaml:"vision"`
	DocumentAI DocumentAIConfig `yaml:"documentai"`
	Scan       ScanConfig       `yaml:"scan"`
	Output     OutputConfig     `yaml:"output"`
}

// VisionConfig holds the Cloud Vision connection settings
type VisionConfig struct {
	CredentialsFile string   `yaml:"credentials_file"`
	Endpoint        string   `yaml:"endpoint"`
	LanguageHints   []string `yaml:"language_hints"`
}

// DocumentAIConfig identifies the Document AI OCR processor
type DocumentAIConfig struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}

// ScanConfig controls which files are processed and how many at once
type ScanConfig struct {
	Extensions []string `yaml:"extensions"`
	Workers    int      `yaml:"workers"`
}

// OutputConfig controls the artifacts written per image
type OutputConfig struct {
	Dir     string `yaml:"dir"`     // Root of the per-image directories, empty for next to the input
	Pretty  bool   `yaml:"pretty"`  // Indent JSON artifacts
	HOCR    bool   `yaml:"hocr"`    // Write an hOCR file
	Overlay bool   `yaml:"overlay"` // Write a PDF overlay
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: []string{".jpg", ".tif", ".png"},
			Workers:    4,
		},
		Output: OutputConfig{
			Pretty: true,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid and normalizes extensions
// to lower case with a leading dot
func (c *Config) Validate() error {
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be positive")
	}
	if len(c.Scan.Extensions) == 0 {
		return fmt.Errorf("scan.extensions cannot be empty")
	}
	for i, ext := range c.Scan.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			return fmt.Errorf("scan.extensions[%d] is empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Scan.Extensions[i] = ext
	}
	return nil
}

// RequireDocumentAI checks the documentai section
func (c *Config) RequireDocumentAI() error {
	d := c.DocumentAI
	if d.ProjectID == "" || d.Location == "" || d.ProcessorID == "" {
		return ErrDocumentAI
	}
	return nil
}

// VisionClient converts the vision section to client settings
func (c *Config) VisionClient() *gvision.Config {
	return &gvision.Config{
		CredentialsFile: c.Vision.CredentialsFile,
		Endpoint:        c.Vision.Endpoint,
		LanguageHints:   c.Vision.LanguageHints,
	}
}

// DocumentAIClient converts the documentai section to processor settings
func (c *Config) DocumentAIClient() *gdocai.Config {
	return &gdocai.Config{
		ProjectID:   c.DocumentAI.ProjectID,
		Location:    c.DocumentAI.Location,
		ProcessorID: c.DocumentAI.ProcessorID,
	}
}

// OverlayConfig returns the PDF overlay styling
func (c *Config) OverlayConfig() report.OverlayConfig {
	return report.DefaultOverlayConfig()
}
