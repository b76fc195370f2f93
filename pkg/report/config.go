package report

// OverlayConfig holds the styling of the PDF overlay
type OverlayConfig struct {
	LineWidth  float64    // Stroke width of the rectangles, in image pixels
	ShowText   bool       // Draw line text visibly instead of as an invisible text layer
	ShowLines  bool       // Draw the assembled line rectangles
	RegionName string     // Name of the region layer
	LineName   string     // Name of the line layer
	Font       FontConfig // Font of the text layer
}

// DefaultOverlayConfig returns a config with sensible defaults
func DefaultOverlayConfig() OverlayConfig {
	return OverlayConfig{
		LineWidth:  2,
		ShowText:   false,
		ShowLines:  true,
		RegionName: "Regions",
		LineName:   "Lines",
		Font:       DefaultFont,
	}
}

// FontConfig contains font settings for the text layer
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont is Helvetica, one of the core PDF fonts
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}

// depthColors cycles through the stroke colours of nested regions
var depthColors = [][3]int{
	{220, 40, 40},  // roots
	{40, 120, 220}, // depth 1
	{40, 170, 70},  // depth 2
	{230, 150, 20}, // depth 3
	{150, 60, 190}, // deeper
}

// lineColor is the stroke colour of assembled lines
var lineColor = [3]int{120, 120, 120}
