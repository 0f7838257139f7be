package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spectrumlab/bandplan/internal/bandplan"
)

const (
	defaultBinWidth    = 24
	defaultChartHeight = 200

	dpi            = 72.0
	fontSize       = 12.0
	tickMarkHeight = 5
	pixelsPerLabel = 120

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 20
	defaultBottomBorder = 40
	defaultRightBorder  = 20
)

var (
	gridLineColor = color.RGBA{R: 0xec, G: 0xec, B: 0xec, A: 0xff}
	axisColor     = color.Black
)

// BorderConfig defines the sizes of white space around the chart
type BorderConfig struct {
	Top    int // Space for the frequency scale
	Left   int
	Bottom int // Space for the information bar
	Right  int
}

// RenderConfig holds all configuration options for band plan visualization
type RenderConfig struct {
	Theme         ColorTheme // Color scheme for signal blocks
	FontFile      string     // Optional TTF file; built-in bitmap font if empty
	BinWidth      int        // Rendered width of one bin in pixels
	ChartHeight   int        // Chart height in pixels
	NoAnnotations bool       // Skip scales, labels and the info bar

	BorderConfig BorderConfig
}

// PlanRenderer draws a band plan as an occupancy chart: one column per grid
// bin, a colored block per signal and gray blocks for guard bins.
type PlanRenderer struct {
	config RenderConfig
	face   font.Face
}

// NewPlanRenderer creates a new plan renderer with the given configuration
func NewPlanRenderer(config RenderConfig) (*PlanRenderer, error) {
	if config.BinWidth == 0 {
		config.BinWidth = defaultBinWidth
	}
	if config.ChartHeight == 0 {
		config.ChartHeight = defaultChartHeight
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	face, err := loadFontFace(config.FontFile)
	if err != nil {
		return nil, err
	}

	return &PlanRenderer{config: config, face: face}, nil
}

func loadFontFace(path string) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}

	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    fontSize,
		DPI:     dpi,
		Hinting: font.HintingNone,
	}), nil
}

func (r *PlanRenderer) Close() error {
	if r.face != nil {
		return r.face.Close()
	}
	return nil
}

// Render creates an image of the band plan with optional annotations
func (r *PlanRenderer) Render(plan *bandplan.Plan) (*image.RGBA, error) {
	if plan.NBins < 1 {
		return nil, fmt.Errorf("plan has no bins")
	}

	grid := bandplan.NewGrid(plan.FreqSpan, plan.NBins)

	chartWidth := plan.NBins * r.config.BinWidth
	fullWidth := chartWidth + r.config.BorderConfig.Left + r.config.BorderConfig.Right
	fullHeight := r.config.ChartHeight + r.config.BorderConfig.Top + r.config.BorderConfig.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	// Fill with white background
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	chartArea := image.Rect(
		r.config.BorderConfig.Left,
		r.config.BorderConfig.Top,
		r.config.BorderConfig.Left+chartWidth,
		r.config.BorderConfig.Top+r.config.ChartHeight,
	)

	r.drawGridLines(img, chartArea, plan.NBins)

	palette := NewModulationPalette(r.config.Theme, planModulations(plan))

	// Guard blocks first so occupied blocks always stay visible, even where
	// a wrapped guard bin lands on another signal's side of the grid.
	for _, sig := range plan.Signals {
		for _, bin := range sig.GuardBins {
			r.fillBin(img, chartArea, bin, GuardColor)
		}
	}
	for _, sig := range plan.Signals {
		for _, bin := range sig.OccupiedBins {
			r.fillBin(img, chartArea, bin, palette.GetColor(sig.ModulationType))
		}
	}

	if !r.config.NoAnnotations {
		r.drawSignalLabels(img, chartArea, plan)
		if err := r.annotate(img, chartArea, grid, plan); err != nil {
			return nil, fmt.Errorf("drawing annotations: %w", err)
		}
	}

	return img, nil
}

// planModulations returns the modulation types of a plan in order of first
// appearance, so palette colors stay stable for a given plan.
func planModulations(plan *bandplan.Plan) []string {
	seen := make(map[string]struct{}, len(plan.Signals))
	var modulations []string
	for _, sig := range plan.Signals {
		if _, ok := seen[sig.ModulationType]; ok {
			continue
		}
		seen[sig.ModulationType] = struct{}{}
		modulations = append(modulations, sig.ModulationType)
	}
	return modulations
}

func (r *PlanRenderer) drawGridLines(img *image.RGBA, area image.Rectangle, nBins int) {
	for i := 0; i <= nBins; i++ {
		x := area.Min.X + i*r.config.BinWidth
		for y := area.Min.Y; y < area.Max.Y; y++ {
			img.Set(x, y, gridLineColor)
		}
	}
}

func (r *PlanRenderer) fillBin(img *image.RGBA, area image.Rectangle, bin int, c color.Color) {
	block := image.Rect(
		area.Min.X+bin*r.config.BinWidth+1,
		area.Min.Y,
		area.Min.X+(bin+1)*r.config.BinWidth,
		area.Max.Y,
	)
	draw.Draw(img, block, image.NewUniform(c), image.Point{}, draw.Src)
}

func (r *PlanRenderer) drawSignalLabels(img *image.RGBA, area image.Rectangle, plan *bandplan.Plan) {
	metrics := r.face.Metrics()
	textY := area.Min.Y + (area.Dy()+metrics.Ascent.Round())/2

	for _, sig := range plan.Signals {
		if len(sig.OccupiedBins) == 0 {
			continue
		}

		spanStartX := area.Min.X + sig.OccupiedBins[0]*r.config.BinWidth
		spanWidth := len(sig.OccupiedBins) * r.config.BinWidth

		label := sig.ModulationType
		width := font.MeasureString(r.face, label).Round()
		if width > spanWidth-4 {
			continue // too narrow to label
		}

		r.drawString(img, label, spanStartX+(spanWidth-width)/2, textY)
	}
}

func (r *PlanRenderer) annotate(img *image.RGBA, area image.Rectangle, grid bandplan.Grid, plan *bandplan.Plan) error {
	r.drawFrequencyScale(img, area, grid)
	r.drawInfoBar(img, grid, plan)
	return nil
}

func (r *PlanRenderer) drawFrequencyScale(img *image.RGBA, area image.Rectangle, grid bandplan.Grid) {
	freqMin := grid.Edges[0]
	freqMax := grid.Edges[len(grid.Edges)-1]
	freqStep := niceFrequencyStep(freqMax-freqMin, area.Dx())

	metrics := r.face.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := area.Min.Y - tickMarkHeight - fontHeight/2

	startFreq := math.Ceil(freqMin/freqStep) * freqStep
	for freq := startFreq; freq <= freqMax; freq += freqStep {
		xRatio := (freq - freqMin) / (freqMax - freqMin)
		x := area.Min.X + int(xRatio*float64(area.Dx()))

		// Draw tick mark
		for y := area.Min.Y - tickMarkHeight; y < area.Min.Y; y++ {
			img.Set(x, y, axisColor)
		}

		label := formatFrequency(freq)
		width := font.MeasureString(r.face, label).Round()
		r.drawString(img, label, x-width/2, textY)
	}
}

func (r *PlanRenderer) drawInfoBar(img *image.RGBA, grid bandplan.Grid, plan *bandplan.Plan) {
	info := fmt.Sprintf("Span: %s; bin: %s; bins: %d; signals: %d",
		formatFrequency(grid.ChannelBandwidth),
		formatFrequency(grid.BinBandwidth),
		plan.NBins,
		plan.NSignals)

	metrics := r.face.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := img.Bounds().Max.Y - (r.config.BorderConfig.Bottom-fontHeight)/2 - metrics.Descent.Round()

	r.drawString(img, info, r.config.BorderConfig.Left, textY)
}

func (r *PlanRenderer) drawString(img *image.RGBA, s string, x, y int) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Helper functions

func niceFrequencyStep(span float64, width int) float64 {
	// Standard step sizes in Hz
	steps := []float64{
		1,             // 1 Hz
		10,            // 10 Hz
		100,           // 100 Hz
		1_000,         // 1 kHz
		10_000,        // 10 kHz
		100_000,       // 100 kHz
		1_000_000,     // 1 MHz
		10_000_000,    // 10 MHz
		100_000_000,   // 100 MHz
		1_000_000_000, // 1 GHz
	}

	desiredSteps := float64(width) / pixelsPerLabel
	targetStep := span / desiredSteps

	for _, step := range steps {
		if step >= targetStep {
			if span/step >= 2 {
				return step
			}
			break
		}
	}

	// Fall back to half the span to show at least the channel centre
	return span / 2
}

func formatFrequency(freq float64) string {
	fract, suffix := humanize.ComputeSI(freq)
	return fmt.Sprintf("%.1f %sHz", fract, suffix)
}
