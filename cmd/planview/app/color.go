package app

import (
	"image/color"
	"math"
)

const (
	ClassicTheme   ColorTheme = "classic"
	PastelTheme    ColorTheme = "pastel"
	GrayscaleTheme ColorTheme = "grayscale"
)

type ColorTheme string

// GuardColor fills guard bins regardless of theme.
var GuardColor = color.RGBA{R: 0xd9, G: 0xd9, B: 0xd9, A: 0xff}

// HSV represents a color in HSV color space
type HSV struct {
	H float64 // Hue [0-360]
	S float64 // Saturation [0-1]
	V float64 // Value [0-1]
}

// RGB converts HSV color space to RGB
// H: [0-360], S: [0-1], V: [0-1]
func (hsv HSV) RGB() color.Color {
	h := hsv.H
	s := hsv.S
	v := hsv.V

	if s <= 0.0 {
		rgb := uint8(v * 255)
		return color.RGBA{R: rgb, G: rgb, B: rgb, A: 0xff}
	}

	// Normalize hue to [0-6]
	h = math.Mod(h, 360) / 60
	i := math.Floor(h)
	f := h - i

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64

	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 0xff}
}

// ModulationPalette maps each modulation type in a plan to a stable color.
// Colors are spread evenly around the hue wheel so plans with few modulation
// types stay visually distinct.
type ModulationPalette struct {
	theme  ColorTheme
	colors map[string]color.Color
}

// NewModulationPalette builds a palette for the given modulation types in
// order of first appearance.
func NewModulationPalette(theme ColorTheme, modulations []string) *ModulationPalette {
	p := ModulationPalette{
		theme:  theme,
		colors: make(map[string]color.Color, len(modulations)),
	}

	n := len(modulations)
	for i, m := range modulations {
		if _, ok := p.colors[m]; ok {
			continue
		}
		p.colors[m] = themeColor(theme, i, n)
	}

	return &p
}

// GetColor returns the color assigned to a modulation type. Unknown types
// fall back to the guard color so they remain visible.
func (p *ModulationPalette) GetColor(modulation string) color.Color {
	if c, ok := p.colors[modulation]; ok {
		return c
	}
	return GuardColor
}

func themeColor(theme ColorTheme, index, total int) color.Color {
	fraction := float64(index) / float64(max(total, 1))

	switch theme {
	case PastelTheme:
		return HSV{H: fraction * 360, S: 0.45, V: 0.95}.RGB()

	case GrayscaleTheme:
		// Keep away from the white background and the gray guard fill
		v := 0.25 + fraction*0.45
		return HSV{H: 0, S: 0, V: v}.RGB()

	default: // ClassicTheme
		return HSV{H: fraction * 360, S: 0.85, V: 0.85}.RGB()
	}
}
