package surface

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

// Displayable converts a linear, possibly extended-range colour into the
// sRGB colour a standard display can show. headroom is the brightest
// requested channel; values above 1 mean the caller asked for more than
// standard white.
func Displayable(c strobe.Color) (col colorful.Color, headroom float64) {
	headroom = math.Max(c.R, math.Max(c.G, c.B))
	col = colorful.LinearRgb(nonNeg(c.R), nonNeg(c.G), nonNeg(c.B)).Clamped()
	return col, headroom
}

// Hex returns the displayable colour as "#rrggbb".
func Hex(c strobe.Color) string {
	col, _ := Displayable(c)
	return col.Hex()
}

// NRGBA returns the displayable colour with alpha for image-based backends.
func NRGBA(c strobe.Color) color.NRGBA {
	col, _ := Displayable(c)
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(c.A) * 255))}
}

func nonNeg(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	return math.Min(1, nonNeg(v))
}
