package canvas

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha color with components in [0,1].
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
	// KeyBorder is the outline drawn around unlit white keys.
	KeyBorder = Color{0.067, 0.067, 0.067, 1}
)

// RGBA builds a color from its components.
func RGBA(r, g, b, a float64) Color {
	return Color{r, g, b, a}
}

// HSL converts hue in degrees, saturation and lightness in [0,1].
func HSL(h, s, l float64) Color {
	return HSLA(h, s, l, 1)
}

// HSLA is HSL with an alpha component.
func HSLA(h, s, l, a float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped()
	return Color{c.R, c.G, c.B, clamp01(a)}
}

// ParseHex reads an opaque color written as "#rrggbb".
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return Color{c.R, c.G, c.B, 1}, nil
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// Darker returns a darker shade of the same color.
func (c Color) Darker() Color {
	const d = 0.8
	return Color{c.R * d, c.G * d, c.B * d, c.A}
}

// NRGBA converts to the image/color representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(clamp01(c.R) * 255)),
		G: uint8(math.Round(clamp01(c.G) * 255)),
		B: uint8(math.Round(clamp01(c.B) * 255)),
		A: uint8(math.Round(clamp01(c.A) * 255)),
	}
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
