package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color. A is opacity, 255 is fully opaque.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	ColorBlack   = Color{R: 0, G: 0, B: 0, A: 255}
	ColorWhite   = Color{R: 255, G: 255, B: 255, A: 255}
	ColorGreen   = Color{R: 0, G: 255, B: 0, A: 255}
	ColorMagenta = Color{R: 255, G: 0, B: 255, A: 255}
)

// ColorFromRGB creates an opaque color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ParseHex parses "#RGB" or "#RRGGBB" into an opaque color.
func ParseHex(s string) (Color, error) {
	s = "#" + strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 4 && len(s) != 7 {
		return Color{}, fmt.Errorf("invalid hex color length: %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// MustParseHex is like ParseHex but panics on malformed input.
// Only use it for compile-time constants.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns the color with its opacity replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// IsDark reports whether the color reads as dark.
// A color is dark when its channels sum to less than half of full white.
func (c Color) IsDark() bool {
	return int(c.R)+int(c.G)+int(c.B) < 3*255/2
}

// Lighten moves the color toward white by amount (0.0 to 1.0).
func (c Color) Lighten(amount float64) Color {
	return c.Blend(ColorWhite.WithAlpha(c.A), amount)
}

// Darken moves the color toward black by amount (0.0 to 1.0).
func (c Color) Darken(amount float64) Color {
	return c.Blend(ColorBlack.WithAlpha(c.A), amount)
}

// Blend blends two colors in RGB space.
// Amount 0.0 = c, 1.0 = other. Alpha is kept from c.
func (c Color) Blend(other Color, amount float64) Color {
	amount = max(0, min(1, amount))
	out := fromColorful(c.colorful().BlendRgb(other.colorful(), amount))
	out.A = c.A
	return out
}

// Over composites c onto an opaque destination using c's alpha.
func (c Color) Over(dst Color) Color {
	if c.A == 255 {
		return c
	}
	if c.A == 0 {
		return dst
	}
	out := dst.Blend(c, float64(c.A)/255)
	out.A = 255
	return out
}

// Hex returns the "#RRGGBB" representation, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.A == 255 {
		return c.Hex()
	}
	return fmt.Sprintf("%s/%d", c.Hex(), c.A)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: 255}
}
