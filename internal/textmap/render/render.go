// Package render paints the overview silhouette onto a surface.
//
// Lines are drawn top to bottom, translated right by a small margin. When
// the document fits at the largest font scale each line advances by its
// measured height; otherwise every line gets a uniform slot so elided
// overviews stay evenly spaced. Changed and search-matching lines get a
// small marker at the right edge that stays visible at any scale.
package render

import (
	"github.com/dshills/textmap/internal/textmap/core"
)

// Marker geometry relative to the right edge and the line's Y.
const (
	markerInset  = 3
	markerOffset = 2
	markerWidth  = 2
	markerHeight = 5
)

// DefaultMargin is the left margin of the silhouette in pixels.
const DefaultMargin = 3

// Default highlight colors.
var (
	DefaultChangedColor   = core.ColorMagenta
	DefaultSearchColor    = core.ColorGreen
	DefaultIndicatorColor = core.Color{R: 77, G: 77, B: 77, A: 89}
)

// Palette holds every color used by a pass.
type Palette struct {
	Foreground core.Color
	Background core.Color
	Changed    core.Color
	Search     core.Color
	Indicator  core.Color
}

// DefaultPalette returns the light palette with the default highlights.
func DefaultPalette() Palette {
	return Palette{
		Foreground: core.ColorBlack,
		Background: core.ColorWhite,
		Changed:    DefaultChangedColor,
		Search:     DefaultSearchColor,
		Indicator:  DefaultIndicatorColor,
	}
}

// LineColor returns the text color for a line. A search match wins over a
// change.
func (p Palette) LineColor(l core.Line) core.Color {
	switch {
	case l.SearchMatch:
		return p.Search
	case l.Changed:
		return p.Changed
	default:
		return p.Foreground
	}
}

// Params describes one paint pass.
type Params struct {
	// Scale is the font scale chosen by the downsampler.
	Scale int

	// MaxScale is the largest configured scale.
	MaxScale int

	// Elided reports whether the downsampler dropped lines.
	Elided bool

	// Margin is the left offset of the silhouette.
	Margin float64

	Palette      Palette
	Capabilities core.Capabilities
}

// Smooshed reports whether lines are laid out in uniform slots.
func (p Params) Smooshed() bool {
	return p.Elided || p.Scale < p.MaxScale
}

// Frame is the result of a paint pass.
type Frame struct {
	// Lines are the painted lines with Y assigned.
	Lines []core.Line

	// Scale is the font scale used.
	Scale int

	// Smooshed is true when lines were given uniform slots.
	Smooshed bool

	// Markers is the number of edge markers drawn.
	Markers int
}

// Paint fills the surface with the background and draws lines onto it,
// recording each line's Y in place.
func Paint(s core.Surface, lines []core.Line, p Params) Frame {
	w, h := s.Size()
	s.FillRect(core.Rect{W: float64(w), H: float64(h)}, p.Palette.Background)

	frame := Frame{Lines: lines, Scale: p.Scale, Smooshed: p.Smooshed()}
	if len(lines) == 0 {
		return frame
	}

	scale := float64(p.Scale)
	slot := float64(h) / float64(len(lines))

	y := 0.0
	for i := range lines {
		l := &lines[i]
		l.Y = y

		if l.Blank() {
			if frame.Smooshed {
				y += slot
			} else {
				y += scale - 1
			}
			continue
		}

		s.DrawText(p.Margin, y, l.Raw, scale, p.Palette.LineColor(*l))
		if frame.Smooshed {
			y += slot
			continue
		}
		_, th := s.MeasureText(l.Raw, scale)
		if !p.Capabilities.ReliableTextExtents {
			th = scale
		}
		y += th
	}

	frame.Markers = paintMarkers(s, lines, float64(w), p.Palette)
	return frame
}

// paintMarkers draws the right-edge marker for every flagged line.
func paintMarkers(s core.Surface, lines []core.Line, width float64, pal Palette) int {
	n := 0
	for _, l := range lines {
		if !l.Flagged() {
			continue
		}
		s.FillRect(core.Rect{
			X: width - markerInset,
			Y: l.Y - markerOffset,
			W: markerWidth,
			H: markerHeight,
		}, pal.LineColor(l))
		n++
	}
	return n
}
