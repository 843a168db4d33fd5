// Package core provides shared types for the textmap subsystem.
// This package breaks import cycles between the engine and its stages.
package core

import "errors"

// ErrSurfaceUnavailable is returned by a Canvas that cannot provide an
// offscreen layer yet (for example, a panel the host has not realized).
var ErrSurfaceUnavailable = errors.New("surface unavailable")

// DocumentID identifies an open document for the lifetime of the host.
type DocumentID string

// Anchor is an opaque host handle that tracks a position in a document
// across edits.
type Anchor uint64

// Line is one logical document line in the overview.
type Line struct {
	// Index is the zero-based line number within the snapshot.
	Index int

	// Raw is the line content without the trailing newline.
	Raw string

	// Changed is true if the content differs from the baseline.
	Changed bool

	// SearchMatch is true if the active search text occurs in Raw.
	SearchMatch bool

	// Y is the vertical pixel offset assigned by the renderer.
	Y float64
}

// Blank reports whether the line has no visible glyphs.
func (l Line) Blank() bool {
	for i := 0; i < len(l.Raw); i++ {
		switch l.Raw[i] {
		case ' ', '\t', '\r', '\v', '\f':
		default:
			return false
		}
	}
	return true
}

// Flagged reports whether the line is changed or matches the search.
func (l Line) Flagged() bool {
	return l.Changed || l.SearchMatch
}

// Rect is a rectangle in pixel space.
type Rect struct {
	X, Y float64
	W, H float64
}

// Empty returns true if the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Bottom returns the Y coordinate just past the rectangle.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// ScrollDirection identifies a scroll wheel direction.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
	ScrollLeft
	ScrollRight
)

// String returns the string representation of the direction.
func (d ScrollDirection) String() string {
	switch d {
	case ScrollUp:
		return "up"
	case ScrollDown:
		return "down"
	case ScrollLeft:
		return "left"
	case ScrollRight:
		return "right"
	default:
		return "unknown"
	}
}

// Surface is a 2D drawing target sized in pixels.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// MeasureText returns the extent of text drawn at the given font scale.
	MeasureText(text string, scale float64) (width, height float64)

	// DrawText draws text with its top-left corner at (x, y).
	DrawText(x, y float64, text string, scale float64, c Color)

	// FillRect fills a rectangle, blending by the color's alpha.
	FillRect(r Rect, c Color)
}

// Canvas is the visible surface of the overview panel.
type Canvas interface {
	Surface

	// NewLayer returns an offscreen surface with the canvas dimensions.
	// Returns ErrSurfaceUnavailable when the panel is not ready.
	NewLayer() (Surface, error)

	// Composite paints a layer created by NewLayer onto the canvas.
	Composite(layer Surface)
}

// Capabilities describes host quirks negotiated once at engine construction.
type Capabilities struct {
	// ReliableTextExtents is false when the host's text measurement cannot
	// be trusted; line pitch then falls back to the font scale.
	ReliableTextExtents bool

	// SearchText is false when the host cannot report the active search.
	SearchText bool
}

// DefaultCapabilities returns capabilities for a well-behaved host.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		ReliableTextExtents: true,
		SearchText:          true,
	}
}
