package textmap

import "github.com/dshills/textmap/internal/textmap/core"

// FrameInfo describes the most recent redraw.
type FrameInfo struct {
	// Document is the document drawn.
	Document core.DocumentID

	// Width and Height are the canvas dimensions in pixels.
	Width, Height int

	// Full is true when the silhouette was repainted; false when the cached
	// layer was reused and only the indicator moved.
	Full bool

	// Scale is the font scale of the silhouette.
	Scale int

	// Elided reports whether lines were dropped to fit.
	Elided bool

	// Smooshed reports whether lines were laid out in uniform slots.
	Smooshed bool

	// Lines are the painted lines with their Y positions.
	Lines []core.Line

	// DocumentLines is the line count of the document at the last full
	// pass.
	DocumentLines int

	// Top and Bottom are the visible range the indicator was drawn for.
	Top, Bottom int

	// Indicator is the viewport indicator rectangle; valid when
	// HasIndicator is true.
	Indicator    core.Rect
	HasIndicator bool
}

// Changed returns the number of painted lines flagged as changed.
func (f FrameInfo) Changed() int {
	n := 0
	for _, l := range f.Lines {
		if l.Changed {
			n++
		}
	}
	return n
}
