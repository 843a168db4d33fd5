// Package viewport maps between overview pixels and document lines.
package viewport

import (
	"github.com/dshills/textmap/internal/textmap/core"
)

// DefaultScrollPage is the number of lines a wheel step moves the view.
const DefaultScrollPage = 12

// Indicator returns the rectangle marking the visible line range [top,
// bottom] on the painted lines. The second result is false when there is
// nothing to draw: no lines, or the whole document is visible.
//
// The rectangle starts at the first painted line with Index >= top, or at 0
// when there is none, and ends at the first painted line with Index >=
// bottom, or at the last painted line when there is none.
func Indicator(lines []core.Line, top, bottom, lastLine int, width float64) (core.Rect, bool) {
	if len(lines) == 0 {
		return core.Rect{}, false
	}
	if top == 0 && bottom == lastLine {
		return core.Rect{}, false
	}

	topY, topFound := 0.0, false
	botY, botFound := lines[len(lines)-1].Y, false
	for _, l := range lines {
		if !topFound && l.Index >= top {
			topY, topFound = l.Y, true
		}
		if !botFound && l.Index >= bottom {
			botY, botFound = l.Y, true
		}
		if topFound && botFound {
			break
		}
	}

	if botY < topY {
		botY = topY
	}
	return core.Rect{X: 0, Y: topY, W: width, H: botY - topY}, true
}

// LineAt returns the document line a click at pixel y should scroll to:
// the first painted line whose Y is below y, or the last painted line when
// y is past them all.
func LineAt(lines []core.Line, y float64) (int, bool) {
	if len(lines) == 0 {
		return 0, false
	}
	for _, l := range lines {
		if l.Y > y {
			return l.Index, true
		}
	}
	return lines[len(lines)-1].Index, true
}

// ScrollTarget returns the line a wheel step over the overview scrolls to.
// Scrolling up moves the top of the view back a page, but only once it is
// more than a page from the start. Scrolling down moves a page past the
// bottom. Horizontal steps do not scroll.
func ScrollTarget(dir core.ScrollDirection, top, bottom, page int) (int, bool) {
	switch dir {
	case core.ScrollUp:
		if top > page {
			return top - page, true
		}
	case core.ScrollDown:
		return bottom + page, true
	}
	return 0, false
}
