// Package viewport tracks the visible portion of the primary text view.
package viewport

import "sync"

// Viewport represents the visible portion of the document.
type Viewport struct {
	mu sync.RWMutex

	// First visible line
	topLine int

	// Size in screen cells
	width  int
	height int

	// Document size
	lineCount int
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:     max(1, width),
		height:    max(1, height),
		lineCount: 1,
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// BottomLine returns the last visible line.
func (v *Viewport) BottomLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

func (v *Viewport) bottomLine() int {
	return min(v.topLine+v.height-1, v.lineCount-1)
}

// LineCount returns the document line count.
func (v *Viewport) LineCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lineCount
}

// Resize updates the viewport size.
// Width and height are clamped to a minimum of 1.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width = max(1, width)
	v.height = max(1, height)
	v.topLine = v.clampTop(v.topLine)
}

// SetLineCount sets the number of lines in the document.
func (v *Viewport) SetLineCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lineCount = max(1, n)
	v.topLine = v.clampTop(v.topLine)
}

// clampTop keeps the last line reachable without scrolling past a full
// page of blank rows.
func (v *Viewport) clampTop(top int) int {
	limit := max(0, v.lineCount-v.height)
	return max(0, min(top, limit))
}

// VisibleLineRange returns the first and last visible lines, inclusive.
func (v *Viewport) VisibleLineRange() (top, bottom int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, v.bottomLine()
}

// IsLineVisible returns true if the line is in the visible range.
func (v *Viewport) IsLineVisible(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line <= v.bottomLine()
}

// LineToScreenRow converts a document line to a screen row.
// Returns -1 if the line is not visible.
func (v *Viewport) LineToScreenRow(line int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if line < v.topLine || line > v.bottomLine() {
		return -1
	}
	return line - v.topLine
}

// ScreenRowToLine converts a screen row to a document line.
// Returns false for rows outside the viewport or past the end of the
// document.
func (v *Viewport) ScreenRowToLine(row int) (int, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if row < 0 || row >= v.height {
		return 0, false
	}
	line := v.topLine + row
	if line >= v.lineCount {
		return 0, false
	}
	return line, true
}

// ScrollTo moves the view to show line. When centered is set the line is
// placed in the middle of the view. Otherwise the view scrolls the least
// amount that reveals it.
func (v *Viewport) ScrollTo(line int, centered bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	line = max(0, min(line, v.lineCount-1))
	switch {
	case centered:
		v.topLine = v.clampTop(line - v.height/2)
	case line < v.topLine:
		v.topLine = v.clampTop(line)
	case line > v.bottomLine():
		v.topLine = v.clampTop(line - v.height + 1)
	}
}

// SetTopLine places line at the top of the view.
func (v *Viewport) SetTopLine(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(line)
}

// ScrollBy scrolls by a delta number of lines.
func (v *Viewport) ScrollBy(deltaLines int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(v.topLine + deltaLines)
}

// PageUp scrolls up by one page (viewport height minus overlap).
func (v *Viewport) PageUp() {
	v.ScrollBy(-v.pageSize())
}

// PageDown scrolls down by one page (viewport height minus overlap).
func (v *Viewport) PageDown() {
	v.ScrollBy(v.pageSize())
}

func (v *Viewport) pageSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	// Keep 2 lines of overlap
	return max(1, v.height-2)
}

// ScrollToTop scrolls to the top of the document.
func (v *Viewport) ScrollToTop() {
	v.SetTopLine(0)
}

// ScrollToBottom scrolls so the last line is at the bottom of the view.
func (v *Viewport) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(v.lineCount)
}

// ScrollPercent returns how far the view is scrolled, from 0 to 100.
func (v *Viewport) ScrollPercent() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	limit := v.lineCount - v.height
	if limit <= 0 {
		return 0
	}
	return float64(v.topLine) / float64(limit) * 100
}
