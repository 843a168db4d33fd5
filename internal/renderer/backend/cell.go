package backend

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/textmap/internal/textmap/core"
)

// Attribute represents text attributes as a bitmask.
type Attribute uint8

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrReverse
	AttrUnderline
)

// Has returns true if the attribute set contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style holds the colors and attributes of a cell. A color with zero alpha
// means the terminal default.
type Style struct {
	Foreground core.Color
	Background core.Color
	Attributes Attribute
}

// DefaultStyle returns the terminal default style.
func DefaultStyle() Style {
	return Style{}
}

// WithForeground returns a copy with the foreground replaced.
func (s Style) WithForeground(fg core.Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a copy with the background replaced.
func (s Style) WithBackground(bg core.Color) Style {
	s.Background = bg
	return s
}

// WithAttributes returns a copy with the attributes added.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes |= attrs
	return s
}

// Cell is a single character cell on the screen.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' '}
}

// NewCell returns a cell with the default style.
func NewCell(r rune) Cell {
	return Cell{Rune: r}
}

// NewStyledCell returns a cell with the given style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Style: style}
}

// Rect is a rectangle in cell coordinates. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the number of columns.
func (r Rect) Width() int {
	return max(0, r.Right-r.Left)
}

// Height returns the number of rows.
func (r Rect) Height() int {
	return max(0, r.Bottom-r.Top)
}

// Contains reports whether (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// RuneWidth returns the display width of r in cells.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// DrawString writes s at (x, y), clipped to maxWidth columns. Wide runes
// take two cells and the terminal fills the second. It returns the number of columns written.
func DrawString(b Backend, x, y, maxWidth int, s string, style Style) int {
	col := 0
	for _, r := range s {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > maxWidth {
			break
		}
		b.SetCell(x+col, y, NewStyledCell(r, style))
		col += w
	}
	return col
}
