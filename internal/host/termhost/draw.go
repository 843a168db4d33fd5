package termhost

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/textmap/internal/renderer/backend"
	"github.com/dshills/textmap/internal/renderer/raster"
	"github.com/dshills/textmap/internal/textmap/core"
)

// upperHalf shows the foreground in the top half of the cell and the
// background in the bottom half.
const upperHalf = '▀'

const tabWidth = 4

// draw repaints the whole screen.
func (a *App) draw() {
	a.backend.Clear()
	// The panel goes first so the text pane can use the fresh frame.
	a.drawPanel()
	a.drawText()
	a.drawStatus()
	a.backend.Show()
}

func (a *App) drawPanel() {
	if a.canvas == nil {
		return
	}
	a.canvas.Clear(core.ColorBlack)
	a.engine.OnRedrawRequested(a.canvas)
	blit(a.backend, a.canvas, a.panel)

	sep := backend.NewStyledCell('│', backend.DefaultStyle().WithAttributes(backend.AttrDim))
	for y := a.panel.Top; y < a.panel.Bottom; y++ {
		a.backend.SetCell(a.panel.Left-1, y, sep)
	}
}

// blit copies the canvas into rect, two pixel blocks per cell. Terminals
// without 24-bit color get the dominant color of each block instead of its
// average, so highlight colors survive palette quantization.
func blit(b backend.Backend, c *raster.Canvas, rect backend.Rect) {
	reduce := average
	if !b.HasTrueColor() {
		reduce = dominant
	}
	half := cellHeight / 2
	for cy := 0; cy < rect.Height(); cy++ {
		for cx := 0; cx < rect.Width(); cx++ {
			px, py := cx*cellWidth, cy*cellHeight
			style := backend.Style{
				Foreground: reduce(c, px, py, cellWidth, half),
				Background: reduce(c, px, py+half, cellWidth, half),
			}
			b.SetCell(rect.Left+cx, rect.Top+cy, backend.NewStyledCell(upperHalf, style))
		}
	}
}

// average box-filters a w×h block of pixels into one opaque color.
func average(c *raster.Canvas, x, y, w, h int) core.Color {
	var r, g, b int
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			p := c.At(x+i, y+j)
			r += int(p.R)
			g += int(p.G)
			b += int(p.B)
		}
	}
	n := w * h
	return core.ColorFromRGB(uint8(r/n), uint8(g/n), uint8(b/n))
}

// dominant returns the most frequent opaque color of a w×h block. Ties go
// to the color seen first.
func dominant(c *raster.Canvas, x, y, w, h int) core.Color {
	counts := make(map[core.Color]int, w*h)
	var best core.Color
	bestN := 0
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			p := c.At(x+i, y+j)
			p.A = 255
			counts[p]++
			if counts[p] > bestN {
				best, bestN = p, counts[p]
			}
		}
	}
	return best
}

func (a *App) drawText() {
	if a.doc == nil {
		backend.DrawString(a.backend, 0, 0, a.textWidth, "no document", backend.DefaultStyle().WithAttributes(backend.AttrDim))
		return
	}

	lines := a.doc.Lines()
	gutter := len(strconv.Itoa(len(lines))) + 1
	search, hasSearch := a.doc.SearchText()
	changed := a.changedLines()
	cfg := a.engine.Config()

	numStyle := backend.DefaultStyle().WithAttributes(backend.AttrDim)
	for row := 0; row < a.rows; row++ {
		line, ok := a.view.ScreenRowToLine(row)
		if !ok {
			break
		}

		style := numStyle
		switch {
		case hasSearch && strings.Contains(lines[line], search):
			style = backend.DefaultStyle().WithForeground(cfg.SearchColor)
		case changed[line]:
			style = backend.DefaultStyle().WithForeground(cfg.ChangedColor)
		}
		num := fmt.Sprintf("%*d ", gutter-1, line+1)
		backend.DrawString(a.backend, 0, row, a.textWidth, num, style)

		text := strings.ReplaceAll(lines[line], "\t", strings.Repeat(" ", tabWidth))
		backend.DrawString(a.backend, gutter, row, a.textWidth-gutter, text, backend.DefaultStyle())
	}
}

// changedLines returns the changed flags of the last overview frame.
// Lines elided from the frame are not reported.
func (a *App) changedLines() map[int]bool {
	frame := a.engine.LastFrame()
	changed := make(map[int]bool)
	for _, l := range frame.Lines {
		if l.Changed {
			changed[l.Index] = true
		}
	}
	return changed
}

func (a *App) drawStatus() {
	w, _ := a.backend.Size()
	style := backend.DefaultStyle().WithAttributes(backend.AttrReverse)
	a.backend.Fill(backend.Rect{Left: 0, Top: a.rows, Right: w, Bottom: a.rows + 1}, backend.NewStyledCell(' ', style))

	if a.prompt {
		backend.DrawString(a.backend, 0, a.rows, w, "/"+string(a.query), style)
		return
	}

	top, bottom := a.view.VisibleLineRange()
	left := fmt.Sprintf(" %s  %d-%d/%d  %.0f%%", a.name, top+1, bottom+1, a.view.LineCount(), a.view.ScrollPercent())
	if a.message != "" {
		left += "  " + a.message
	}

	frame := a.engine.LastFrame()
	right := ""
	if frame.Scale > 0 {
		right = fmt.Sprintf("scale %d", frame.Scale)
		if frame.Elided {
			right += " elided"
		}
		right += fmt.Sprintf("  %d changed ", frame.Changed())
	}

	backend.DrawString(a.backend, 0, a.rows, w, left, style)
	if x := w - runewidth.StringWidth(right); x > runewidth.StringWidth(left) {
		backend.DrawString(a.backend, x, a.rows, w-x, right, style)
	}
}
