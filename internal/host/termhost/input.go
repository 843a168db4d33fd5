package termhost

import (
	"strings"

	"github.com/dshills/textmap/internal/renderer/backend"
	"github.com/dshills/textmap/internal/textmap/core"
)

// textWheelStep is the number of lines a wheel step scrolls the text pane.
const textWheelStep = 3

func (a *App) handleKey(ev backend.Event) {
	if a.prompt {
		a.handlePromptKey(ev)
		return
	}
	a.message = ""

	switch ev.Key {
	case backend.KeyCtrlC, backend.KeyEscape:
		a.quit = true
	case backend.KeyUp:
		a.scroll(a.view.ScrollBy, -1)
	case backend.KeyDown:
		a.scroll(a.view.ScrollBy, 1)
	case backend.KeyPageUp:
		a.page(a.view.PageUp)
	case backend.KeyPageDown:
		a.page(a.view.PageDown)
	case backend.KeyHome:
		a.page(a.view.ScrollToTop)
	case backend.KeyEnd:
		a.page(a.view.ScrollToBottom)
	case backend.KeyRune:
		a.handleRune(ev.Rune)
	}
}

func (a *App) handleRune(r rune) {
	switch r {
	case 'q':
		a.quit = true
	case 'j':
		a.scroll(a.view.ScrollBy, 1)
	case 'k':
		a.scroll(a.view.ScrollBy, -1)
	case ' ':
		a.page(a.view.PageDown)
	case 'b':
		a.page(a.view.PageUp)
	case 'g':
		a.page(a.view.ScrollToTop)
	case 'G':
		a.page(a.view.ScrollToBottom)
	case '/':
		a.prompt = true
		a.query = nil
		if a.doc != nil {
			if text, ok := a.doc.SearchText(); ok {
				a.query = []rune(text)
			}
		}
		a.RequestRepaint()
	case 'n':
		a.nextMatch()
	case 'r':
		if a.doc != nil {
			a.engine.RecaptureOriginal(a.doc.ID())
			a.message = "baseline recaptured"
			a.RequestRepaint()
		}
	}
}

func (a *App) handlePromptKey(ev backend.Event) {
	switch ev.Key {
	case backend.KeyEnter:
		a.prompt = false
		if a.doc != nil {
			a.doc.SetSearchText(string(a.query))
			a.engine.NotifySearchChanged()
		}
	case backend.KeyEscape, backend.KeyCtrlC:
		a.prompt = false
	case backend.KeyBackspace:
		if len(a.query) > 0 {
			a.query = a.query[:len(a.query)-1]
		}
	case backend.KeyRune:
		a.query = append(a.query, ev.Rune)
	}
	a.RequestRepaint()
}

// nextMatch centers the first line after the top of the view that
// contains the search text, wrapping around.
func (a *App) nextMatch() {
	if a.doc == nil {
		return
	}
	text, ok := a.doc.SearchText()
	if !ok {
		a.message = "no search"
		a.RequestRepaint()
		return
	}
	lines := a.doc.Lines()
	top := a.view.TopLine()
	for i := 1; i <= len(lines); i++ {
		line := (top + i) % len(lines)
		if strings.Contains(lines[line], text) {
			a.view.ScrollTo(line, true)
			a.viewMoved()
			return
		}
	}
	a.message = "no match"
	a.RequestRepaint()
}

func (a *App) scroll(by func(int), delta int) {
	by(delta)
	a.viewMoved()
}

func (a *App) page(move func()) {
	move()
	a.viewMoved()
}

// viewMoved redraws after the text pane scrolled. The engine only queues
// a repaint when the top line changed.
func (a *App) viewMoved() {
	a.engine.NotifyViewportMoved()
	a.RequestRepaint()
}

func (a *App) handleMouse(ev backend.Event) {
	inPanel := a.panel.Contains(ev.MouseX, ev.MouseY)

	switch ev.MouseButton {
	case backend.MouseLeft:
		if !inPanel && !a.dragging {
			return
		}
		y := panelY(ev.MouseY)
		if a.dragging {
			a.engine.OnPointerDrag(y, true)
		} else {
			a.dragging = true
			a.engine.OnPointerDown(y)
		}
	case backend.MouseNone:
		a.dragging = false
	case backend.MouseWheelUp:
		if inPanel {
			a.engine.OnScroll(core.ScrollUp)
		} else {
			a.scroll(a.view.ScrollBy, -textWheelStep)
		}
	case backend.MouseWheelDown:
		if inPanel {
			a.engine.OnScroll(core.ScrollDown)
		} else {
			a.scroll(a.view.ScrollBy, textWheelStep)
		}
	}
}

// panelY maps a screen row to the canvas pixel row at the middle of the
// cell.
func panelY(row int) float64 {
	return float64(row*cellHeight) + cellHeight/2
}
