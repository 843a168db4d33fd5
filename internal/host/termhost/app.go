// Package termhost runs a terminal viewer with an overview panel.
//
// The screen is split into a text pane on the left and the overview on the
// right, with a status line at the bottom. The overview is rendered into a
// raster canvas and blitted with half-block cells, each cell showing two
// box-filtered pixel blocks.
//
// All engine calls happen on the event loop goroutine. Other goroutines
// talk to the loop by posting interrupt events: repaint requests, file
// reloads and quit. Repaint requests coalesce, so at most one is queued.
package termhost

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dshills/textmap/internal/host/memdoc"
	"github.com/dshills/textmap/internal/renderer/backend"
	"github.com/dshills/textmap/internal/renderer/raster"
	"github.com/dshills/textmap/internal/renderer/viewport"
	"github.com/dshills/textmap/internal/textmap"
	"github.com/dshills/textmap/internal/textmap/core"
)

// Pixels per terminal cell in the overview canvas. Each cell shows two
// pixel blocks stacked vertically.
const (
	cellWidth  = 2
	cellHeight = 4
)

// DefaultPanelWidth is the overview width in cells.
const DefaultPanelWidth = 24

// minTextWidth is the narrowest text pane kept next to the panel.
const minTextWidth = 20

// Options configures an App.
type Options struct {
	// Name is shown in the status line.
	Name string
	// PanelWidth is the overview width in cells.
	PanelWidth int
	// Config configures the overview engine.
	Config textmap.Config
	// Logger receives engine and host logs.
	Logger zerolog.Logger
}

type (
	repaintEvent struct{}
	quitEvent    struct{}
	reloadEvent  struct{ text string }
)

// App is the terminal viewer. It implements textmap.Host.
type App struct {
	backend backend.Backend
	doc     *memdoc.Document
	view    *viewport.Viewport
	engine  *textmap.Engine
	log     zerolog.Logger
	name    string

	panelWidth int
	panel      backend.Rect
	canvas     *raster.Canvas
	textWidth  int
	rows       int

	pending  atomic.Bool
	dragging bool
	prompt   bool
	query    []rune
	message  string
	quit     bool
}

var (
	_ textmap.Host               = (*App)(nil)
	_ textmap.CapabilityReporter = (*App)(nil)
)

// New creates a viewer for doc on b. The backend is initialized by Run.
func New(b backend.Backend, doc *memdoc.Document, opts Options) (*App, error) {
	if opts.PanelWidth <= 0 {
		opts.PanelWidth = DefaultPanelWidth
	}
	a := &App{
		backend:    b,
		doc:        doc,
		view:       viewport.NewViewport(1, 1),
		log:        opts.Logger.With().Str("component", "termhost").Logger(),
		name:       opts.Name,
		panelWidth: opts.PanelWidth,
	}
	if doc != nil {
		a.view.SetLineCount(doc.LineCount())
	}

	engine, err := textmap.New(a, opts.Config, textmap.WithLogger(opts.Logger))
	if err != nil {
		return nil, fmt.Errorf("create overview engine: %w", err)
	}
	a.engine = engine
	return a, nil
}

// Engine returns the overview engine.
func (a *App) Engine() *textmap.Engine {
	return a.engine
}

// Run initializes the backend and processes events until quit or ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer a.backend.Shutdown()

	stop := context.AfterFunc(ctx, a.Quit)
	defer stop()

	a.layout(a.backend.Size())
	a.draw()
	for !a.quit {
		a.handle(a.backend.PollEvent())
	}
	a.log.Debug().Msg("event loop stopped")
	return nil
}

// Quit stops the event loop. It is safe to call from any goroutine.
func (a *App) Quit() {
	a.backend.PostEvent(backend.Interrupt(quitEvent{}))
}

// Reload replaces the document text on the event loop. It is safe to call
// from any goroutine and returns false if the event queue is full.
func (a *App) Reload(text string) bool {
	return a.backend.PostEvent(backend.Interrupt(reloadEvent{text: text}))
}

// ActiveDocument implements textmap.Host.
func (a *App) ActiveDocument() textmap.Document {
	if a.doc == nil {
		return nil
	}
	return a.doc
}

// VisibleLineRange implements textmap.Host.
func (a *App) VisibleLineRange() (top, bottom int) {
	return a.view.VisibleLineRange()
}

// ScrollTo implements textmap.Host.
func (a *App) ScrollTo(line int, centered bool) {
	a.view.ScrollTo(line, centered)
	a.RequestRepaint()
}

// RequestRepaint implements textmap.Host. While a repaint is queued
// further requests are dropped; the redraw reads the latest state.
func (a *App) RequestRepaint() {
	if !a.pending.CompareAndSwap(false, true) {
		return
	}
	if !a.backend.PostEvent(backend.Interrupt(repaintEvent{})) {
		a.pending.Store(false)
		a.log.Warn().Msg("repaint dropped: event queue full")
	}
}

// Capabilities implements textmap.CapabilityReporter. The raster canvas
// measures text exactly and the viewer supports search.
func (a *App) Capabilities() core.Capabilities {
	return core.DefaultCapabilities()
}

// layout splits the screen into text pane, separator, panel and status
// line, and reallocates the overview canvas.
func (a *App) layout(width, height int) {
	a.rows = max(1, height-1)

	pw := a.panelWidth
	if width-pw-1 < minTextWidth {
		pw = max(0, (width-1)/3)
	}
	a.textWidth = width
	a.panel = backend.Rect{}
	a.canvas = nil
	if pw > 0 {
		a.textWidth = width - pw - 1
		a.panel = backend.Rect{Left: width - pw, Top: 0, Right: width, Bottom: a.rows}
		c, err := raster.New(pw*cellWidth, a.rows*cellHeight)
		if err != nil {
			a.log.Warn().Err(err).Msg("overview canvas unavailable")
		} else {
			a.canvas = c
		}
	}
	a.view.Resize(a.textWidth, a.rows)

	a.log.Debug().
		Int("width", width).
		Int("height", height).
		Int("panel", pw).
		Msg("layout")
}

// handle dispatches one event.
func (a *App) handle(ev backend.Event) {
	switch ev.Type {
	case backend.EventKey:
		a.handleKey(ev)
	case backend.EventMouse:
		a.handleMouse(ev)
	case backend.EventResize:
		a.layout(ev.Width, ev.Height)
		a.engine.NotifyViewportMoved()
		a.RequestRepaint()
	case backend.EventInterrupt:
		a.handleInterrupt(ev.Data)
	}
}

func (a *App) handleInterrupt(data any) {
	switch d := data.(type) {
	case repaintEvent:
		a.pending.Store(false)
		a.draw()
	case reloadEvent:
		if a.doc == nil {
			return
		}
		a.doc.SetText(d.text)
		a.view.SetLineCount(a.doc.LineCount())
		a.message = "reloaded"
		a.engine.NotifyContentChanged()
		a.engine.NotifyViewportMoved()
		a.RequestRepaint()
	case quitEvent:
		a.quit = true
	}
}
