package textmap

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/dshills/textmap/internal/textmap/cache"
	"github.com/dshills/textmap/internal/textmap/core"
	"github.com/dshills/textmap/internal/textmap/downsample"
	"github.com/dshills/textmap/internal/textmap/render"
	"github.com/dshills/textmap/internal/textmap/search"
	"github.com/dshills/textmap/internal/textmap/theme"
	"github.com/dshills/textmap/internal/textmap/tracking"
	"github.com/dshills/textmap/internal/textmap/viewport"
)

// Engine renders the overview for one panel.
type Engine struct {
	host    Host
	config  Config
	log     zerolog.Logger
	caps    core.Capabilities
	capsSet bool
	sampler *downsample.Downsampler

	records map[core.DocumentID]*DocumentRecord
	cache   *cache.Cache
	active  core.DocumentID

	// lastTop is the top visible line at the last redraw.
	lastTop int
	haveTop bool

	frame FrameInfo
}

// New creates an engine for host. The configuration is validated eagerly;
// this is the only place the engine reports errors.
func New(host Host, cfg Config, opts ...Option) (*Engine, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sampler, err := downsample.New(cfg.Downsample)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		host:    host,
		config:  cfg,
		log:     zerolog.Nop(),
		caps:    core.DefaultCapabilities(),
		sampler: sampler,
		records: make(map[core.DocumentID]*DocumentRecord),
		cache:   cache.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.capsSet {
		if cr, ok := host.(CapabilityReporter); ok {
			e.caps = cr.Capabilities()
		}
	}
	e.log = e.log.With().Str("component", "textmap").Logger()
	e.log.Debug().
		Bool("reliableTextExtents", e.caps.ReliableTextExtents).
		Bool("searchText", e.caps.SearchText).
		Msg("capabilities negotiated")

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Capabilities returns the negotiated capabilities.
func (e *Engine) Capabilities() core.Capabilities {
	return e.caps
}

// LastFrame returns a description of the most recent redraw.
func (e *Engine) LastFrame() FrameInfo {
	return e.frame
}

// CacheState returns the state of the render cache.
func (e *Engine) CacheState() cache.State {
	return e.cache.State()
}

// CacheStats returns the render cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// Record returns the record for a document, or nil if it has not been
// drawn yet.
func (e *Engine) Record(id core.DocumentID) *DocumentRecord {
	return e.records[id]
}

// OnRedrawRequested draws the overview onto c. It does nothing when no
// document is open, the canvas has no area, or no layer can be allocated.
func (e *Engine) OnRedrawRequested(c core.Canvas) {
	doc := e.host.ActiveDocument()
	if doc == nil {
		e.log.Debug().Msg("redraw skipped: no document")
		return
	}
	w, h := c.Size()
	if w <= 0 || h <= 0 {
		e.log.Debug().Int("width", w).Int("height", h).Msg("redraw skipped: empty canvas")
		return
	}

	id := doc.ID()
	if id != e.active {
		e.cache.Invalidate(cache.ReasonDocument)
		e.active = id
	}

	key := cache.Key{Document: id, Width: w, Height: h}
	top, bottom := e.host.VisibleLineRange()

	if e.cache.Reusable(key) {
		c.Composite(e.cache.Layer())
		e.cache.Consume()
		e.frame.Full = false
	} else {
		if !e.fullPass(c, doc, key) {
			return
		}
	}

	e.drawIndicator(c, top, bottom, w)
	e.lastTop, e.haveTop = top, true
}

// fullPass rebuilds the silhouette layer and composites it.
func (e *Engine) fullPass(c core.Canvas, doc Document, key cache.Key) bool {
	layer, err := c.NewLayer()
	if err != nil {
		if !errors.Is(err, core.ErrSurfaceUnavailable) {
			e.log.Warn().Err(err).Msg("layer allocation failed")
		}
		e.log.Debug().Err(err).Msg("redraw skipped: layer unavailable")
		return false
	}

	sw := startStopwatch()
	rec := e.record(key.Document)

	raw := doc.Lines()
	lines := tracking.Snapshot(raw)
	sw.lap("snapshot")

	if rec.needsCapture {
		e.capture(rec, doc, raw)
	}
	rec.Baseline.Mark(lines, doc)
	sw.lap("track")

	if e.caps.SearchText {
		text, _ := doc.SearchText()
		rec.SearchText = text
		search.Annotate(lines, text)
	}
	sw.lap("search")

	result := e.sampler.Select(lines, float64(key.Height))
	sw.lap("downsample")

	if e.frame.Document == key.Document && e.frame.Scale != 0 && e.frame.Scale != result.Scale {
		e.log.Debug().Int("from", e.frame.Scale).Int("to", result.Scale).Msg("scale changed")
	}

	painted := render.Paint(layer, result.Lines, render.Params{
		Scale:        result.Scale,
		MaxScale:     e.config.Downsample.MaxScale,
		Elided:       result.Elided,
		Margin:       e.config.Margin,
		Palette:      e.palette(doc),
		Capabilities: e.caps,
	})
	e.cache.Store(layer, painted.Lines, key)
	sw.lap("paint")

	c.Composite(layer)
	sw.lap("composite")

	e.frame = FrameInfo{
		Document:      key.Document,
		Width:         key.Width,
		Height:        key.Height,
		Full:          true,
		Scale:         painted.Scale,
		Elided:        result.Elided,
		Smooshed:      painted.Smooshed,
		Lines:         painted.Lines,
		DocumentLines: len(raw),
	}

	sw.fields(e.log.Debug()).
		Str("doc", string(key.Document)).
		Int("scale", painted.Scale).
		Int("lines", len(painted.Lines)).
		Bool("elided", result.Elided).
		Int("markers", painted.Markers).
		Msg("full pass")
	return true
}

// drawIndicator overlays the visible range onto the canvas.
func (e *Engine) drawIndicator(c core.Canvas, top, bottom, width int) {
	lastLine := e.frame.DocumentLines - 1
	rect, ok := viewport.Indicator(e.frame.Lines, top, bottom, lastLine, float64(width))
	if ok {
		c.FillRect(rect, e.config.IndicatorColor)
	}
	e.frame.Top, e.frame.Bottom = top, bottom
	e.frame.Indicator, e.frame.HasIndicator = rect, ok
}

// palette resolves the document colors, falling back to defaults.
func (e *Engine) palette(doc Document) render.Palette {
	var fg, bg string
	var ok bool
	if t, isThemed := doc.(Themed); isThemed {
		fg, bg, ok = t.ThemeColors()
	}
	pair, err := theme.Resolve(fg, bg, ok)
	if err != nil {
		e.log.Warn().Err(err).Str("doc", string(doc.ID())).Msg("using default theme colors")
	}
	return render.Palette{
		Foreground: pair.Foreground,
		Background: pair.Background,
		Changed:    e.config.ChangedColor,
		Search:     e.config.SearchColor,
		Indicator:  e.config.IndicatorColor,
	}
}

func (e *Engine) record(id core.DocumentID) *DocumentRecord {
	rec, ok := e.records[id]
	if !ok {
		rec = newRecord(id)
		e.records[id] = rec
		e.log.Debug().Str("doc", string(id)).Msg("document attached")
	}
	return rec
}

// Attach captures the baseline of doc now instead of at its first redraw.
// It has no effect on a document that already has a baseline.
func (e *Engine) Attach(doc Document) {
	if doc == nil {
		return
	}
	rec := e.record(doc.ID())
	if !rec.needsCapture {
		return
	}
	e.capture(rec, doc, doc.Lines())
}

func (e *Engine) capture(rec *DocumentRecord, doc Document, raw []string) {
	rec.capture(doc, raw)
	if rec.CaptureErr != nil {
		e.log.Error().Err(rec.CaptureErr).Str("doc", string(rec.ID)).Msg("baseline capture failed")
		return
	}
	e.log.Debug().Str("doc", string(rec.ID)).Int("lines", rec.Baseline.Len()).Msg("baseline captured")
}

// OnPointerDown scrolls the primary view to the line under pixel y.
func (e *Engine) OnPointerDown(y float64) {
	if e.host.ActiveDocument() == nil || e.frame.Document != e.active {
		return
	}
	line, ok := viewport.LineAt(e.frame.Lines, y)
	if !ok {
		return
	}
	e.host.ScrollTo(line, true)
	e.NotifyViewportMoved()
}

// OnPointerDrag repeats OnPointerDown while the primary button is held.
func (e *Engine) OnPointerDrag(y float64, primaryHeld bool) {
	if primaryHeld {
		e.OnPointerDown(y)
	}
}

// OnScroll pages the primary view in response to a wheel step over the
// overview.
func (e *Engine) OnScroll(dir core.ScrollDirection) {
	if e.host.ActiveDocument() == nil {
		return
	}
	top, bottom := e.host.VisibleLineRange()
	line, ok := viewport.ScrollTarget(dir, top, bottom, e.config.ScrollPage)
	if !ok {
		return
	}
	e.host.ScrollTo(line, false)
	e.NotifyViewportMoved()
}

// NotifyContentChanged reports an edit to the active document.
func (e *Engine) NotifyContentChanged() {
	e.cache.Invalidate(cache.ReasonContent)
	e.host.RequestRepaint()
}

// NotifySearchChanged reports that the search highlight may have changed.
// A repaint is requested only if the search text differs from the one last
// drawn.
func (e *Engine) NotifySearchChanged() {
	if !e.caps.SearchText {
		return
	}
	doc := e.host.ActiveDocument()
	if doc == nil {
		return
	}
	text, _ := doc.SearchText()
	if rec, ok := e.records[doc.ID()]; ok {
		if rec.SearchText == text {
			return
		}
		rec.SearchText = text
	}
	e.cache.Invalidate(cache.ReasonSearch)
	e.host.RequestRepaint()
}

// NotifyViewportMoved reports that the primary view scrolled. When the
// top visible line changed, the next redraw reuses the cached layer and
// only moves the indicator.
func (e *Engine) NotifyViewportMoved() {
	top, _ := e.host.VisibleLineRange()
	if e.haveTop && top == e.lastTop {
		return
	}
	e.cache.ViewportMoved()
	e.host.RequestRepaint()
}

// RecaptureOriginal discards the baseline of a document. The next redraw
// captures the current content as the new baseline, so no line shows as
// changed.
func (e *Engine) RecaptureOriginal(id core.DocumentID) {
	rec, ok := e.records[id]
	if !ok {
		return
	}
	rec.discard()
	if doc := e.host.ActiveDocument(); doc != nil && doc.ID() == id {
		rec.release(doc)
	}
	if id == e.active {
		e.cache.Invalidate(cache.ReasonRecapture)
		e.host.RequestRepaint()
	}
}

// Detach forgets a document, typically when it is closed.
func (e *Engine) Detach(id core.DocumentID) {
	rec, ok := e.records[id]
	if ok {
		if doc := e.host.ActiveDocument(); doc != nil && doc.ID() == id {
			rec.release(doc)
		}
		delete(e.records, id)
		e.log.Debug().Str("doc", string(id)).Msg("document detached")
	}
	if id == e.active {
		e.cache.Invalidate(cache.ReasonDetach)
		e.active = ""
		e.frame = FrameInfo{}
		e.haveTop = false
	}
}
