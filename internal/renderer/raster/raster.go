// Package raster implements the overview drawing surface on an in-memory
// RGBA image.
//
// Text is not rasterized from a font. Each visible cell becomes a solid
// bar the height of a glyph, which is what a minimap reads as at a few
// pixels per line.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dshills/textmap/internal/textmap/core"
)

// ErrInvalidSize is returned for non-positive canvas dimensions.
var ErrInvalidSize = errors.New("invalid canvas size")

// Default glyph proportions relative to the font scale.
const (
	DefaultGlyphAspect      = 0.6
	DefaultLineHeightFactor = 0.85
	DefaultTabWidth         = 4
)

// Lifetime of memoized text extents. Lines that stop being drawn age out
// and the janitor sweeps them.
const (
	DefaultExtentExpiration = 5 * time.Minute
	DefaultExtentCleanup    = 10 * time.Minute
)

// Option configures a Canvas during creation.
type Option func(*Canvas)

// WithGlyphAspect sets the cell width as a fraction of the font scale.
func WithGlyphAspect(f float64) Option {
	return func(c *Canvas) {
		if f > 0 {
			c.aspect = f
		}
	}
}

// WithLineHeightFactor sets the measured line height as a fraction of the
// font scale.
func WithLineHeightFactor(f float64) Option {
	return func(c *Canvas) {
		if f > 0 {
			c.lineHeight = f
		}
	}
}

// WithExtentExpiry sets how long a measurement stays memoized and how often
// expired ones are purged. A non-positive cleanup disables the janitor.
func WithExtentExpiry(ttl, cleanup time.Duration) Option {
	return func(c *Canvas) {
		if ttl > 0 {
			c.extentTTL = ttl
		}
		c.extentCleanup = cleanup
	}
}

// WithTabWidth sets the number of cells a tab advances.
func WithTabWidth(n int) Option {
	return func(c *Canvas) {
		if n > 0 {
			c.tabWidth = n
		}
	}
}

// Canvas is a core.Canvas backed by an *image.RGBA.
type Canvas struct {
	img *image.RGBA

	aspect     float64
	lineHeight float64
	tabWidth   int

	extentTTL     time.Duration
	extentCleanup time.Duration

	// extents memoizes MeasureText; shared with layers.
	extents *gocache.Cache
}

// New creates a canvas of w by h pixels, cleared to transparent.
func New(w, h int, opts ...Option) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	c := &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		aspect:     DefaultGlyphAspect,
		lineHeight: DefaultLineHeightFactor,
		tabWidth:   DefaultTabWidth,

		extentTTL:     DefaultExtentExpiration,
		extentCleanup: DefaultExtentCleanup,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.extents = gocache.New(c.extentTTL, c.extentCleanup)
	return c, nil
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// At returns the color of a pixel. Out of range pixels are transparent.
func (c *Canvas) At(x, y int) core.Color {
	if !(image.Point{X: x, Y: y}).In(c.img.Bounds()) {
		return core.Color{}
	}
	p := c.img.RGBAAt(x, y)
	return core.Color{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Clear fills the whole canvas with col, replacing what was there.
func (c *Canvas) Clear(col core.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(rgba(col)), image.Point{}, draw.Src)
}

// columns returns the display width of text in cells.
func (c *Canvas) columns(text string) int {
	n := 0
	for _, r := range text {
		if r == '\t' {
			n += c.tabWidth - n%c.tabWidth
			continue
		}
		n += runewidth.RuneWidth(r)
	}
	return n
}

// MeasureText returns the extent of text at the given scale.
func (c *Canvas) MeasureText(text string, scale float64) (float64, float64) {
	key := strconv.FormatFloat(scale, 'g', -1, 64) + "\x00" + text
	if v, ok := c.extents.Get(key); ok {
		e := v.([2]float64)
		return e[0], e[1]
	}
	e := [2]float64{
		float64(c.columns(text)) * scale * c.aspect,
		scale * c.lineHeight,
	}
	c.extents.Set(key, e, gocache.DefaultExpiration)
	return e[0], e[1]
}

// CachedExtents returns the number of memoized measurements.
func (c *Canvas) CachedExtents() int {
	return c.extents.ItemCount()
}

// DrawText draws one bar per visible cell of text, starting at (x, y).
func (c *Canvas) DrawText(x, y float64, text string, scale float64, col core.Color) {
	cell := scale * c.aspect
	h := math.Max(1, scale*c.lineHeight-1)

	column := 0
	runStart := -1
	flush := func(end int) {
		if runStart < 0 {
			return
		}
		c.FillRect(core.Rect{
			X: x + float64(runStart)*cell,
			Y: y,
			W: float64(end-runStart) * cell,
			H: h,
		}, col)
		runStart = -1
	}

	for _, r := range text {
		var w int
		switch {
		case r == '\t':
			w = c.tabWidth - column%c.tabWidth
			flush(column)
		case r == ' ':
			w = 1
			flush(column)
		default:
			w = runewidth.RuneWidth(r)
			if w > 0 && runStart < 0 {
				runStart = column
			}
		}
		column += w
	}
	flush(column)
}

// FillRect blends col over the pixels covered by r.
func (c *Canvas) FillRect(r core.Rect, col core.Color) {
	if r.Empty() || col.A == 0 {
		return
	}
	rect := image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Bottom())),
	).Intersect(c.img.Bounds())
	if rect.Empty() {
		// Sub-pixel rectangles still cover the pixel they start in.
		px := image.Rect(int(math.Floor(r.X)), int(math.Floor(r.Y)), int(math.Floor(r.X))+1, int(math.Floor(r.Y))+1)
		rect = px.Intersect(c.img.Bounds())
		if rect.Empty() {
			return
		}
	}
	draw.Draw(c.img, rect, image.NewUniform(rgba(col)), image.Point{}, draw.Over)
}

// NewLayer returns a transparent canvas of the same size and settings.
func (c *Canvas) NewLayer() (core.Surface, error) {
	return c.newLayer(), nil
}

func (c *Canvas) newLayer() *Canvas {
	w, h := c.Size()
	return &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		aspect:     c.aspect,
		lineHeight: c.lineHeight,
		tabWidth:   c.tabWidth,
		extents:    c.extents,
	}
}

// Composite paints a layer created by NewLayer over the canvas. Layers of
// other types are ignored.
func (c *Canvas) Composite(layer core.Surface) {
	l, ok := layer.(*Canvas)
	if !ok {
		return
	}
	draw.Draw(c.img, c.img.Bounds(), l.img, image.Point{}, draw.Over)
}

// EncodePNG writes the canvas as a PNG image.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func rgba(c core.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
