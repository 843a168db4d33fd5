package textmap

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/textmap/internal/textmap/core"
	"github.com/dshills/textmap/internal/textmap/downsample"
	"github.com/dshills/textmap/internal/textmap/render"
	"github.com/dshills/textmap/internal/textmap/viewport"
)

// Config holds the engine settings fixed at construction.
type Config struct {
	// Downsample configures scale selection and elision.
	Downsample downsample.Config

	// Margin is the left margin of the silhouette in pixels.
	Margin float64

	// ScrollPage is the number of lines a wheel step over the overview
	// scrolls the primary view.
	ScrollPage int

	// ChangedColor highlights lines edited since the baseline.
	ChangedColor core.Color

	// SearchColor highlights lines containing the search text.
	SearchColor core.Color

	// IndicatorColor fills the viewport indicator. Its alpha controls the
	// translucency.
	IndicatorColor core.Color
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Downsample:     downsample.DefaultConfig(),
		Margin:         render.DefaultMargin,
		ScrollPage:     viewport.DefaultScrollPage,
		ChangedColor:   render.DefaultChangedColor,
		SearchColor:    render.DefaultSearchColor,
		IndicatorColor: render.DefaultIndicatorColor,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Downsample.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Margin < 0 {
		return fmt.Errorf("%w: negative margin %v", ErrInvalidConfig, c.Margin)
	}
	if c.ScrollPage <= 0 {
		return fmt.Errorf("%w: scroll page must be positive, got %d", ErrInvalidConfig, c.ScrollPage)
	}
	return nil
}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithCapabilities overrides the capabilities otherwise reported by the
// host.
func WithCapabilities(c core.Capabilities) Option {
	return func(e *Engine) {
		e.caps = c
		e.capsSet = true
	}
}
