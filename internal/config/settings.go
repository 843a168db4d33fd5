package config

import (
	"fmt"
	"math"

	"github.com/dshills/textmap/internal/textmap"
	"github.com/dshills/textmap/internal/textmap/core"
	"github.com/dshills/textmap/internal/textmap/downsample"
	"github.com/dshills/textmap/internal/textmap/render"
	"github.com/dshills/textmap/internal/textmap/viewport"
)

// DefaultPanelWidth is the overview panel width in terminal cells.
const DefaultPanelWidth = 24

// Settings is the resolved configuration.
type Settings struct {
	Overview OverviewSettings
	Colors   ColorSettings
	Theme    ThemeSettings
	Logging  LoggingSettings
	Panel    PanelSettings
}

// OverviewSettings configures scale selection and layout.
type OverviewSettings struct {
	MinScale         int
	MaxScale         int
	LineHeightFactor float64
	Margin           float64
	ScrollPage       int
}

// ColorSettings holds highlight colors as hex strings.
type ColorSettings struct {
	Changed        string
	Search         string
	Indicator      string
	IndicatorAlpha int
}

// ThemeSettings selects the silhouette colors. Name is a chroma style;
// explicit Foreground and Background win over it.
type ThemeSettings struct {
	Name       string
	Foreground string
	Background string
}

// LoggingSettings configures the log output.
type LoggingSettings struct {
	Level string
	File  string
}

// PanelSettings configures the terminal overview panel.
type PanelSettings struct {
	Width int
}

// Defaults returns the built-in configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"overview": map[string]any{
			"minScale":         downsample.DefaultMinScale,
			"maxScale":         downsample.DefaultMaxScale,
			"lineHeightFactor": downsample.DefaultLineHeightFactor,
			"margin":           render.DefaultMargin,
			"scrollPage":       viewport.DefaultScrollPage,
		},
		"colors": map[string]any{
			"changed":        render.DefaultChangedColor.Hex(),
			"search":         render.DefaultSearchColor.Hex(),
			"indicator":      render.DefaultIndicatorColor.Hex(),
			"indicatorAlpha": int(render.DefaultIndicatorColor.A),
		},
		"theme": map[string]any{
			"name":       "",
			"foreground": "",
			"background": "",
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"panel": map[string]any{
			"width": DefaultPanelWidth,
		},
	}
}

// Options controls where Load looks.
type Options struct {
	// Path is the configuration file. Empty skips the file layer.
	Path string
	// FS reads the file. Defaults to the OS file system.
	FS FileSystem
	// Env supplies the environment layer. Defaults to TEXTMAP_ variables.
	Env *EnvLoader
}

// Load merges the defaults, the file and the environment into Settings.
// A missing file is not an error.
func Load(opts Options) (*Settings, error) {
	data := Defaults()

	if opts.Path != "" {
		fsys := opts.FS
		if fsys == nil {
			fsys = DefaultFS()
		}
		file, err := LoadFile(fsys, opts.Path)
		if err != nil {
			return nil, err
		}
		data = DeepMerge(data, file)
	}

	env := opts.Env
	if env == nil {
		env = NewEnvLoader(EnvPrefix)
	}
	data = DeepMerge(data, env.Load())

	return FromMap(data)
}

// FromMap reads Settings from a merged configuration map.
func FromMap(data map[string]any) (*Settings, error) {
	r := reader{data: data}
	s := &Settings{
		Overview: OverviewSettings{
			MinScale:         r.getIntOr("overview.minScale", downsample.DefaultMinScale),
			MaxScale:         r.getIntOr("overview.maxScale", downsample.DefaultMaxScale),
			LineHeightFactor: r.getFloatOr("overview.lineHeightFactor", downsample.DefaultLineHeightFactor),
			Margin:           r.getFloatOr("overview.margin", render.DefaultMargin),
			ScrollPage:       r.getIntOr("overview.scrollPage", viewport.DefaultScrollPage),
		},
		Colors: ColorSettings{
			Changed:        r.getStringOr("colors.changed", render.DefaultChangedColor.Hex()),
			Search:         r.getStringOr("colors.search", render.DefaultSearchColor.Hex()),
			Indicator:      r.getStringOr("colors.indicator", render.DefaultIndicatorColor.Hex()),
			IndicatorAlpha: r.getIntOr("colors.indicatorAlpha", int(render.DefaultIndicatorColor.A)),
		},
		Theme: ThemeSettings{
			Name:       r.getStringOr("theme.name", ""),
			Foreground: r.getStringOr("theme.foreground", ""),
			Background: r.getStringOr("theme.background", ""),
		},
		Logging: LoggingSettings{
			Level: r.getStringOr("logging.level", "info"),
			File:  r.getStringOr("logging.file", ""),
		},
		Panel: PanelSettings{
			Width: r.getIntOr("panel.width", DefaultPanelWidth),
		},
	}
	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}

// Engine returns the engine configuration described by the settings.
func (s *Settings) Engine() (textmap.Config, error) {
	cfg := textmap.DefaultConfig()
	cfg.Downsample = downsample.Config{
		MinScale:         s.Overview.MinScale,
		MaxScale:         s.Overview.MaxScale,
		LineHeightFactor: s.Overview.LineHeightFactor,
	}
	cfg.Margin = s.Overview.Margin
	cfg.ScrollPage = s.Overview.ScrollPage

	var err error
	if cfg.ChangedColor, err = parseColor("colors.changed", s.Colors.Changed); err != nil {
		return cfg, err
	}
	if cfg.SearchColor, err = parseColor("colors.search", s.Colors.Search); err != nil {
		return cfg, err
	}
	indicator, err := parseColor("colors.indicator", s.Colors.Indicator)
	if err != nil {
		return cfg, err
	}
	if s.Colors.IndicatorAlpha < 0 || s.Colors.IndicatorAlpha > math.MaxUint8 {
		return cfg, fmt.Errorf("%w: colors.indicatorAlpha %d outside 0-255", ErrInvalidSetting, s.Colors.IndicatorAlpha)
	}
	cfg.IndicatorColor = indicator.WithAlpha(uint8(s.Colors.IndicatorAlpha))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseColor(key, value string) (core.Color, error) {
	c, err := core.ParseHex(value)
	if err != nil {
		return core.Color{}, fmt.Errorf("%w: %s: %w", ErrInvalidSetting, key, err)
	}
	return c, nil
}

// reader pulls typed values out of a merged map. The first type error is
// kept and reported by FromMap.
type reader struct {
	data map[string]any
	err  error
}

func (r *reader) fail(path string, v any, want string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s must be %s, got %T", ErrInvalidSetting, path, want, v)
	}
}

func (r *reader) getIntOr(path string, def int) int {
	v, ok := GetByPath(r.data, path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		if n == math.Trunc(n) {
			return int(n)
		}
	}
	r.fail(path, v, "an integer")
	return def
}

func (r *reader) getFloatOr(path string, def float64) float64 {
	v, ok := GetByPath(r.data, path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	}
	r.fail(path, v, "a number")
	return def
}

func (r *reader) getStringOr(path string, def string) string {
	v, ok := GetByPath(r.data, path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		r.fail(path, v, "a string")
		return def
	}
	return s
}
