package config

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/dshills/textmap/internal/textmap"
	"github.com/dshills/textmap/internal/textmap/core"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func fixedEnv(vars ...string) *EnvLoader {
	l := NewEnvLoader(EnvPrefix)
	l.environ = func() []string { return vars }
	return l
}

func TestLoadFileTOML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/textmap.toml", `
[overview]
minScale = 1
lineHeightFactor = 0.9

[theme]
name = "monokai"
`)

	config, err := LoadFile(memfs, "/textmap.toml")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if v, _ := GetByPath(config, "overview.minScale"); v != int64(1) {
		t.Errorf("minScale = %v (%T), want 1", v, v)
	}
	if v, _ := GetByPath(config, "overview.lineHeightFactor"); v != 0.9 {
		t.Errorf("lineHeightFactor = %v, want 0.9", v)
	}
	if v, _ := GetByPath(config, "theme.name"); v != "monokai" {
		t.Errorf("theme.name = %v, want 'monokai'", v)
	}
}

func TestLoadFileYAML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/textmap.yaml", `
overview:
  maxScale: 4
colors:
  search: "#00ff00"
`)

	config, err := LoadFile(memfs, "/textmap.yaml")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if v, _ := GetByPath(config, "overview.maxScale"); v != 4 {
		t.Errorf("maxScale = %v (%T), want 4", v, v)
	}
	if v, _ := GetByPath(config, "colors.search"); v != "#00ff00" {
		t.Errorf("colors.search = %v, want '#00ff00'", v)
	}
}

func TestLoadFileNonExistent(t *testing.T) {
	config, err := LoadFile(NewMemFS(), "/missing.toml")
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for non-existent file")
	}
}

func TestLoadFileInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", "[overview\nminScale = 2\n")
	memfs.AddFile("/invalid.yaml", "overview: [unclosed\n")

	for _, path := range []string{"/invalid.toml", "/invalid.yaml"} {
		t.Run(path, func(t *testing.T) {
			_, err := LoadFile(memfs, path)
			if err == nil {
				t.Fatal("expected error for invalid file")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Path != path {
				t.Errorf("expected path %q, got %q", path, pe.Path)
			}
			if pe.Unwrap() == nil {
				t.Error("expected underlying error")
			}
		})
	}
}

func TestLoadFileTOMLPosition(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[overview]\nminScale = = 2\n")

	_, err := LoadFile(memfs, "/bad.toml")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("expected line 2, got %d", pe.Line)
	}
}

func TestLoadFileUnsupported(t *testing.T) {
	_, err := LoadFile(NewMemFS(), "/textmap.ini")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
		{ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "parse error in a.toml at line 3: bad"},
		{ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "bad"}, "parse error in a.toml at line 3, column 7: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestEnvLoaderLoad(t *testing.T) {
	l := fixedEnv(
		"TEXTMAP_LOG_LEVEL=debug",
		"TEXTMAP_THEME=dracula",
		"TEXTMAP_OVERVIEW_MIN_SCALE=1",
		"TEXTMAP_OVERVIEW_LINE_HEIGHT_FACTOR=0.75",
		"TEXTMAP_COLORS_CHANGED=#ff0000",
		"HOME=/root",
	)
	config := l.Load()

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"theme.name", "dracula"},
		{"overview.minScale", int64(1)},
		{"overview.lineHeightFactor", 0.75},
		{"colors.changed", "#ff0000"},
	}
	for _, tt := range tests {
		if got, ok := GetByPath(config, tt.path); !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
	if _, ok := config["home"]; ok {
		t.Error("unprefixed variables should be ignored")
	}
}

func TestEnvLoaderAddMapping(t *testing.T) {
	l := fixedEnv("TEXTMAP_WIDTH=30")
	l.AddMapping("TEXTMAP_WIDTH", "panel.width")

	if v, _ := GetByPath(l.Load(), "panel.width"); v != int64(30) {
		t.Errorf("panel.width = %v, want 30", v)
	}
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)

	tests := []struct {
		env      string
		expected string
	}{
		{"TEXTMAP_OVERVIEW_MIN_SCALE", "overview.minScale"},
		{"TEXTMAP_PANEL_WIDTH", "panel.width"},
		{"TEXTMAP_SIMPLE", "simple"},
		{"TEXTMAP_", ""},
	}

	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.expected {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.expected)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"off", false},
		{"42", int64(42)},
		{"0.5", 0.5},
		{"#00ff00", "#00ff00"},
		{"monokai", "monokai"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"overview": map[string]any{"minScale": 2, "maxScale": 3},
		"logging":  map[string]any{"level": "info"},
	}
	src := map[string]any{
		"overview": map[string]any{"maxScale": 5},
		"logging":  "flat",
	}

	got := DeepMerge(dst, src)

	if v, _ := GetByPath(got, "overview.minScale"); v != 2 {
		t.Errorf("minScale = %v, want 2", v)
	}
	if v, _ := GetByPath(got, "overview.maxScale"); v != 5 {
		t.Errorf("maxScale = %v, want 5", v)
	}
	if got["logging"] != "flat" {
		t.Errorf("logging = %v, want 'flat'", got["logging"])
	}
	if DeepMerge(nil, nil) == nil {
		t.Error("expected empty map for nil inputs")
	}
}

func TestSetByPath(t *testing.T) {
	data := map[string]any{"a": "scalar"}
	SetByPath(data, "a.b.c", 1)

	if v, ok := GetByPath(data, "a.b.c"); !ok || v != 1 {
		t.Errorf("a.b.c = %v, want 1", v)
	}
	if _, ok := GetByPath(data, "a.x"); ok {
		t.Error("expected missing path")
	}
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(Options{Env: fixedEnv()})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Overview.MinScale != 2 || s.Overview.MaxScale != 3 {
		t.Errorf("expected scales 2..3, got %d..%d", s.Overview.MinScale, s.Overview.MaxScale)
	}
	if s.Overview.ScrollPage != 12 {
		t.Errorf("expected scroll page 12, got %d", s.Overview.ScrollPage)
	}
	if s.Logging.Level != "info" {
		t.Errorf("expected level info, got %q", s.Logging.Level)
	}
	if s.Panel.Width != DefaultPanelWidth {
		t.Errorf("expected panel width %d, got %d", DefaultPanelWidth, s.Panel.Width)
	}

	cfg, err := s.Engine()
	if err != nil {
		t.Fatalf("Engine failed: %v", err)
	}
	if cfg != textmap.DefaultConfig() {
		t.Errorf("expected default engine config, got %+v", cfg)
	}
}

func TestLoadLayers(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/textmap.toml", `
[overview]
maxScale = 4
scrollPage = 20

[colors]
changed = "#ff0000"
indicatorAlpha = 128

[logging]
level = "warn"
`)

	s, err := Load(Options{
		Path: "/textmap.toml",
		FS:   memfs,
		Env:  fixedEnv("TEXTMAP_LOG_LEVEL=debug"),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Overview.MaxScale != 4 {
		t.Errorf("expected max scale 4 from file, got %d", s.Overview.MaxScale)
	}
	if s.Logging.Level != "debug" {
		t.Errorf("expected environment to override file, got %q", s.Logging.Level)
	}

	cfg, err := s.Engine()
	if err != nil {
		t.Fatalf("Engine failed: %v", err)
	}
	if cfg.ScrollPage != 20 {
		t.Errorf("expected scroll page 20, got %d", cfg.ScrollPage)
	}
	if cfg.ChangedColor != core.ColorFromRGB(255, 0, 0) {
		t.Errorf("expected red changed color, got %v", cfg.ChangedColor)
	}
	if cfg.IndicatorColor.A != 128 {
		t.Errorf("expected indicator alpha 128, got %d", cfg.IndicatorColor.A)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(Options{Path: "/nope.toml", FS: NewMemFS(), Env: fixedEnv()})
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if s.Overview.MaxScale != 3 {
		t.Errorf("expected default max scale, got %d", s.Overview.MaxScale)
	}
}

func TestFromMapTypeError(t *testing.T) {
	data := Defaults()
	SetByPath(data, "overview.minScale", "two")

	_, err := FromMap(data)
	if !errors.Is(err, ErrInvalidSetting) {
		t.Errorf("expected ErrInvalidSetting, got %v", err)
	}
}

func TestEngineInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"bad color", func(s *Settings) { s.Colors.Search = "green" }, ErrInvalidSetting},
		{"bad alpha", func(s *Settings) { s.Colors.IndicatorAlpha = 300 }, ErrInvalidSetting},
		{"scale order", func(s *Settings) { s.Overview.MinScale = 5 }, textmap.ErrInvalidConfig},
		{"scroll page", func(s *Settings) { s.Overview.ScrollPage = 0 }, textmap.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromMap(Defaults())
			if err != nil {
				t.Fatalf("FromMap failed: %v", err)
			}
			tt.mutate(s)
			if _, err := s.Engine(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
