// Package theme resolves document theme colors for the overview.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/textmap/internal/textmap/core"
)

// ErrMalformedColor is returned when a theme color cannot be parsed.
var ErrMalformedColor = errors.New("malformed theme color")

// Palette is a foreground/background pair.
type Palette struct {
	Foreground core.Color
	Background core.Color
}

// Light returns black text on white.
func Light() Palette {
	return Palette{Foreground: core.ColorBlack, Background: core.ColorWhite}
}

// Dark returns white text on black.
func Dark() Palette {
	return Palette{Foreground: core.ColorWhite, Background: core.ColorBlack}
}

// Resolve builds a palette from document theme colors. When the document
// has no theme (ok is false) the light pair is used. When either color is
// malformed the dark pair is returned together with an error describing
// the bad value; callers are expected to log it and carry on.
func Resolve(fg, bg string, ok bool) (Palette, error) {
	if !ok {
		return Light(), nil
	}
	f, err := core.ParseHex(fg)
	if err != nil {
		return Dark(), fmt.Errorf("%w: foreground: %w", ErrMalformedColor, err)
	}
	b, err := core.ParseHex(bg)
	if err != nil {
		return Dark(), fmt.Errorf("%w: background: %w", ErrMalformedColor, err)
	}
	return Palette{Foreground: f, Background: b}, nil
}

// FromChroma returns the base text colors of a chroma style as hex
// strings. The last result is false when the style is unknown or does not
// set both colors.
func FromChroma(name string) (fg, bg string, ok bool) {
	style, found := styles.Registry[strings.ToLower(name)]
	if !found || style == nil {
		return "", "", false
	}
	entry := style.Get(chroma.Background)
	if !entry.Colour.IsSet() || !entry.Background.IsSet() {
		return "", "", false
	}
	return entry.Colour.String(), entry.Background.String(), true
}

// Names returns the registered chroma style names, sorted.
func Names() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
