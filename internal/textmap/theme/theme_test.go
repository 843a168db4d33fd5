package theme

import (
	"errors"
	"testing"

	"github.com/dshills/textmap/internal/textmap/core"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		fg, bg  string
		ok      bool
		want    Palette
		wantErr bool
	}{
		{"unavailable", "", "", false, Light(), false},
		{"valid", "#d0d0d0", "#202020", true, Palette{
			Foreground: core.ColorFromRGB(0xd0, 0xd0, 0xd0),
			Background: core.ColorFromRGB(0x20, 0x20, 0x20),
		}, false},
		{"malformed foreground", "nope", "#202020", true, Dark(), true},
		{"malformed background", "#ffffff", "#12", true, Dark(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.fg, tt.bg, tt.ok)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedColor) {
					t.Errorf("expected ErrMalformedColor, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestFromChroma(t *testing.T) {
	fg, bg, ok := FromChroma("monokai")
	if !ok {
		t.Fatal("expected monokai to resolve")
	}
	p, err := Resolve(fg, bg, ok)
	if err != nil {
		t.Fatalf("chroma colors should parse: %v", err)
	}
	if !p.Background.IsDark() {
		t.Errorf("expected dark monokai background, got %s", p.Background)
	}

	if _, _, ok := FromChroma("no-such-style"); ok {
		t.Error("expected unknown style to fail")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("expected registered styles")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted at %d", i)
		}
	}
}
