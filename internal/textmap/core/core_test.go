package core

import "testing"

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Color
		wantErr bool
	}{
		{"full form", "#FF8000", Color{R: 255, G: 128, B: 0, A: 255}, false},
		{"lowercase", "#ff8000", Color{R: 255, G: 128, B: 0, A: 255}, false},
		{"short form", "#F00", Color{R: 255, G: 0, B: 0, A: 255}, false},
		{"no hash", "00FF00", Color{R: 0, G: 255, B: 0, A: 255}, false},
		{"garbage", "#GGGGGG", Color{}, true},
		{"empty", "", Color{}, true},
		{"wrong length", "#12345", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestColorIsDark(t *testing.T) {
	if !ColorBlack.IsDark() {
		t.Error("black should be dark")
	}
	if ColorWhite.IsDark() {
		t.Error("white should not be dark")
	}
	if !ColorFromRGB(40, 44, 52).IsDark() {
		t.Error("#282C34 should be dark")
	}
}

func TestColorLightenDarken(t *testing.T) {
	c := ColorFromRGB(100, 100, 100)

	light := c.Lighten(0.25)
	if light.R != 139 {
		t.Errorf("expected lightened R 139, got %d", light.R)
	}

	dark := c.Darken(0.5)
	if dark.R != 50 {
		t.Errorf("expected darkened R 50, got %d", dark.R)
	}
	if dark.A != 255 {
		t.Errorf("expected alpha preserved, got %d", dark.A)
	}
}

func TestColorOver(t *testing.T) {
	dst := ColorWhite
	if got := ColorBlack.Over(dst); got != ColorBlack {
		t.Errorf("opaque source should replace destination, got %v", got)
	}
	if got := ColorBlack.WithAlpha(0).Over(dst); got != dst {
		t.Errorf("transparent source should keep destination, got %v", got)
	}

	half := ColorBlack.WithAlpha(128).Over(dst)
	if half.R < 120 || half.R > 135 {
		t.Errorf("expected roughly mid gray, got %v", half)
	}
	if half.A != 255 {
		t.Errorf("composite should be opaque, got alpha %d", half.A)
	}
}

func TestLineBlank(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", true},
		{"   \t", true},
		{"  x", false},
		{"func main() {", false},
	}
	for _, tt := range tests {
		if got := (Line{Raw: tt.raw}).Blank(); got != tt.want {
			t.Errorf("Blank(%q): expected %v, got %v", tt.raw, tt.want, got)
		}
	}
}

func TestScrollDirectionString(t *testing.T) {
	if ScrollUp.String() != "up" || ScrollDown.String() != "down" {
		t.Error("unexpected direction names")
	}
	if ScrollDirection(42).String() != "unknown" {
		t.Error("out of range direction should be unknown")
	}
}
