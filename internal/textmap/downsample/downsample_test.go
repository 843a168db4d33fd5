package downsample

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/textmap/internal/textmap/core"
)

func makeLines(n int) []core.Line {
	lines := make([]core.Line, n)
	for i := range lines {
		lines[i] = core.Line{Index: i, Raw: fmt.Sprintf("line %d: x := %d", i, i*7)}
	}
	return lines
}

func newDefault(t *testing.T) *Downsampler {
	t.Helper()
	d, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"default", DefaultConfig(), nil},
		{"equal scales", Config{MinScale: 2, MaxScale: 2, LineHeightFactor: 1}, nil},
		{"min above max", Config{MinScale: 4, MaxScale: 3, LineHeightFactor: 0.85}, ErrInvalidScale},
		{"zero scale", Config{MinScale: 0, MaxScale: 3, LineHeightFactor: 0.85}, ErrInvalidScale},
		{"negative max", Config{MinScale: 1, MaxScale: -1, LineHeightFactor: 0.85}, ErrInvalidScale},
		{"zero factor", Config{MinScale: 2, MaxScale: 3}, ErrInvalidFactor},
		{"nan factor", Config{MinScale: 2, MaxScale: 3, LineHeightFactor: math.NaN()}, ErrInvalidFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.cfg)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if d == nil {
					t.Fatal("New returned nil")
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSelectEmpty(t *testing.T) {
	d := newDefault(t)
	r := d.Select(nil, 300)
	if len(r.Lines) != 0 || r.Elided {
		t.Errorf("expected empty, non-elided result, got %d lines elided=%v", len(r.Lines), r.Elided)
	}
}

func TestSelectFitsAtMaxScale(t *testing.T) {
	d := newDefault(t)
	lines := makeLines(50)

	r := d.Select(lines, 300)
	if r.Scale != 3 {
		t.Errorf("expected scale 3, got %d", r.Scale)
	}
	if r.Elided {
		t.Error("expected no elision")
	}
	if len(r.Lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(r.Lines))
	}
	for i, l := range r.Lines {
		if l.Index != i {
			t.Errorf("expected index %d at position %d, got %d", i, i, l.Index)
		}
	}
}

func TestSelectScaleAndDropCount(t *testing.T) {
	// At 100px: capacity 39.2 lines at scale 3, 58.8 at scale 2.
	tests := []struct {
		n         int
		wantScale int
		wantLen   int
		elided    bool
	}{
		{39, 3, 39, false},
		{70, 3, 39, true},
		{100, 2, 58, true},
		{1000, 2, 58, true},
	}

	d := newDefault(t)
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			r := d.Select(makeLines(tt.n), 100)
			if r.Scale != tt.wantScale {
				t.Errorf("expected scale %d, got %d", tt.wantScale, r.Scale)
			}
			if len(r.Lines) != tt.wantLen {
				t.Errorf("expected %d lines, got %d", tt.wantLen, len(r.Lines))
			}
			if r.Elided != tt.elided {
				t.Errorf("expected elided=%v, got %v", tt.elided, r.Elided)
			}
		})
	}
}

func TestSelectKeepsFlaggedLines(t *testing.T) {
	d := newDefault(t)
	lines := makeLines(500)
	flagged := map[int]bool{17: true, 250: true, 499: true}
	for i := range flagged {
		lines[i].Changed = true
	}
	lines[100].SearchMatch = true
	flagged[100] = true

	r := d.Select(lines, 100)
	if !r.Elided {
		t.Fatal("expected elision")
	}
	seen := make(map[int]bool)
	for _, l := range r.Lines {
		seen[l.Index] = true
	}
	if !seen[0] {
		t.Error("line 0 was dropped")
	}
	for i := range flagged {
		if !seen[i] {
			t.Errorf("flagged line %d was dropped", i)
		}
	}
}

func TestSelectDoesNotReorderInput(t *testing.T) {
	d := newDefault(t)
	lines := makeLines(300)
	d.Select(lines, 50)
	for i, l := range lines {
		if l.Index != i {
			t.Fatalf("input reordered at %d: got index %d", i, l.Index)
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	d := newDefault(t)
	a := d.Select(makeLines(400), 120)
	b := d.Select(makeLines(400), 120)
	if len(a.Lines) != len(b.Lines) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Lines), len(b.Lines))
	}
	for i := range a.Lines {
		if a.Lines[i].Index != b.Lines[i].Index {
			t.Fatalf("selection differs at %d: %d vs %d", i, a.Lines[i].Index, b.Lines[i].Index)
		}
	}
}

func TestSelectTinyHeightKeepsFirstLine(t *testing.T) {
	d := newDefault(t)
	r := d.Select(makeLines(10), 0.5)
	if len(r.Lines) != 1 || r.Lines[0].Index != 0 {
		t.Errorf("expected only line 0, got %v", r.Lines)
	}
}

func TestHashStable(t *testing.T) {
	if Hash("func main() {") != Hash("func main() {") {
		t.Error("hash is not deterministic")
	}
	if Hash("a") == Hash("b") {
		t.Error("expected distinct hashes")
	}
	// FNV-1a offset basis.
	if Hash("") != 14695981039346656037 {
		t.Errorf("expected FNV-1a offset basis, got %d", Hash(""))
	}
}

func TestSelectFitProperty(t *testing.T) {
	d := newDefault(t)
	rapid.Check(t, func(rt *rapid.T) {
		height := rapid.Float64Range(10, 2000).Draw(rt, "height")
		capacity := d.MaxLines(height, d.Config().MaxScale)
		n := rapid.IntRange(0, int(capacity)).Draw(rt, "n")

		r := d.Select(makeLines(n), height)
		if r.Elided {
			rt.Fatalf("n=%d capacity=%.2f: unexpected elision", n, capacity)
		}
		if len(r.Lines) != n {
			rt.Fatalf("expected %d lines, got %d", n, len(r.Lines))
		}
		if n > 0 && r.Scale != d.Config().MaxScale {
			rt.Fatalf("expected max scale, got %d", r.Scale)
		}
	})
}

func TestSelectElisionProperty(t *testing.T) {
	d := newDefault(t)
	rapid.Check(t, func(rt *rapid.T) {
		height := rapid.Float64Range(20, 400).Draw(rt, "height")
		capacity := d.MaxLines(height, d.Config().MinScale)
		n := rapid.IntRange(int(2*capacity)+1, int(2*capacity)+2000).Draw(rt, "n")

		lines := makeLines(n)
		budget := int(capacity)
		flagCount := rapid.IntRange(0, budget-1).Draw(rt, "flagCount")
		flagged := make(map[int]bool)
		for len(flagged) < flagCount {
			i := rapid.IntRange(1, n-1).Draw(rt, "flag")
			flagged[i] = true
			if rapid.Bool().Draw(rt, "search") {
				lines[i].SearchMatch = true
			} else {
				lines[i].Changed = true
			}
		}

		r := d.Select(lines, height)
		if !r.Elided {
			rt.Fatal("expected elision")
		}
		if r.Scale != d.Config().MinScale {
			rt.Fatalf("expected min scale, got %d", r.Scale)
		}
		if got := float64(len(r.Lines)); got < math.Floor(capacity)-1 || got > math.Ceil(capacity)+1 {
			rt.Fatalf("expected about %.2f lines, got %d", capacity, len(r.Lines))
		}
		if r.Lines[0].Index != 0 {
			rt.Fatalf("line 0 missing, first is %d", r.Lines[0].Index)
		}

		seen := make(map[int]bool)
		prev := -1
		for _, l := range r.Lines {
			if l.Index <= prev {
				rt.Fatalf("order not preserved: %d after %d", l.Index, prev)
			}
			prev = l.Index
			seen[l.Index] = true
		}
		for i := range flagged {
			if !seen[i] {
				rt.Fatalf("flagged line %d dropped", i)
			}
		}
	})
}
