package cache

import (
	"testing"

	"github.com/dshills/textmap/internal/textmap/core"
)

type stubSurface struct{}

func (stubSurface) Size() (int, int) {
	return 10, 10
}

func (stubSurface) MeasureText(string, float64) (float64, float64) {
	return 0, 0
}

func (stubSurface) DrawText(float64, float64, string, float64, core.Color) {}

func (stubSurface) FillRect(core.Rect, core.Color) {}

var testKey = Key{Document: "doc", Width: 120, Height: 300}

func stored() *Cache {
	c := New()
	c.Store(stubSurface{}, []core.Line{{Index: 0}}, testKey)
	return c
}

func TestNewIsEmpty(t *testing.T) {
	c := New()
	if c.State() != StateEmpty {
		t.Errorf("expected empty, got %s", c.State())
	}
	if c.Reusable(testKey) {
		t.Error("empty cache should not be reusable")
	}
	c.ViewportMoved()
	if c.State() != StateEmpty {
		t.Errorf("viewport move should keep empty, got %s", c.State())
	}
}

func TestStoreThenViewportMoved(t *testing.T) {
	c := stored()
	if c.State() != StateValidFull {
		t.Fatalf("expected valid-full, got %s", c.State())
	}
	if c.Reusable(testKey) {
		t.Error("valid-full must not skip the full pass")
	}

	c.ViewportMoved()
	if c.State() != StateValidOverlayOnly {
		t.Fatalf("expected valid-overlay-only, got %s", c.State())
	}
	if !c.Reusable(testKey) {
		t.Fatal("expected reusable after viewport move")
	}
	c.Consume()
	if c.State() != StateValidFull {
		t.Errorf("expected valid-full after consume, got %s", c.State())
	}
	if c.Layer() == nil || len(c.Lines()) != 1 {
		t.Error("consume should keep the layer")
	}
}

func TestInvalidate(t *testing.T) {
	reasons := []Reason{ReasonContent, ReasonSearch, ReasonScale, ReasonResize, ReasonRecapture, ReasonDocument, ReasonDetach}
	for _, r := range reasons {
		t.Run(r.String(), func(t *testing.T) {
			c := stored()
			c.ViewportMoved()
			c.Invalidate(r)
			if c.State() != StateEmpty {
				t.Errorf("expected empty, got %s", c.State())
			}
			if c.Layer() != nil || c.Lines() != nil {
				t.Error("expected layer and lines dropped")
			}
			if c.Stats().LastReason != r {
				t.Errorf("expected reason %s, got %s", r, c.Stats().LastReason)
			}
		})
	}
}

func TestReusableKeyMismatch(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		reason Reason
	}{
		{"resized", Key{Document: "doc", Width: 120, Height: 200}, ReasonResize},
		{"other document", Key{Document: "other", Width: 120, Height: 300}, ReasonDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := stored()
			c.ViewportMoved()
			if c.Reusable(tt.key) {
				t.Fatal("mismatched key must not be reusable")
			}
			if c.State() != StateEmpty {
				t.Errorf("expected empty after mismatch, got %s", c.State())
			}
			if c.Stats().LastReason != tt.reason {
				t.Errorf("expected reason %s, got %s", tt.reason, c.Stats().LastReason)
			}
		})
	}
}

func TestStats(t *testing.T) {
	c := stored()
	c.Reusable(testKey)
	c.ViewportMoved()
	c.Reusable(testKey)
	c.Consume()
	c.Invalidate(ReasonContent)

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Invalidations != 1 {
		t.Errorf("expected 1/1/1, got hits=%d misses=%d invalidations=%d", s.Hits, s.Misses, s.Invalidations)
	}
}
