// Package cache holds the offscreen overview layer between redraws.
//
// The cache is a small state machine. A full paint stores a layer and
// moves to StateValidFull. A pure viewport move downgrades it to
// StateValidOverlayOnly, meaning the next redraw may composite the stored
// layer and repaint only the indicator. Anything that changes what the
// layer shows invalidates it back to StateEmpty.
//
// The cache is not safe for concurrent use; it is owned by one engine.
package cache

import (
	"github.com/dshills/textmap/internal/textmap/core"
)

// State is the validity state of the cache.
type State uint8

const (
	// StateEmpty means no usable layer is stored.
	StateEmpty State = iota

	// StateValidFull means the stored layer matches the last full pass and
	// no redraw has been requested since.
	StateValidFull

	// StateValidOverlayOnly means only the viewport moved since the layer
	// was stored.
	StateValidOverlayOnly
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateValidFull:
		return "valid-full"
	case StateValidOverlayOnly:
		return "valid-overlay-only"
	default:
		return "unknown"
	}
}

// Reason records why the cache was invalidated.
type Reason uint8

const (
	// ReasonContent indicates the document text changed.
	ReasonContent Reason = iota

	// ReasonSearch indicates the active search text changed.
	ReasonSearch

	// ReasonScale indicates the font scale changed.
	ReasonScale

	// ReasonResize indicates the panel dimensions changed.
	ReasonResize

	// ReasonRecapture indicates the baseline was recaptured.
	ReasonRecapture

	// ReasonDocument indicates the active document switched.
	ReasonDocument

	// ReasonDetach indicates the document was detached.
	ReasonDetach
)

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonContent:
		return "content"
	case ReasonSearch:
		return "search"
	case ReasonScale:
		return "scale"
	case ReasonResize:
		return "resize"
	case ReasonRecapture:
		return "recapture"
	case ReasonDocument:
		return "document"
	case ReasonDetach:
		return "detach"
	default:
		return "unknown"
	}
}

// Key identifies what a stored layer was painted for.
type Key struct {
	Document core.DocumentID
	Width    int
	Height   int
}

// Stats holds cache counters.
type Stats struct {
	Hits          uint64
	Misses        uint64
	Invalidations uint64
	LastReason    Reason
}

// Cache stores the last painted overview layer.
type Cache struct {
	state State
	key   Key
	layer core.Surface
	lines []core.Line
	stats Stats
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{}
}

// State returns the current state.
func (c *Cache) State() State {
	return c.state
}

// Key returns the key of the stored layer.
func (c *Cache) Key() Key {
	return c.key
}

// Layer returns the stored layer, or nil when empty.
func (c *Cache) Layer() core.Surface {
	return c.layer
}

// Lines returns the painted lines the stored layer was built from.
func (c *Cache) Lines() []core.Line {
	return c.lines
}

// Stats returns a copy of the counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Store records the result of a full pass.
func (c *Cache) Store(layer core.Surface, lines []core.Line, key Key) {
	c.layer = layer
	c.lines = lines
	c.key = key
	c.state = StateValidFull
}

// ViewportMoved marks that only the indicator needs repainting. It has no
// effect on an empty cache.
func (c *Cache) ViewportMoved() {
	if c.state == StateValidFull {
		c.state = StateValidOverlayOnly
	}
}

// Invalidate drops the stored layer.
func (c *Cache) Invalidate(reason Reason) {
	c.stats.Invalidations++
	c.stats.LastReason = reason
	c.layer = nil
	c.lines = nil
	c.key = Key{}
	c.state = StateEmpty
}

// Reusable reports whether the stored layer may be composited for key
// without a full pass. A stored layer painted for a different key is
// invalidated.
func (c *Cache) Reusable(key Key) bool {
	if c.state != StateEmpty && c.key != key {
		reason := ReasonResize
		if c.key.Document != key.Document {
			reason = ReasonDocument
		}
		c.Invalidate(reason)
	}
	if c.state == StateValidOverlayOnly {
		c.stats.Hits++
		return true
	}
	c.stats.Misses++
	return false
}

// Consume marks an overlay-only composite as done. The layer stays current
// until the next viewport move or invalidation.
func (c *Cache) Consume() {
	if c.state == StateValidOverlayOnly {
		c.state = StateValidFull
	}
}
