package textmap

import (
	"github.com/dshills/textmap/internal/textmap/core"
	"github.com/dshills/textmap/internal/textmap/tracking"
)

// Host is the application embedding the overview panel.
type Host interface {
	// ActiveDocument returns the document shown in the primary view, or
	// nil when nothing is open.
	ActiveDocument() Document

	// VisibleLineRange returns the first and last document lines visible
	// in the primary view.
	VisibleLineRange() (top, bottom int)

	// ScrollTo moves the primary view to line, centering it if requested.
	ScrollTo(line int, centered bool)

	// RequestRepaint schedules a redraw of the panel. Multiple requests
	// before the redraw runs should coalesce into one.
	RequestRepaint()
}

// CapabilityReporter is implemented by hosts that know their own quirks.
// It is queried once by New.
type CapabilityReporter interface {
	Capabilities() core.Capabilities
}

// Document is an open text document.
type Document interface {
	tracking.Anchors

	// ID identifies the document for the lifetime of the host.
	ID() core.DocumentID

	// Lines returns the current content, one entry per line, without line
	// terminators.
	Lines() []string

	// SearchText returns the active search string, if any.
	SearchText() (string, bool)
}

// Themed is implemented by documents with theme colors. Colors are
// "#RRGGBB" strings; ok is false when the document has no theme.
type Themed interface {
	ThemeColors() (fg, bg string, ok bool)
}

// AnchorReleaser is implemented by documents that want anchors returned
// when a baseline is discarded.
type AnchorReleaser interface {
	ReleaseAnchors(anchors []core.Anchor)
}
