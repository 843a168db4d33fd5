package textmap

import (
	"github.com/dshills/textmap/internal/textmap/core"
	"github.com/dshills/textmap/internal/textmap/tracking"
)

// DocumentRecord is the per-document state the engine keeps between
// redraws.
type DocumentRecord struct {
	// ID is the document the record belongs to.
	ID core.DocumentID

	// Baseline is the captured original snapshot, nil until captured or
	// when capture failed.
	Baseline *tracking.Baseline

	// SearchText is the last observed search string.
	SearchText string

	// CaptureErr is the error from the last capture attempt.
	CaptureErr error

	// needsCapture is set on creation and by RecaptureOriginal.
	needsCapture bool

	// stale holds anchors of a discarded baseline awaiting release.
	stale []core.Anchor
}

func newRecord(id core.DocumentID) *DocumentRecord {
	return &DocumentRecord{ID: id, needsCapture: true}
}

// capture replaces the baseline with the document's current content,
// releasing the anchors of the previous baseline.
func (r *DocumentRecord) capture(doc Document, raw []string) {
	r.release(doc)

	b, err := tracking.Capture(doc, raw)
	r.Baseline = b
	r.CaptureErr = err
	r.needsCapture = false
}

// discard drops the baseline and schedules a new capture.
func (r *DocumentRecord) discard() {
	r.stale = append(r.stale, r.Baseline.Anchors()...)
	r.Baseline = nil
	r.needsCapture = true
}

func (r *DocumentRecord) release(doc Document) {
	r.stale = append(r.stale, r.Baseline.Anchors()...)
	if rel, ok := doc.(AnchorReleaser); ok && len(r.stale) > 0 {
		rel.ReleaseAnchors(r.stale)
	}
	r.stale = nil
}
