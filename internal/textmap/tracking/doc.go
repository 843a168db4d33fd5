// Package tracking detects which overview lines changed since a baseline.
//
// A baseline is captured once per document by placing a position anchor at
// the end of every original line. The host moves those anchors as the
// document is edited, so on every full redraw the tracker can slice the
// current text between consecutive anchors and compare the first line of
// each slice against the original line it was anchored to.
//
// # Usage
//
//	lines := tracking.Snapshot(doc.Lines())
//	base, err := tracking.Capture(doc, doc.Lines())
//	...
//	base.Mark(lines, doc)
//
// Lines that cannot be aligned with the baseline stay marked as changed.
// Anchor resolution failures never abort a render; they only widen the set
// of highlighted lines.
package tracking
