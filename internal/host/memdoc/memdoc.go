// Package memdoc provides an in-memory document with position anchors.
//
// Anchors are byte offsets that follow the text across edits. Text inserted
// exactly at an anchor lands before it. Replacing the whole text with
// SetText translates anchors through a line diff of the old and new
// content, so anchors on untouched lines keep their place.
package memdoc

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/textmap/internal/textmap/core"
	"github.com/dshills/textmap/internal/textmap/tracking"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithID sets the document identity. The default is a random UUID.
func WithID(id core.DocumentID) Option {
	return func(d *Document) {
		if id != "" {
			d.id = id
		}
	}
}

// WithSearch sets the initial search text.
func WithSearch(text string) Option {
	return func(d *Document) {
		d.SetSearchText(text)
	}
}

// WithTheme sets the document theme colors.
func WithTheme(fg, bg string) Option {
	return func(d *Document) {
		d.SetTheme(fg, bg)
	}
}

// Document is an anchored in-memory text buffer.
//
// Document is not safe for concurrent use.
type Document struct {
	id      core.DocumentID
	text    string
	anchors map[core.Anchor]int
	next    core.Anchor

	search    string
	hasSearch bool

	fg, bg string
	themed bool

	dmp *diffmatchpatch.DiffMatchPatch
}

// New creates a document holding text.
func New(text string, opts ...Option) *Document {
	d := &Document{
		id:      core.DocumentID(uuid.NewString()),
		text:    text,
		anchors: make(map[core.Anchor]int),
		dmp:     diffmatchpatch.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the document identity.
func (d *Document) ID() core.DocumentID {
	return d.id
}

// Text returns the full content.
func (d *Document) Text() string {
	return d.text
}

// Lines returns the content split into lines without terminators.
func (d *Document) Lines() []string {
	return strings.Split(d.text, "\n")
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	return strings.Count(d.text, "\n") + 1
}

// LineStart returns the byte offset of the start of line. Lines past the
// end map to the end of the text.
func (d *Document) LineStart(line int) int {
	off := 0
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(d.text[off:], '\n')
		if nl < 0 {
			return len(d.text)
		}
		off += nl + 1
	}
	return off
}

// CreateAnchor places an anchor at the start of line. A line equal to the
// line count places it at the end of the text.
func (d *Document) CreateAnchor(line int) (core.Anchor, error) {
	count := d.LineCount()
	if line < 0 || line > count {
		return 0, tracking.ErrLineOutOfRange
	}
	off := len(d.text)
	if line < count {
		off = d.LineStart(line)
	}
	d.next++
	d.anchors[d.next] = off
	return d.next, nil
}

// ResolveAnchor returns the current offset of an anchor.
func (d *Document) ResolveAnchor(a core.Anchor) (int, bool) {
	off, ok := d.anchors[a]
	return off, ok
}

// ReleaseAnchors invalidates anchors.
func (d *Document) ReleaseAnchors(anchors []core.Anchor) {
	for _, a := range anchors {
		delete(d.anchors, a)
	}
}

// AnchorCount returns the number of live anchors.
func (d *Document) AnchorCount() int {
	return len(d.anchors)
}

// Anchors returns the live anchors in ascending handle order.
func (d *Document) Anchors() []core.Anchor {
	out := make([]core.Anchor, 0, len(d.anchors))
	for a := range d.anchors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Replace replaces del bytes at off with ins. Offsets are clamped to the
// text.
func (d *Document) Replace(off, del int, ins string) {
	off = clamp(off, 0, len(d.text))
	del = clamp(del, 0, len(d.text)-off)
	d.text = d.text[:off] + ins + d.text[off+del:]
	d.shift(off, del, len(ins))
}

// Insert inserts text at off.
func (d *Document) Insert(off int, text string) {
	d.Replace(off, 0, text)
}

// Delete removes n bytes at off.
func (d *Document) Delete(off, n int) {
	d.Replace(off, n, "")
}

// ReplaceLine replaces the content of line. A terminated line is replaced
// together with its newline, so an anchor at the end of the previous line
// stays ahead of the new text even when the old line was empty.
func (d *Document) ReplaceLine(line int, text string) {
	start := d.LineStart(line)
	end := strings.IndexByte(d.text[start:], '\n')
	if end < 0 {
		d.Replace(start, len(d.text)-start, text)
		return
	}
	d.Replace(start, end+1, text+"\n")
}

// SetText replaces the whole content. Anchors are carried over through a
// line-level diff, as if the differences had been typed in.
func (d *Document) SetText(text string) {
	if text == d.text {
		return
	}
	// Terminate both texts so the last line diffs like any other.
	a, b, lineArray := d.dmp.DiffLinesToChars(d.text+"\n", text+"\n")
	diffs := d.dmp.DiffMain(a, b, false)
	diffs = d.dmp.DiffCharsToLines(diffs, lineArray)

	pos := 0
	for _, df := range diffs {
		n := len(df.Text)
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			pos += n
		case diffmatchpatch.DiffDelete:
			d.shift(pos, n, 0)
		case diffmatchpatch.DiffInsert:
			d.shift(pos, 0, n)
			pos += n
		}
	}
	d.text = text
	for a, pos := range d.anchors {
		if pos > len(text) {
			d.anchors[a] = len(text)
		}
	}
}

// shift moves anchors for an edit replacing del bytes at off with ins
// bytes.
func (d *Document) shift(off, del, ins int) {
	for a, pos := range d.anchors {
		switch {
		case pos < off:
		case pos <= off+del:
			d.anchors[a] = off + ins
		default:
			d.anchors[a] = pos - del + ins
		}
	}
}

// SearchText returns the active search string.
func (d *Document) SearchText() (string, bool) {
	return d.search, d.hasSearch
}

// SetSearchText sets the active search string. An empty string clears it.
func (d *Document) SetSearchText(text string) {
	d.search = text
	d.hasSearch = text != ""
}

// SetTheme sets the theme colors as "#RRGGBB" strings. Empty strings
// remove the theme.
func (d *Document) SetTheme(fg, bg string) {
	d.fg, d.bg = fg, bg
	d.themed = fg != "" || bg != ""
}

// ThemeColors returns the theme colors.
func (d *Document) ThemeColors() (fg, bg string, ok bool) {
	return d.fg, d.bg, d.themed
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
