package tracking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/textmap/internal/textmap/core"
)

// Errors returned by baseline capture.
var (
	// ErrAnchorCount indicates the host disagreed with the snapshot about
	// the number of lines by more than the end-of-document sentinel.
	ErrAnchorCount = errors.New("anchor count does not match line count")

	// ErrLineOutOfRange is returned by hosts asked to anchor a line past
	// the end of the document.
	ErrLineOutOfRange = errors.New("line out of range")
)

// Anchors is the position-anchor capability of a host document.
type Anchors interface {
	// CreateAnchor places an anchor at the start of line. A line equal to
	// the line count places it at the end of the document. Text inserted
	// exactly at the anchor lands before it.
	CreateAnchor(line int) (core.Anchor, error)

	// ResolveAnchor returns the current byte offset of the anchor.
	// Returns false if the anchor is no longer valid.
	ResolveAnchor(a core.Anchor) (offset int, ok bool)
}

// mark pairs an anchor with the original line it terminates.
type mark struct {
	anchor core.Anchor
	raw    string
	valid  bool
}

// Baseline is the original snapshot a document is diffed against.
type Baseline struct {
	marks []mark
}

// Capture anchors the end of every line in raw and records its content.
// The last line is anchored to the end-of-document sentinel.
//
// One failed anchor is tolerated (its line is reported as changed forever);
// more than one means the host and the snapshot disagree about the line
// count, which is reported as ErrAnchorCount.
func Capture(doc Anchors, raw []string) (*Baseline, error) {
	b := &Baseline{marks: make([]mark, len(raw))}

	failed := 0
	var lastErr error
	for i, r := range raw {
		a, err := doc.CreateAnchor(i + 1)
		if err != nil {
			failed++
			lastErr = err
			b.marks[i] = mark{raw: r}
			continue
		}
		b.marks[i] = mark{anchor: a, raw: r, valid: true}
	}

	if failed > 1 {
		return nil, fmt.Errorf("%w: %d of %d anchors failed: %w", ErrAnchorCount, failed, len(raw), lastErr)
	}
	return b, nil
}

// Len returns the number of original lines in the baseline.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.marks)
}

// Anchors returns the anchor handles held by the baseline, in line order.
// Invalid entries are skipped.
func (b *Baseline) Anchors() []core.Anchor {
	if b == nil {
		return nil
	}
	out := make([]core.Anchor, 0, len(b.marks))
	for _, m := range b.marks {
		if m.valid {
			out = append(out, m.anchor)
		}
	}
	return out
}

// Mark sets Changed on every line of the current snapshot that cannot be
// aligned with an unchanged original line.
//
// All lines start out changed. Walking the baseline in order, the text
// between the previous anchor and the next one is the current content of
// that original line plus anything inserted after it; if its first line is
// the original text, the aligned current line is cleared.
func (b *Baseline) Mark(lines []core.Line, doc Anchors) {
	for i := range lines {
		lines[i].Changed = true
	}
	if b == nil || len(lines) == 0 {
		return
	}

	text := joinLines(lines)
	start := 0
	c := 0
	last := len(b.marks) - 1
	for i, m := range b.marks {
		if c >= len(lines) {
			break
		}
		if !m.valid {
			continue
		}
		end, ok := doc.ResolveAnchor(m.anchor)
		if !ok || end < start || end > len(text) {
			continue
		}

		slice := text[start:end]
		start = end
		if slice == "" {
			// Only the end-of-document sentinel may legitimately span
			// nothing (a trailing empty line). Anywhere else the original
			// line was deleted and its anchor collapsed onto the previous one.
			if i == last && lines[c].Raw == m.raw {
				lines[c].Changed = false
			}
			continue
		}

		first, _, _ := strings.Cut(slice, "\n")
		if first == m.raw {
			lines[c].Changed = false
		}
		c += strings.Count(slice, "\n")
	}
}
