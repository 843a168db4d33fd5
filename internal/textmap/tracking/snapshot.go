package tracking

import (
	"strings"

	"github.com/dshills/textmap/internal/textmap/core"
)

// Snapshot builds the overview line sequence for the given raw lines.
// Flags start cleared and indices are contiguous from zero.
func Snapshot(raw []string) []core.Line {
	lines := make([]core.Line, len(raw))
	for i, r := range raw {
		lines[i] = core.Line{Index: i, Raw: r}
	}
	return lines
}

// Join returns the document text the anchor offsets refer to.
// Lines are joined with "\n"; offsets are byte offsets into the result.
func Join(raw []string) string {
	return strings.Join(raw, "\n")
}

// joinLines is Join over an overview line sequence.
func joinLines(lines []core.Line) string {
	var sb strings.Builder
	size := 0
	for _, l := range lines {
		size += len(l.Raw) + 1
	}
	sb.Grow(size)
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Raw)
	}
	return sb.String()
}
