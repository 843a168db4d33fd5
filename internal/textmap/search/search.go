// Package search flags overview lines that contain the active search text.
package search

import (
	"strings"

	"github.com/dshills/textmap/internal/textmap/core"
)

// Annotate sets SearchMatch on every line whose raw text contains text as a
// literal, case-sensitive substring. Previous flags are overwritten, so an
// empty text clears all matches.
func Annotate(lines []core.Line, text string) {
	for i := range lines {
		lines[i].SearchMatch = text != "" && strings.Contains(lines[i].Raw, text)
	}
}

// Count returns the number of lines flagged as search matches.
func Count(lines []core.Line) int {
	n := 0
	for _, l := range lines {
		if l.SearchMatch {
			n++
		}
	}
	return n
}
