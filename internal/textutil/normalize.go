package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize returns the matching form of s. Empty or whitespace-only input
// yields "".
func Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = width.Fold.String(s)
	// Caser keeps state between calls, so each call gets its own.
	s = cases.Fold().String(s)
	return CollapseSpace(s)
}

// CollapseSpace trims s and replaces each run of Unicode whitespace with a
// single ASCII space.
func CollapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
