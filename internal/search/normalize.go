// Package search implements diacritic-insensitive verse search and match
// highlighting over an immutable corpus.
//
// Design notes:
//   - No logging in the library; callers decide what to record.
//   - Matching is literal substring containment, never a pattern language.
//   - Results keep the corpus reading order (chapter, then verse); there is
//     no scoring.
//   - An Engine is read-only after construction and safe for concurrent use.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	// MarkerStart and MarkerEnd delimit embedded annotation spans that are
	// never displayed or matched.
	MarkerStart = '\u06DD'
	MarkerEnd   = '\u06DE'
)

// ArabicMarks holds the combining vowel and recitation marks ignored by
// matching: U+064B..U+065F and U+0670.
var ArabicMarks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x064B, Hi: 0x065F, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
	},
}

var (
	markSet     = runes.In(ArabicMarks)
	markRemover = runes.Remove(markSet)
)

// isMark reports whether r is ignored by matching.
func isMark(r rune) bool { return markSet.Contains(r) }

// StripMarkers removes every MarkerStart..MarkerEnd span (inclusive,
// shortest match). A start marker with no closing marker is kept.
func StripMarkers(text string) string {
	start := strings.IndexRune(text, MarkerStart)
	if start < 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for start >= 0 {
		end := strings.IndexRune(text[start:], MarkerEnd)
		if end < 0 {
			break
		}
		b.WriteString(text[:start])
		text = text[start+end+utf8.RuneLen(MarkerEnd):]
		start = strings.IndexRune(text, MarkerStart)
	}
	b.WriteString(text)
	return b.String()
}

// Normalize prepares s for comparison: annotation spans and Arabic marks are
// removed, whitespace runs collapse to one space and the ends are trimmed.
// Letters are left untouched, so comparison stays case-sensitive.
func Normalize(s string) string {
	s = StripMarkers(s)
	out, _, err := transform.String(markRemover, s)
	if err != nil {
		out = strings.Map(func(r rune) rune {
			if isMark(r) {
				return -1
			}
			return r
		}, s)
	}
	return collapseSpace(out)
}

func collapseSpace(s string) string {
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
