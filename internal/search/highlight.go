package search

import (
	"unicode"
	"unicode/utf8"
)

// TextSegment is one piece of a highlighted text. Concatenating the Text of
// every segment returned by Highlight reproduces the cleaned input.
type TextSegment struct {
	Text          string `json:"text"`
	IsHighlighted bool   `json:"is_highlighted"`
}

// unit is one comparable rune of the cleaned text together with the byte
// range of the original it stands for. Marks extend the preceding unit and
// whitespace runs fold into a single ' ' unit.
type unit struct {
	r          rune
	start, end int
}

// Highlight splits text into highlighted and plain segments for query.
//
// Annotation spans are stripped first. Matching uses the same normalization
// as Search plus simple case folding; matches are found left to right without
// overlap and the highlighted slices keep the original marks and casing.
func Highlight(text, query string) []TextSegment {
	clean := StripMarkers(text)
	q := foldRunes(Normalize(query))
	if len(q) == 0 {
		return []TextSegment{{Text: clean}}
	}

	units := buildUnits(clean)
	var segs []TextSegment
	pos := 0
	for i := 0; i+len(q) <= len(units); {
		if !matchAt(units, i, q) {
			i++
			continue
		}
		hs, he := units[i].start, units[i+len(q)-1].end
		if hs > pos {
			segs = append(segs, TextSegment{Text: clean[pos:hs]})
		}
		segs = append(segs, TextSegment{Text: clean[hs:he], IsHighlighted: true})
		pos = he
		i += len(q)
	}
	if len(segs) == 0 {
		return []TextSegment{{Text: clean}}
	}
	if pos < len(clean) {
		segs = append(segs, TextSegment{Text: clean[pos:]})
	}
	return segs
}

func buildUnits(s string) []unit {
	units := make([]unit, 0, utf8.RuneCountInString(s))
	for i, r := range s {
		_, w := utf8.DecodeRuneInString(s[i:])
		end := i + w
		n := len(units)
		switch {
		case isMark(r):
			// Leading marks have no base letter and stay unhighlighted.
			if n > 0 {
				units[n-1].end = end
			}
		case unicode.IsSpace(r):
			if n > 0 && units[n-1].r == ' ' {
				units[n-1].end = end
				continue
			}
			units = append(units, unit{r: ' ', start: i, end: end})
		default:
			units = append(units, unit{r: unicode.ToLower(r), start: i, end: end})
		}
	}
	return units
}

func matchAt(units []unit, i int, q []rune) bool {
	for j, r := range q {
		if units[i+j].r != r {
			return false
		}
	}
	return true
}

func foldRunes(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, unicode.ToLower(r))
	}
	return out
}
