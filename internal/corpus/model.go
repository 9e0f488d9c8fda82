// Package corpus turns the flat verse records of the bundled dataset into an
// immutable, chapter-structured corpus.
//
// The package is pure: it performs no logging and, apart from the loader
// helpers in loader.go, no I/O. A *Corpus is read-only after Build returns and
// is therefore safe for concurrent use by any number of readers.
package corpus

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	// MinChapter and MaxChapter bound valid chapter numbers.
	MinChapter = 1
	MaxChapter = 114
)

// IsChapterNumber reports whether n is a valid chapter number (1..114).
func IsChapterNumber(n int) bool { return n >= MinChapter && n <= MaxChapter }

// PageValue holds a print-page number exactly as it appeared in the source
// data. The dataset carries pages both as JSON numbers and as numeric strings;
// Build coerces the raw token to an int.
type PageValue struct {
	raw string
	set bool
}

// PageInt returns a PageValue for an integer page.
func PageInt(n int) PageValue { return PageValue{raw: strconv.Itoa(n), set: true} }

// PageString returns a PageValue for a page given as text.
func PageString(s string) PageValue { return PageValue{raw: s, set: true} }

// IsSet reports whether a page value was present in the input.
func (p PageValue) IsSet() bool { return p.set }

// String returns the raw token.
func (p PageValue) String() string { return p.raw }

// Int parses the raw token as a base-10 integer. Surrounding whitespace is
// ignored; anything else that is not an integer is rejected.
func (p PageValue) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(p.raw))
}

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (p *PageValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = PageValue{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PageString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = PageString(n.String())
	return nil
}

// MarshalJSON writes the page back as a number when it is one, otherwise as
// a string.
func (p PageValue) MarshalJSON() ([]byte, error) {
	if !p.set {
		return []byte("null"), nil
	}
	if n, err := p.Int(); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(p.raw)
}

// RawVerseRecord is one flat entry of the source dataset. Records may arrive
// in any order; chapter names are repeated on every record of a chapter.
type RawVerseRecord struct {
	ID                int       `json:"id"`
	ChapterNumber     int       `json:"sura_no"`
	ChapterNameNative string    `json:"sura_name_ar"`
	ChapterNameLatin  string    `json:"sura_name_en"`
	PageNumber        PageValue `json:"page"`
	VerseNumber       int       `json:"aya_no"`
	Text              string    `json:"aya_text"`
}

// Verse is a validated verse. It keeps the chapter names denormalized so a
// search hit can be rendered without a chapter lookup. Identity is ID.
type Verse struct {
	ID                int    `json:"id"`
	ChapterNumber     int    `json:"chapter_number"`
	ChapterNameNative string `json:"chapter_name_native"`
	ChapterNameLatin  string `json:"chapter_name_latin"`
	PageNumber        int    `json:"page_number"`
	VerseNumber       int    `json:"verse_number"`
	Text              string `json:"text"`
}

// Chapter groups the verses of one chapter in verse-number order.
type Chapter struct {
	Number     int     `json:"number"`
	NameNative string  `json:"name_native"`
	NameLatin  string  `json:"name_latin"`
	Verses     []Verse `json:"verses"`
}

// VerseCount returns the number of verses in the chapter.
func (ch *Chapter) VerseCount() int { return len(ch.Verses) }

// FirstPage returns the print page of the chapter's first verse, or 0 for an
// empty chapter.
func (ch *Chapter) FirstPage() int {
	if len(ch.Verses) == 0 {
		return 0
	}
	return ch.Verses[0].PageNumber
}
