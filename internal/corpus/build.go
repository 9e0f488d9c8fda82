package corpus

import (
	"sort"
	"strings"
)

// Build groups records into chapters and returns the immutable corpus.
//
// Grouping is stable: the first record seen for a chapter number supplies the
// chapter names. Verses are sorted by verse number and chapters by chapter
// number. The records slice is only read.
//
// Build fails fast with a *DataFormatError on the first malformed record:
//   - id <= 0, or an id used twice
//   - chapter number outside 1..114
//   - verse number < 1, or a (chapter, verse) pair used twice
//   - blank text
//   - missing page, or a page that is not an integer
//
// Gaps in verse numbering are not rejected here; see (*Corpus).Validate.
func Build(records []RawVerseRecord) (*Corpus, error) {
	type group struct {
		number     int
		nameNative string
		nameLatin  string
		verses     []Verse
	}

	groups := make(map[int]*group)
	order := make([]int, 0, MaxChapter)
	seenIDs := make(map[int]struct{}, len(records))
	seenVerses := make(map[[2]int]int, len(records))

	for i := range records {
		r := &records[i]

		if r.ID <= 0 {
			return nil, formatErr(r.ID, "id", "must be a positive integer (record #%d)", i)
		}
		if _, dup := seenIDs[r.ID]; dup {
			return nil, formatErr(r.ID, "id", "duplicate id")
		}
		seenIDs[r.ID] = struct{}{}

		if !IsChapterNumber(r.ChapterNumber) {
			return nil, formatErr(r.ID, "sura_no", "chapter number %d outside %d..%d", r.ChapterNumber, MinChapter, MaxChapter)
		}
		if r.VerseNumber < 1 {
			return nil, formatErr(r.ID, "aya_no", "verse number %d must be >= 1", r.VerseNumber)
		}
		key := [2]int{r.ChapterNumber, r.VerseNumber}
		if prev, dup := seenVerses[key]; dup {
			return nil, formatErr(r.ID, "aya_no", "verse %d:%d already defined by record %d", r.ChapterNumber, r.VerseNumber, prev)
		}
		seenVerses[key] = r.ID

		if strings.TrimSpace(r.Text) == "" {
			return nil, formatErr(r.ID, "aya_text", "text is empty")
		}
		if !r.PageNumber.IsSet() {
			return nil, formatErr(r.ID, "page", "page is missing")
		}
		page, err := r.PageNumber.Int()
		if err != nil {
			return nil, formatErr(r.ID, "page", "page %q is not an integer", r.PageNumber.String())
		}

		g, ok := groups[r.ChapterNumber]
		if !ok {
			g = &group{
				number:     r.ChapterNumber,
				nameNative: r.ChapterNameNative,
				nameLatin:  r.ChapterNameLatin,
			}
			groups[r.ChapterNumber] = g
			order = append(order, r.ChapterNumber)
		}
		g.verses = append(g.verses, Verse{
			ID:                r.ID,
			ChapterNumber:     r.ChapterNumber,
			ChapterNameNative: g.nameNative,
			ChapterNameLatin:  g.nameLatin,
			PageNumber:        page,
			VerseNumber:       r.VerseNumber,
			Text:              r.Text,
		})
	}

	sort.Ints(order)
	chapters := make([]Chapter, 0, len(order))
	for _, n := range order {
		g := groups[n]
		sort.SliceStable(g.verses, func(a, b int) bool {
			return g.verses[a].VerseNumber < g.verses[b].VerseNumber
		})
		chapters = append(chapters, Chapter{
			Number:     g.number,
			NameNative: g.nameNative,
			NameLatin:  g.nameLatin,
			Verses:     g.verses,
		})
	}
	return newCorpus(chapters), nil
}
