package corpus

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Corpus is the structured, read-only verse collection produced by Build.
// Callers must not modify the slices returned by its accessors.
type Corpus struct {
	chapters  []Chapter
	byNumber  map[int]int
	pages     map[int][]Verse
	pageNums  []int
	numVerses int
	checksum  string
}

func newCorpus(chapters []Chapter) *Corpus {
	c := &Corpus{
		chapters: chapters,
		byNumber: make(map[int]int, len(chapters)),
		pages:    make(map[int][]Verse),
	}
	h := blake3.New()
	for i := range chapters {
		ch := &chapters[i]
		c.byNumber[ch.Number] = i
		fmt.Fprintf(h, "C%d\x1f%s\x1f%s\x1e", ch.Number, ch.NameNative, ch.NameLatin)
		for _, v := range ch.Verses {
			c.numVerses++
			if _, ok := c.pages[v.PageNumber]; !ok {
				c.pageNums = append(c.pageNums, v.PageNumber)
			}
			c.pages[v.PageNumber] = append(c.pages[v.PageNumber], v)
			fmt.Fprintf(h, "V%d\x1f%d\x1f%d\x1f%s\x1e", v.ID, v.VerseNumber, v.PageNumber, v.Text)
		}
	}
	sort.Ints(c.pageNums)
	c.checksum = hex.EncodeToString(h.Sum(nil))
	return c
}

// Chapters returns all chapters in ascending chapter-number order.
func (c *Corpus) Chapters() []Chapter { return c.chapters }

// Len returns the number of chapters.
func (c *Corpus) Len() int { return len(c.chapters) }

// VerseCount returns the total number of verses.
func (c *Corpus) VerseCount() int { return c.numVerses }

// Verses returns every verse in reading order (chapter, then verse number).
func (c *Corpus) Verses() []Verse {
	out := make([]Verse, 0, c.numVerses)
	for i := range c.chapters {
		out = append(out, c.chapters[i].Verses...)
	}
	return out
}

// Checksum is a hex BLAKE3 digest of the corpus contents. Two corpora built
// from the same records share a checksum regardless of input order.
func (c *Corpus) Checksum() string { return c.checksum }

// Chapter returns the chapter numbered n.
func (c *Corpus) Chapter(n int) (*Chapter, error) {
	if !IsChapterNumber(n) {
		return nil, ErrChapterNotFound
	}
	i, ok := c.byNumber[n]
	if !ok {
		return nil, ErrChapterNotFound
	}
	return &c.chapters[i], nil
}

// Verse returns verse number v of chapter n.
func (c *Corpus) Verse(n, v int) (*Verse, error) {
	ch, err := c.Chapter(n)
	if err != nil {
		return nil, err
	}
	i := sort.Search(len(ch.Verses), func(i int) bool { return ch.Verses[i].VerseNumber >= v })
	if i < len(ch.Verses) && ch.Verses[i].VerseNumber == v {
		return &ch.Verses[i], nil
	}
	return nil, ErrVerseNotFound
}

// PrevChapter returns the number of the chapter before n in the corpus.
func (c *Corpus) PrevChapter(n int) (int, bool) {
	i, ok := c.byNumber[n]
	if !ok || i == 0 {
		return 0, false
	}
	return c.chapters[i-1].Number, true
}

// NextChapter returns the number of the chapter after n in the corpus.
func (c *Corpus) NextChapter(n int) (int, bool) {
	i, ok := c.byNumber[n]
	if !ok || i >= len(c.chapters)-1 {
		return 0, false
	}
	return c.chapters[i+1].Number, true
}

// Page returns the verses printed on page p in reading order, or nil.
func (c *Corpus) Page(p int) []Verse { return c.pages[p] }

// Pages returns the distinct page numbers in ascending order.
func (c *Corpus) Pages() []int { return c.pageNums }

// PageCount returns the number of distinct pages.
func (c *Corpus) PageCount() int { return len(c.pageNums) }

// Validate checks that every chapter numbers its verses 1..n without gaps.
// Build already rejects duplicates, so a gap is the only remaining defect.
func (c *Corpus) Validate() error {
	for i := range c.chapters {
		ch := &c.chapters[i]
		for j, v := range ch.Verses {
			if v.VerseNumber != j+1 {
				return formatErr(v.ID, "aya_no", "chapter %d: expected verse %d, found %d", ch.Number, j+1, v.VerseNumber)
			}
		}
	}
	return nil
}
