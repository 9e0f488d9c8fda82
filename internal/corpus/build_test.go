package corpus

import (
	"errors"
	"reflect"
	"testing"
)

// ---------- fixtures ----------

func rec(id, chapter, verse int, page PageValue, text string) RawVerseRecord {
	return RawVerseRecord{
		ID:                id,
		ChapterNumber:     chapter,
		ChapterNameNative: "سورة" + string(rune('0'+chapter%10)),
		ChapterNameLatin:  "Chapter-" + string(rune('A'+chapter%26)),
		PageNumber:        page,
		VerseNumber:       verse,
		Text:              text,
	}
}

// shuffled input spanning three chapters, with string and int pages mixed
func shuffledRecords() []RawVerseRecord {
	return []RawVerseRecord{
		rec(8, 3, 2, PageInt(3), "c3v2"),
		rec(2, 1, 2, PageString("1"), "c1v2"),
		rec(5, 2, 1, PageInt(2), "c2v1"),
		rec(1, 1, 1, PageInt(1), "c1v1"),
		rec(7, 3, 1, PageString(" 3 "), "c3v1"),
		rec(3, 1, 3, PageInt(1), "c1v3"),
		rec(6, 2, 2, PageInt(2), "c2v2"),
	}
}

// ---------- grouping / ordering ----------

func TestBuild_GroupsByChapterExactlyOnce(t *testing.T) {
	recs := shuffledRecords()
	c, err := Build(recs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 chapters, got %d", c.Len())
	}

	seen := map[int]int{}
	for _, ch := range c.Chapters() {
		for _, v := range ch.Verses {
			seen[v.ID]++
			if v.ChapterNumber != ch.Number {
				t.Fatalf("verse %d in chapter %d carries chapter %d", v.ID, ch.Number, v.ChapterNumber)
			}
		}
	}
	for _, r := range recs {
		if seen[r.ID] != 1 {
			t.Fatalf("record %d appears %d times", r.ID, seen[r.ID])
		}
	}
	if c.VerseCount() != len(recs) {
		t.Fatalf("VerseCount = %d; want %d", c.VerseCount(), len(recs))
	}
}

func TestBuild_OrderingStrictlyAscending(t *testing.T) {
	c, err := Build(shuffledRecords())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	chs := c.Chapters()
	for i := 1; i < len(chs); i++ {
		if chs[i-1].Number >= chs[i].Number {
			t.Fatalf("chapters not ascending: %d then %d", chs[i-1].Number, chs[i].Number)
		}
	}
	for _, ch := range chs {
		for i := 1; i < len(ch.Verses); i++ {
			if ch.Verses[i-1].VerseNumber >= ch.Verses[i].VerseNumber {
				t.Fatalf("chapter %d verses not ascending", ch.Number)
			}
		}
	}

	var texts []string
	for _, v := range c.Verses() {
		texts = append(texts, v.Text)
	}
	want := []string{"c1v1", "c1v2", "c1v3", "c2v1", "c2v2", "c3v1", "c3v2"}
	if !reflect.DeepEqual(texts, want) {
		t.Fatalf("reading order = %v; want %v", texts, want)
	}
}

func TestBuild_FirstSeenRecordNamesChapter(t *testing.T) {
	a := rec(1, 5, 2, PageInt(9), "x")
	a.ChapterNameNative, a.ChapterNameLatin = "أول", "First"
	b := rec(2, 5, 1, PageInt(9), "y")
	b.ChapterNameNative, b.ChapterNameLatin = "ثاني", "Second"

	c, err := Build([]RawVerseRecord{a, b})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ch, _ := c.Chapter(5)
	if ch.NameNative != "أول" || ch.NameLatin != "First" {
		t.Fatalf("chapter names = %q/%q; want first-seen", ch.NameNative, ch.NameLatin)
	}
	// verse 1 came from record b but carries the chapter's names
	if ch.Verses[0].ID != 2 || ch.Verses[0].ChapterNameLatin != "First" {
		t.Fatalf("unexpected first verse: %+v", ch.Verses[0])
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	recs := shuffledRecords()
	before := make([]RawVerseRecord, len(recs))
	copy(before, recs)

	if _, err := Build(recs); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(before, recs) {
		t.Fatalf("input records were modified")
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	c, err := Build(nil)
	if err != nil {
		t.Fatalf("Build(nil): %v", err)
	}
	if c.Len() != 0 || c.VerseCount() != 0 || len(c.Verses()) != 0 {
		t.Fatalf("expected empty corpus")
	}
}

// ---------- page coercion ----------

func TestBuild_PageCoercion(t *testing.T) {
	c, err := Build([]RawVerseRecord{
		rec(1, 1, 1, PageString("42"), "a"),
		rec(2, 1, 2, PageString(" 43\n"), "b"),
		rec(3, 1, 3, PageInt(44), "c"),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := []int{}
	for _, v := range c.Verses() {
		got = append(got, v.PageNumber)
	}
	if !reflect.DeepEqual(got, []int{42, 43, 44}) {
		t.Fatalf("pages = %v", got)
	}
}

// ---------- DataFormatError paths ----------

func TestBuild_DataFormatErrors(t *testing.T) {
	cases := []struct {
		name  string
		recs  []RawVerseRecord
		id    int
		field string
	}{
		{"page not integer", []RawVerseRecord{rec(10, 1, 1, PageString("12a"), "x")}, 10, "page"},
		{"page float", []RawVerseRecord{rec(11, 1, 1, PageString("1.5"), "x")}, 11, "page"},
		{"page missing", []RawVerseRecord{rec(12, 1, 1, PageValue{}, "x")}, 12, "page"},
		{"zero id", []RawVerseRecord{rec(0, 1, 1, PageInt(1), "x")}, 0, "id"},
		{"duplicate id", []RawVerseRecord{rec(5, 1, 1, PageInt(1), "x"), rec(5, 1, 2, PageInt(1), "y")}, 5, "id"},
		{"chapter too high", []RawVerseRecord{rec(13, 115, 1, PageInt(1), "x")}, 13, "sura_no"},
		{"chapter zero", []RawVerseRecord{rec(14, 0, 1, PageInt(1), "x")}, 14, "sura_no"},
		{"verse zero", []RawVerseRecord{rec(15, 1, 0, PageInt(1), "x")}, 15, "aya_no"},
		{"duplicate verse", []RawVerseRecord{rec(16, 2, 1, PageInt(1), "x"), rec(17, 2, 1, PageInt(1), "y")}, 17, "aya_no"},
		{"blank text", []RawVerseRecord{rec(18, 1, 1, PageInt(1), "  ")}, 18, "aya_text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Build(tc.recs)
			if err == nil {
				t.Fatalf("expected error, got corpus with %d chapters", c.Len())
			}
			if c != nil {
				t.Fatalf("no partial corpus may be returned on error")
			}
			if !errors.Is(err, ErrDataFormat) {
				t.Fatalf("errors.Is(ErrDataFormat) = false for %v", err)
			}
			var dfe *DataFormatError
			if !errors.As(err, &dfe) {
				t.Fatalf("expected *DataFormatError, got %T", err)
			}
			if dfe.RecordID != tc.id || dfe.Field != tc.field {
				t.Fatalf("got record=%d field=%q; want %d/%q (%v)", dfe.RecordID, dfe.Field, tc.id, tc.field, err)
			}
			if dfe.Error() == "" {
				t.Fatalf("empty error message")
			}
		})
	}
}

// ---------- contiguity ----------

func TestBuild_AcceptsGaps_ValidateRejects(t *testing.T) {
	c, err := Build([]RawVerseRecord{
		rec(1, 1, 1, PageInt(1), "a"),
		rec(2, 1, 3, PageInt(1), "c"), // verse 2 missing
	})
	if err != nil {
		t.Fatalf("Build should accept gaps: %v", err)
	}
	err = c.Validate()
	if !errors.Is(err, ErrDataFormat) {
		t.Fatalf("Validate should report gap, got %v", err)
	}
	var dfe *DataFormatError
	if !errors.As(err, &dfe) || dfe.RecordID != 2 {
		t.Fatalf("gap should point at record 2, got %+v", dfe)
	}

	ok, err := Build(shuffledRecords())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("contiguous corpus failed validation: %v", err)
	}
}

func TestValidate_VerseNotStartingAtOne(t *testing.T) {
	c, err := Build([]RawVerseRecord{rec(1, 4, 2, PageInt(1), "b")})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected Validate to reject chapter starting at verse 2")
	}
}
