// ReaderService exposes the immutable corpus to the HTTP layer: chapter
// listings, a single chapter with previous/next navigation, single verses and
// print pages. It never mutates the corpus and holds no locks.
//
// Chapter display names follow the caller's language preference: Arabic
// speakers get the native name, everyone else the Latin transliteration.

package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/tbourn/go-mushaf-backend/internal/corpus"
)

// ChapterSummary is a chapter without its verses.
type ChapterSummary struct {
	Number      int    `json:"number"`
	NameNative  string `json:"name_native"`
	NameLatin   string `json:"name_latin"`
	DisplayName string `json:"display_name"`
	VerseCount  int    `json:"verse_count"`
	FirstPage   int    `json:"first_page"`
}

// ChapterView is a chapter with its verses and neighbours. Prev and Next are
// nil at the ends of the corpus.
type ChapterView struct {
	ChapterSummary
	Verses []corpus.Verse `json:"verses"`
	Prev   *int           `json:"prev,omitempty"`
	Next   *int           `json:"next,omitempty"`
}

var nameMatcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// DisplayName picks the chapter name for the given language preferences,
// most preferred first. With no preference the Latin name is used.
func DisplayName(native, latin string, prefs ...language.Tag) string {
	if len(prefs) == 0 {
		return latin
	}
	_, idx, conf := nameMatcher.Match(prefs...)
	if idx == 1 && conf != language.No && native != "" {
		return native
	}
	return latin
}

// ReaderService serves read-only views of the corpus.
type ReaderService struct {
	Corpus *corpus.Corpus
}

// NewReaderService wraps c and publishes its size to the corpus_verses gauge.
func NewReaderService(c *corpus.Corpus) *ReaderService {
	corpusVerses.Set(float64(c.VerseCount()))
	return &ReaderService{Corpus: c}
}

// Checksum identifies the loaded corpus contents (used for ETags).
func (s *ReaderService) Checksum() string { return s.Corpus.Checksum() }

// Chapters lists every chapter in ascending order.
func (s *ReaderService) Chapters(ctx context.Context, prefs ...language.Tag) []ChapterSummary {
	_, span := otel.Tracer("services/ReaderService").Start(ctx, "Chapters")
	defer span.End()

	chs := s.Corpus.Chapters()
	out := make([]ChapterSummary, 0, len(chs))
	for i := range chs {
		out = append(out, summarize(&chs[i], prefs))
	}
	span.SetAttributes(attribute.Int("chapters", len(out)))
	return out
}

// Chapter returns chapter n with its verses and navigation.
func (s *ReaderService) Chapter(ctx context.Context, n int, prefs ...language.Tag) (*ChapterView, error) {
	_, span := otel.Tracer("services/ReaderService").Start(ctx, "Chapter",
		trace.WithAttributes(attribute.Int("chapter", n)),
	)
	defer span.End()

	ch, err := s.Corpus.Chapter(n)
	if err != nil {
		return nil, mapCorpusErr(err)
	}
	v := &ChapterView{ChapterSummary: summarize(ch, prefs), Verses: ch.Verses}
	if p, ok := s.Corpus.PrevChapter(n); ok {
		v.Prev = &p
	}
	if nx, ok := s.Corpus.NextChapter(n); ok {
		v.Next = &nx
	}
	return v, nil
}

// Verse returns verse v of chapter n.
func (s *ReaderService) Verse(ctx context.Context, n, v int) (*corpus.Verse, error) {
	_, span := otel.Tracer("services/ReaderService").Start(ctx, "Verse",
		trace.WithAttributes(attribute.Int("chapter", n), attribute.Int("verse", v)),
	)
	defer span.End()

	verse, err := s.Corpus.Verse(n, v)
	if err != nil {
		return nil, mapCorpusErr(err)
	}
	return verse, nil
}

// Page returns the verses printed on page p in reading order.
func (s *ReaderService) Page(ctx context.Context, p int) ([]corpus.Verse, error) {
	_, span := otel.Tracer("services/ReaderService").Start(ctx, "Page",
		trace.WithAttributes(attribute.Int("page", p)),
	)
	defer span.End()

	vs := s.Corpus.Page(p)
	if len(vs) == 0 {
		return nil, ErrPageNotFound
	}
	return vs, nil
}

// PageCount returns the number of distinct print pages.
func (s *ReaderService) PageCount() int { return s.Corpus.PageCount() }

func summarize(ch *corpus.Chapter, prefs []language.Tag) ChapterSummary {
	return ChapterSummary{
		Number:      ch.Number,
		NameNative:  ch.NameNative,
		NameLatin:   ch.NameLatin,
		DisplayName: DisplayName(ch.NameNative, ch.NameLatin, prefs...),
		VerseCount:  ch.VerseCount(),
		FirstPage:   ch.FirstPage(),
	}
}

func mapCorpusErr(err error) error {
	switch {
	case errors.Is(err, corpus.ErrChapterNotFound):
		return ErrChapterNotFound
	case errors.Is(err, corpus.ErrVerseNotFound):
		return ErrVerseNotFound
	default:
		return err
	}
}
