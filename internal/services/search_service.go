// SearchService runs diacritic-insensitive verse searches over the loaded
// corpus, attaches highlight segments to every hit, and keeps each user's
// recent-search list up to date.
//
// Observability: public methods are OpenTelemetry-instrumented; search counts
// and result sizes are exported as Prometheus metrics.

package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-mushaf-backend/internal/corpus"
	"github.com/tbourn/go-mushaf-backend/internal/domain"
	"github.com/tbourn/go-mushaf-backend/internal/repo"
	"github.com/tbourn/go-mushaf-backend/internal/search"
	"github.com/tbourn/go-mushaf-backend/internal/utils"
)

const (
	defaultMaxQueryRunes = 200
	defaultRecentLimit   = 5
)

// SearchHit is one matching verse with its highlighted text.
type SearchHit struct {
	Verse    corpus.Verse         `json:"verse"`
	Segments []search.TextSegment `json:"segments"`
}

// SearchService coordinates searching and recent-search persistence.
type SearchService struct {
	// DB stores recent searches. A nil DB disables recording.
	DB *gorm.DB

	// MaxQueryRunes caps accepted queries; <= 0 uses the default (200).
	MaxQueryRunes int
	// RecentLimit is how many recent searches are kept per user; <= 0 uses
	// the default (5).
	RecentLimit int

	all       *search.Engine
	byChapter map[int]*search.Engine
}

// NewSearchService precomputes one engine over the whole corpus and one per
// chapter so chapter-scoped searches skip the rest of the text. A nil corpus
// yields a service that finds nothing.
func NewSearchService(db *gorm.DB, c *corpus.Corpus) *SearchService {
	s := &SearchService{
		DB:        db,
		all:       search.NewEngine(c),
		byChapter: map[int]*search.Engine{},
	}
	if c == nil {
		return s
	}
	for _, ch := range c.Chapters() {
		s.byChapter[ch.Number] = search.NewEngine(c, search.WithChapter(ch.Number))
	}
	return s
}

// cleanQuery trims q and collapses inner whitespace runs so queries that
// search the same text share one recent-search entry.
func cleanQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func (s *SearchService) maxRunes() int {
	if s.MaxQueryRunes > 0 {
		return s.MaxQueryRunes
	}
	return defaultMaxQueryRunes
}

func (s *SearchService) recentLimit() int {
	if s.RecentLimit > 0 {
		return s.RecentLimit
	}
	return defaultRecentLimit
}

// Search returns one page of hits for query plus the total hit count.
// chapter == 0 searches the whole corpus. A blank query returns no hits and
// is not recorded. Non-blank queries are moved to the front of userID's
// recent searches; a failure to record does not fail the search.
func (s *SearchService) Search(ctx context.Context, userID, query string, chapter, page, pageSize int) ([]SearchHit, int64, error) {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("chapter", chapter),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	query = cleanQuery(query)
	if utf8.RuneCountInString(query) > s.maxRunes() {
		return nil, 0, ErrQueryTooLong
	}

	eng, scope := s.all, "all"
	if chapter != 0 {
		e, ok := s.byChapter[chapter]
		if !ok {
			return nil, 0, ErrChapterNotFound
		}
		eng, scope = e, "chapter"
	}

	if search.Normalize(query) == "" {
		return []SearchHit{}, 0, nil
	}

	verses := eng.Search(query)
	searchQueries.WithLabelValues(scope).Inc()
	searchResults.Observe(float64(len(verses)))
	span.SetAttributes(attribute.Int("results", len(verses)))

	if s.DB != nil {
		if err := repo.RecordRecentSearch(ctx, s.DB, userID, query, s.recentLimit()); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "record recent search")
		}
	}

	start, end := utils.NewPage(page, pageSize).Bounds(len(verses))
	hits := make([]SearchHit, 0, end-start)
	for _, v := range verses[start:end] {
		hits = append(hits, SearchHit{Verse: v, Segments: search.Highlight(v.Text, query)})
	}
	return hits, int64(len(verses)), nil
}

// Highlight splits text into highlighted and plain segments for query.
func (s *SearchService) Highlight(ctx context.Context, text, query string) ([]search.TextSegment, error) {
	_, span := otel.Tracer("services/SearchService").Start(ctx, "Highlight")
	defer span.End()

	if utf8.RuneCountInString(strings.TrimSpace(query)) > s.maxRunes() {
		return nil, ErrQueryTooLong
	}
	return search.Highlight(text, query), nil
}

// RecentSearches lists userID's recent searches, most recent first.
func (s *SearchService) RecentSearches(ctx context.Context, userID string) ([]domain.RecentSearch, error) {
	ctx, span := otel.Tracer("services/SearchService").Start(ctx, "RecentSearches",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return repo.ListRecentSearches(ctx, s.DB, userID, s.recentLimit())
}

// DeleteRecentSearch removes one query from userID's list.
func (s *SearchService) DeleteRecentSearch(ctx context.Context, userID, query string) error {
	ctx, span := otel.Tracer("services/SearchService").Start(ctx, "DeleteRecentSearch",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	err := repo.DeleteRecentSearch(ctx, s.DB, userID, cleanQuery(query))
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRecentSearchNotFound
	}
	return err
}

// ClearRecentSearches removes every recent search for userID.
func (s *SearchService) ClearRecentSearches(ctx context.Context, userID string) error {
	ctx, span := otel.Tracer("services/SearchService").Start(ctx, "ClearRecentSearches",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	_, err := repo.ClearRecentSearches(ctx, s.DB, userID)
	return err
}

// RecentSearchesVersion returns a value that changes whenever userID's
// recent-search list changes (used for ETags).
func (s *SearchService) RecentSearchesVersion(ctx context.Context, userID string) (count, seq int64, err error) {
	return repo.RecentSearchStats(ctx, s.DB, userID)
}
