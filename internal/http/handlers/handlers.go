// Package handlers exposes the REST endpoints of the reader API.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses
// and idempotent replays).
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/tbourn/go-mushaf-backend/internal/corpus"
	"github.com/tbourn/go-mushaf-backend/internal/domain"
	"github.com/tbourn/go-mushaf-backend/internal/http/middleware"
	"github.com/tbourn/go-mushaf-backend/internal/search"
	"github.com/tbourn/go-mushaf-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ReaderService serves read-only corpus views.
type ReaderService interface {
	// Checksum identifies the loaded corpus; it changes only on reload.
	Checksum() string
	// Chapters lists every chapter in order.
	Chapters(ctx context.Context, prefs ...language.Tag) []services.ChapterSummary
	// Chapter returns one chapter with its verses and neighbours.
	Chapter(ctx context.Context, n int, prefs ...language.Tag) (*services.ChapterView, error)
	// Verse returns one verse.
	Verse(ctx context.Context, n, v int) (*corpus.Verse, error)
	// Page returns the verses printed on page p.
	Page(ctx context.Context, p int) ([]corpus.Verse, error)
}

// SearchService runs searches and manages recent searches.
type SearchService interface {
	Search(ctx context.Context, userID, query string, chapter, page, pageSize int) ([]services.SearchHit, int64, error)
	Highlight(ctx context.Context, text, query string) ([]search.TextSegment, error)
	RecentSearches(ctx context.Context, userID string) ([]domain.RecentSearch, error)
	DeleteRecentSearch(ctx context.Context, userID, query string) error
	ClearRecentSearches(ctx context.Context, userID string) error
	RecentSearchesVersion(ctx context.Context, userID string) (count, seq int64, err error)
}

// PreferencesService reads and mutates reader settings.
type PreferencesService interface {
	Get(ctx context.Context, userID string) (*domain.Preferences, error)
	Update(ctx context.Context, userID string, u services.PreferencesUpdate) (*domain.Preferences, error)
	IncreaseFontSize(ctx context.Context, userID string) (*domain.Preferences, error)
	DecreaseFontSize(ctx context.Context, userID string) (*domain.Preferences, error)
	ToggleDisplayMode(ctx context.Context, userID string) (*domain.Preferences, error)
	ToggleUIVisible(ctx context.Context, userID string) (*domain.Preferences, error)
}

//
// Handler wiring
//

// Handlers groups the reader, search and preferences endpoints.
type Handlers struct {
	reader ReaderService
	search SearchService
	prefs  PreferencesService

	// IdempotencyTTL is how long a stored preference mutation can be
	// replayed. Zero uses 24h.
	IdempotencyTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(reader ReaderService, searchSvc SearchService, prefs PreferencesService) *Handlers {
	return &Handlers{reader: reader, search: searchSvc, prefs: prefs}
}

// userID is the caller as resolved by middleware.UserID.
func userID(c *gin.Context) string { return middleware.UserID(c) }

// languagePrefs returns the caller's language preferences: the "lang" query
// parameter when valid, otherwise Accept-Language.
func languagePrefs(c *gin.Context) []language.Tag {
	if l := c.Query("lang"); l != "" {
		if t, err := language.Parse(l); err == nil {
			return []language.Tag{t}
		}
	}
	tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
	if err != nil {
		return nil
	}
	return tags
}

// langKey is a short cache-key fragment for prefs.
func langKey(prefs []language.Tag) string {
	if len(prefs) == 0 {
		return "und"
	}
	base, _ := prefs[0].Base()
	return base.String()
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}
