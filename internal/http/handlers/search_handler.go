// Search HTTP handlers.
//
//   - GET    /search                  (paginated hits with highlight segments)
//   - GET    /highlight               (highlight arbitrary text)
//   - GET    /recent-searches         (most recent first, ETag support)
//   - DELETE /recent-searches         (clear)
//   - DELETE /recent-searches/{query} (remove one)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
	"github.com/tbourn/go-mushaf-backend/internal/search"
	"github.com/tbourn/go-mushaf-backend/internal/services"
	"github.com/tbourn/go-mushaf-backend/internal/utils"
)

// SearchResponse wraps a page of hits and pagination information.
type SearchResponse struct {
	Query      string               `json:"query"`
	Results    []services.SearchHit `json:"results"`
	Pagination Pagination           `json:"pagination"`
}

// HighlightResponse carries the segments of a highlighted text.
type HighlightResponse struct {
	Segments []search.TextSegment `json:"segments"`
}

// RecentSearchesResponse lists a user's recent searches.
type RecentSearchesResponse struct {
	RecentSearches []domain.RecentSearch `json:"recent_searches"`
}

// SearchVerses godoc
// @ID          searchVerses
// @Summary     Search verses
// @Description Diacritic-insensitive substring search in reading order. A blank query returns no results. Non-blank queries are added to the caller's recent searches.
// @Tags        Search
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       q          query   string  false "Search text"            example(الله)
// @Param       chapter    query   int     false "Restrict to a chapter"  minimum(1) maximum(114)
// @Param       page       query   int     false "Page number"            minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"         minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.SearchResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request or query too long"
// @Failure     404  {object} handlers.ErrorResponse "Chapter not found"
// @Router      /search [get]
func (h *Handlers) SearchVerses(c *gin.Context) {
	q := c.Query("q")
	chapter := 0
	if s := c.Query("chapter"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chapter must be a positive integer")
			return
		}
		chapter = n
	}
	page := utils.ParsePage(c.Query("page"), c.Query("page_size"))

	hits, total, err := h.search.Search(c.Request.Context(), userID(c), q, chapter, page.Number, page.Size)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQueryTooLong):
			fail(c, http.StatusBadRequest, ErrCodeQueryTooLong, "query too long")
		case errors.Is(err, services.ErrChapterNotFound):
			fail(c, http.StatusNotFound, ErrCodeChapterNotFound, "chapter not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, SearchResponse{
		Query:   q,
		Results: hits,
		Pagination: Pagination{
			Page:       page.Number,
			PageSize:   page.Size,
			Total:      total,
			TotalPages: page.TotalPages(total),
			HasNext:    page.HasNext(total),
		},
	})
}

// HighlightText godoc
// @ID          highlightText
// @Summary     Highlight text
// @Description Splits text into highlighted and plain segments for q. Annotation spans are removed.
// @Tags        Search
// @Produce     json
//
// @Param       text  query  string  true   "Text to highlight"
// @Param       q     query  string  false  "Search text"
//
// @Success     200  {object} handlers.HighlightResponse
// @Failure     400  {object} handlers.ErrorResponse "Query too long"
// @Router      /highlight [get]
func (h *Handlers) HighlightText(c *gin.Context) {
	segs, err := h.search.Highlight(c.Request.Context(), c.Query("text"), c.Query("q"))
	if err != nil {
		if errors.Is(err, services.ErrQueryTooLong) {
			fail(c, http.StatusBadRequest, ErrCodeQueryTooLong, "query too long")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, HighlightResponse{Segments: segs})
}

// ListRecentSearches godoc
// @ID          listRecentSearches
// @Summary     List recent searches
// @Description Returns the caller's recent searches, most recent first. Supports weak ETag via If-None-Match.
// @Tags        Search
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.RecentSearchesResponse
// @Header      200  {string} ETag "Weak ETag for the current list"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recent-searches [get]
func (h *Handlers) ListRecentSearches(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// ETag pre-check (best effort).
	if count, seq, err := h.search.RecentSearchesVersion(ctx, uid); err == nil {
		if notModified(c, fmt.Sprintf(`W/"recent:%s:%d:%d"`, uid, count, seq)) {
			return
		}
	}

	items, err := h.search.RecentSearches(ctx, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, RecentSearchesResponse{RecentSearches: items})
}

// ClearRecentSearches godoc
// @ID          clearRecentSearches
// @Summary     Clear recent searches
// @Tags        Search
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     204  {string} string "No Content"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recent-searches [delete]
func (h *Handlers) ClearRecentSearches(c *gin.Context) {
	if err := h.search.ClearRecentSearches(c.Request.Context(), userID(c)); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// DeleteRecentSearch godoc
// @ID          deleteRecentSearch
// @Summary     Remove a recent search
// @Tags        Search
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       query      path    string  true  "Query to remove"
//
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Not in the list"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recent-searches/{query} [delete]
func (h *Handlers) DeleteRecentSearch(c *gin.Context) {
	err := h.search.DeleteRecentSearch(c.Request.Context(), userID(c), c.Param("query"))
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrRecentSearchNotFound):
		fail(c, http.StatusNotFound, ErrCodeRecentSearchNotFound, "recent search not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
