// Reader HTTP handlers.
//
// This file exposes read-only corpus endpoints:
//   - GET /chapters                         (list, ETag from corpus checksum)
//   - GET /chapters/{number}                (one chapter with prev/next)
//   - GET /chapters/{number}/verses/{verse} (one verse)
//   - GET /pages/{page}                     (verses on a print page)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mushaf-backend/internal/corpus"
	"github.com/tbourn/go-mushaf-backend/internal/services"
)

// ListChaptersResponse wraps the chapter summaries.
type ListChaptersResponse struct {
	Chapters []services.ChapterSummary `json:"chapters"`
}

// PageResponse lists the verses printed on one page.
type PageResponse struct {
	Page   int            `json:"page"`
	Verses []corpus.Verse `json:"verses"`
}

// pathInt parses a positive integer path parameter, failing the request with
// 400 when it is malformed.
func pathInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 1 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return n, true
}

// readerFail maps reader service errors to HTTP responses.
func readerFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChapterNotFound):
		fail(c, http.StatusNotFound, ErrCodeChapterNotFound, "chapter not found")
	case errors.Is(err, services.ErrVerseNotFound):
		fail(c, http.StatusNotFound, ErrCodeVerseNotFound, "verse not found")
	case errors.Is(err, services.ErrPageNotFound):
		fail(c, http.StatusNotFound, ErrCodePageNotFound, "page not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// ListChapters godoc
// @ID          listChapters
// @Summary     List chapters
// @Description Returns every chapter with its names, verse count and first page. Display names follow Accept-Language (or ?lang). Supports weak ETag via If-None-Match.
// @Tags        Reader
// @Produce     json
//
// @Param       Accept-Language  header  string  false "Preferred languages"         example(ar)
// @Param       lang             query   string  false "Overrides Accept-Language"   example(en)
// @Param       If-None-Match    header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListChaptersResponse
// @Header      200  {string} ETag "Weak ETag for the loaded corpus"
// @Success     304  {string} string "Not Modified"
// @Router      /chapters [get]
func (h *Handlers) ListChapters(c *gin.Context) {
	prefs := languagePrefs(c)
	c.Header("Vary", "Accept-Language")
	if notModified(c, fmt.Sprintf(`W/"chapters:%s:%s"`, h.reader.Checksum(), langKey(prefs))) {
		return
	}
	ok(c, http.StatusOK, ListChaptersResponse{Chapters: h.reader.Chapters(c.Request.Context(), prefs...)})
}

// GetChapter godoc
// @ID          getChapter
// @Summary     Get a chapter
// @Description Returns one chapter with its verses in order and the neighbouring chapter numbers.
// @Tags        Reader
// @Produce     json
//
// @Param       number  path  int  true  "Chapter number"  minimum(1) maximum(114)
//
// @Success     200  {object} services.ChapterView
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chapter not found"
// @Router      /chapters/{number} [get]
func (h *Handlers) GetChapter(c *gin.Context) {
	n, valid := pathInt(c, "number")
	if !valid {
		return
	}
	prefs := languagePrefs(c)
	ch, err := h.reader.Chapter(c.Request.Context(), n, prefs...)
	if err != nil {
		readerFail(c, err)
		return
	}
	c.Header("Vary", "Accept-Language")
	if notModified(c, fmt.Sprintf(`W/"chapter:%s:%d:%s"`, h.reader.Checksum(), n, langKey(prefs))) {
		return
	}
	ok(c, http.StatusOK, ch)
}

// GetVerse godoc
// @ID          getVerse
// @Summary     Get a verse
// @Tags        Reader
// @Produce     json
//
// @Param       number  path  int  true  "Chapter number"  minimum(1) maximum(114)
// @Param       verse   path  int  true  "Verse number"    minimum(1)
//
// @Success     200  {object} corpus.Verse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chapter or verse not found"
// @Router      /chapters/{number}/verses/{verse} [get]
func (h *Handlers) GetVerse(c *gin.Context) {
	n, valid := pathInt(c, "number")
	if !valid {
		return
	}
	v, valid := pathInt(c, "verse")
	if !valid {
		return
	}
	verse, err := h.reader.Verse(c.Request.Context(), n, v)
	if err != nil {
		readerFail(c, err)
		return
	}
	ok(c, http.StatusOK, verse)
}

// GetPage godoc
// @ID          getPage
// @Summary     Get a print page
// @Description Returns the verses printed on the given page, in reading order.
// @Tags        Reader
// @Produce     json
//
// @Param       page  path  int  true  "Page number"  minimum(1)
//
// @Success     200  {object} handlers.PageResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Page not found"
// @Router      /pages/{page} [get]
func (h *Handlers) GetPage(c *gin.Context) {
	p, valid := pathInt(c, "page")
	if !valid {
		return
	}
	verses, err := h.reader.Page(c.Request.Context(), p)
	if err != nil {
		readerFail(c, err)
		return
	}
	ok(c, http.StatusOK, PageResponse{Page: p, Verses: verses})
}
