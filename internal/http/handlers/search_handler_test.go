package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func searchRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/search", h.SearchVerses)
	r.GET("/highlight", h.HighlightText)
	r.GET("/recent-searches", h.ListRecentSearches)
	r.DELETE("/recent-searches", h.ClearRecentSearches)
	r.DELETE("/recent-searches/:query", h.DeleteRecentSearch)
	return r
}

func searchPath(q string, extra ...string) string {
	v := url.Values{}
	v.Set("q", q)
	for i := 0; i+1 < len(extra); i += 2 {
		v.Set(extra[i], extra[i+1])
	}
	return "/search?" + v.Encode()
}

func TestSearchVerses_ReadingOrderAndPagination(t *testing.T) {
	h, _ := newTestHandlers(t)
	r := searchRouter(h)
	user := map[string]string{"X-User-ID": "reader-1"}

	// "الرحمن" occurs in 1:1 and 1:2.
	w := serve(r, http.MethodGet, searchPath("الرحمن"), user)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Pagination.Total != 2 || len(resp.Results) != 2 {
		t.Fatalf("total=%d results=%d", resp.Pagination.Total, len(resp.Results))
	}
	if resp.Results[0].Verse.ID != 1 || resp.Results[1].Verse.ID != 2 {
		t.Fatalf("order: %d, %d", resp.Results[0].Verse.ID, resp.Results[1].Verse.ID)
	}
	highlighted := false
	for _, s := range resp.Results[0].Segments {
		highlighted = highlighted || s.IsHighlighted
	}
	if !highlighted {
		t.Fatalf("expected a highlighted segment in %+v", resp.Results[0].Segments)
	}

	w = serve(r, http.MethodGet, searchPath("الرحمن", "page", "2", "page_size", "1"), user)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 || resp.Results[0].Verse.ID != 2 || resp.Pagination.HasNext {
		t.Fatalf("page 2: %+v", resp)
	}
	if resp.Pagination.TotalPages != 2 {
		t.Fatalf("total_pages=%d", resp.Pagination.TotalPages)
	}
}

func TestSearchVerses_ChapterScopeAndErrors(t *testing.T) {
	h, _ := newTestHandlers(t)
	r := searchRouter(h)

	w := serve(r, http.MethodGet, searchPath("الله", "chapter", "112"), nil)
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || len(resp.Results) != 1 || resp.Results[0].Verse.ChapterNumber != 112 {
		t.Fatalf("status=%d resp=%+v", w.Code, resp)
	}

	cases := []struct {
		path string
		want int
		code string
	}{
		{searchPath("الله", "chapter", "abc"), http.StatusBadRequest, ErrCodeBadRequest},
		{searchPath("الله", "chapter", "3"), http.StatusNotFound, ErrCodeChapterNotFound},
		{searchPath(strings.Repeat("ب", 201)), http.StatusBadRequest, ErrCodeQueryTooLong},
	}
	for _, tc := range cases {
		w := serve(r, http.MethodGet, tc.path, nil)
		var e ErrorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &e)
		if w.Code != tc.want || e.Code != tc.code {
			t.Errorf("GET %s = %d/%q, want %d/%q", tc.path, w.Code, e.Code, tc.want, tc.code)
		}
	}
}

func TestSearchVerses_BlankQueryNotRecorded(t *testing.T) {
	h, _ := newTestHandlers(t)
	r := searchRouter(h)
	user := map[string]string{"X-User-ID": "blank"}

	w := serve(r, http.MethodGet, searchPath("   "), user)
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || len(resp.Results) != 0 || resp.Results == nil {
		t.Fatalf("blank query: status=%d results=%v", w.Code, resp.Results)
	}

	w = serve(r, http.MethodGet, "/recent-searches", user)
	var rs RecentSearchesResponse
	_ = json.Unmarshal(w.Body.Bytes(), &rs)
	if len(rs.RecentSearches) != 0 {
		t.Fatalf("blank query recorded: %+v", rs.RecentSearches)
	}
}

func TestHighlightText(t *testing.T) {
	h, _ := newTestHandlers(t)
	r := searchRouter(h)

	v := url.Values{}
	v.Set("text", "قُلْ هُوَ اللَّهُ أَحَدٌ")
	v.Set("q", "الله")
	w := serve(r, http.MethodGet, "/highlight?"+v.Encode(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp HighlightResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	var joined strings.Builder
	hits := 0
	for _, s := range resp.Segments {
		joined.WriteString(s.Text)
		if s.IsHighlighted {
			hits++
		}
	}
	if joined.String() != "قُلْ هُوَ اللَّهُ أَحَدٌ" || hits != 1 {
		t.Fatalf("segments=%+v", resp.Segments)
	}

	v.Set("q", strings.Repeat("x", 300))
	if w := serve(r, http.MethodGet, "/highlight?"+v.Encode(), nil); w.Code != http.StatusBadRequest {
		t.Fatalf("long highlight query status=%d", w.Code)
	}
}

func TestRecentSearches_ListETagDeleteClear(t *testing.T) {
	h, _ := newTestHandlers(t)
	r := searchRouter(h)
	user := map[string]string{"X-User-ID": "recent-1"}

	for _, q := range []string{"الله", "الرحمن", "الله"} {
		if w := serve(r, http.MethodGet, searchPath(q), user); w.Code != http.StatusOK {
			t.Fatalf("search %q status=%d", q, w.Code)
		}
	}

	w := serve(r, http.MethodGet, "/recent-searches", user)
	var rs RecentSearchesResponse
	_ = json.Unmarshal(w.Body.Bytes(), &rs)
	if len(rs.RecentSearches) != 2 || rs.RecentSearches[0].Query != "الله" || rs.RecentSearches[1].Query != "الرحمن" {
		t.Fatalf("recent=%+v", rs.RecentSearches)
	}

	etag := w.Header().Get("ETag")
	hdr := map[string]string{"X-User-ID": "recent-1", "If-None-Match": etag}
	if w := serve(r, http.MethodGet, "/recent-searches", hdr); w.Code != http.StatusNotModified {
		t.Fatalf("conditional status=%d, want 304", w.Code)
	}

	// Other users see their own list.
	w = serve(r, http.MethodGet, "/recent-searches", map[string]string{"X-User-ID": "someone-else"})
	_ = json.Unmarshal(w.Body.Bytes(), &rs)
	if len(rs.RecentSearches) != 0 {
		t.Fatalf("leaked recent searches: %+v", rs.RecentSearches)
	}

	w = serve(r, http.MethodDelete, "/recent-searches/"+url.PathEscape("الرحمن"), user)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d body=%s", w.Code, w.Body.String())
	}
	if w := serve(r, http.MethodGet, "/recent-searches", hdr); w.Code != http.StatusOK {
		t.Fatalf("ETag must change after delete, status=%d", w.Code)
	}
	w = serve(r, http.MethodDelete, "/recent-searches/"+url.PathEscape("الرحمن"), user)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d, want 404", w.Code)
	}

	if w := serve(r, http.MethodDelete, "/recent-searches", user); w.Code != http.StatusNoContent {
		t.Fatalf("clear status=%d", w.Code)
	}
	w = serve(r, http.MethodGet, "/recent-searches", user)
	_ = json.Unmarshal(w.Body.Bytes(), &rs)
	if len(rs.RecentSearches) != 0 {
		t.Fatalf("after clear: %+v", rs.RecentSearches)
	}
}
