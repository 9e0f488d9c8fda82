// Package utils holds small helpers shared by handlers and services.
package utils

import (
	"strconv"
	"strings"
)

// Page size bounds for paged search results.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page window over an ordered result list.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number to at least 1 and size to 1..MaxPageSize, with
// DefaultPageSize for a non-positive size.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// ParsePage reads page and page_size query values. Missing or malformed
// values take the defaults rather than failing the request.
func ParsePage(number, size string) Page {
	return NewPage(atoiOr(number, 1), atoiOr(size, DefaultPageSize))
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// Bounds returns the slice indexes of the page within n items. A page past
// the end yields start == end == n.
func (p Page) Bounds(n int) (start, end int) {
	start = (p.Number - 1) * p.Size
	if start > n || start < 0 {
		return n, n
	}
	end = start + p.Size
	if end > n {
		end = n
	}
	return start, end
}

// TotalPages is how many pages of p.Size hold total items.
func (p Page) TotalPages(total int64) int {
	if p.Size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// HasNext reports whether a page follows p.
func (p Page) HasNext(total int64) bool { return p.Number < p.TotalPages(total) }
