package api

import (
	"net/http"
	"strconv"
)

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

// PaginationParams holds the parsed page window of a list request.
type PaginationParams struct {
	Page    int
	PerPage int
}

// ParsePagination reads page and per_page from the query string. Missing or
// invalid values fall back to page=1, per_page=25; per_page is capped at 100.
func ParsePagination(r *http.Request) PaginationParams {
	return PaginationParams{
		Page:    queryInt(r, "page", 1, 0),
		PerPage: queryInt(r, "per_page", defaultPerPage, maxPerPage),
	}
}

// queryInt parses a positive integer query parameter, falling back to def.
// A non-zero limit bounds the result from above.
func queryInt(r *http.Request, key string, def, limit int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// Offset returns the row offset of the current page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// TotalPages returns how many pages the given total row count spans.
func (p PaginationParams) TotalPages(total int64) int {
	if p.PerPage <= 0 {
		return 0
	}
	pages := int(total) / p.PerPage
	if int(total)%p.PerPage > 0 {
		pages++
	}
	return pages
}
