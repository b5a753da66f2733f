package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "", 1, 25},
		{"explicit values", "page=3&per_page=10", 3, 10},
		{"per_page capped", "per_page=500", 1, 100},
		{"negative page", "page=-1", 1, 25},
		{"zero per_page", "per_page=0", 1, 25},
		{"non-numeric", "page=abc&per_page=xyz", 1, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/alerts?"+tt.query, nil)
			p := ParsePagination(r)

			if p.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.PerPage != tt.wantPerPage {
				t.Errorf("per_page = %d, want %d", p.PerPage, tt.wantPerPage)
			}
		})
	}
}

func TestPaginationParams_Offset(t *testing.T) {
	p := PaginationParams{Page: 3, PerPage: 25}
	if got := p.Offset(); got != 50 {
		t.Errorf("Offset() = %d, want 50", got)
	}
	p = PaginationParams{Page: 1, PerPage: 25}
	if got := p.Offset(); got != 0 {
		t.Errorf("Offset() = %d, want 0", got)
	}
}

func TestPaginationParams_TotalPages(t *testing.T) {
	tests := []struct {
		perPage   int
		total     int64
		wantPages int
	}{
		{25, 50, 2},
		{25, 51, 3},
		{25, 0, 0},
		{25, 1, 1},
		{0, 100, 0},
	}

	for _, tt := range tests {
		p := PaginationParams{Page: 1, PerPage: tt.perPage}
		if got := p.TotalPages(tt.total); got != tt.wantPages {
			t.Errorf("TotalPages(%d) with per_page=%d = %d, want %d",
				tt.total, tt.perPage, got, tt.wantPages)
		}
	}
}
