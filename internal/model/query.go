package model

import (
	"net/url"
	"strconv"
	"strings"
)

// ListQuery describes one page-load against a collection endpoint: the page
// number, the page size and the active filter map. Filters only ever hold
// keys whose values are non-empty.
type ListQuery struct {
	Page     int
	PageSize int
	Filters  map[string]string
}

func NewListQuery(pageSize int) ListQuery {
	if pageSize < 1 {
		pageSize = 20
	}
	return ListQuery{Page: 1, PageSize: pageSize, Filters: map[string]string{}}
}

// WithFilters returns a copy of the query with the filter map replaced and
// the page reset to 1. Empty values are dropped rather than stored.
func (q ListQuery) WithFilters(filters map[string]string) ListQuery {
	next := ListQuery{Page: 1, PageSize: q.PageSize, Filters: map[string]string{}}
	for key, value := range filters {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		next.Filters[key] = value
	}
	return next
}

// WithPage returns a copy of the query positioned at page n. Pages below 1
// are clamped to 1; upper-bound validation happens against a known total.
func (q ListQuery) WithPage(n int) ListQuery {
	if n < 1 {
		n = 1
	}
	filters := make(map[string]string, len(q.Filters))
	for key, value := range q.Filters {
		filters[key] = value
	}
	return ListQuery{Page: n, PageSize: q.PageSize, Filters: filters}
}

// Values encodes the query as request parameters for a collection endpoint.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("page_size", strconv.Itoa(q.PageSize))
	for key, value := range q.Filters {
		if strings.TrimSpace(value) == "" {
			continue
		}
		values.Set(key, value)
	}
	return values
}

// Page is one page of a collection as returned by the backend, consumed
// immediately for rendering and never retained.
type Page[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
}

// TotalPages derives the page count, never below 1 so an empty collection
// still renders a single-page pagination control.
func (p Page[T]) TotalPages() int {
	if p.PageSize < 1 {
		return 1
	}
	pages := (p.Total + p.PageSize - 1) / p.PageSize
	if pages < 1 {
		return 1
	}
	return pages
}
