package feedapi

import (
	"net/url"
	"strconv"
	"strings"
)

// FilterValue is one active filter selection.
type FilterValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Query holds the listing parameters sent with a videos request.
type Query struct {
	Page    int           `json:"page"`
	Filters []FilterValue `json:"filters,omitempty"`
	Sort    string        `json:"sort,omitempty"`
	Search  string        `json:"search,omitempty"`
}

// Encode renders the query string in a stable order: page, search, one
// filter=<id>:<value> per filter in selection order, then sort.
func (q Query) Encode() string {
	page := q.Page
	if page < 1 {
		page = 1
	}
	parts := []string{"page=" + strconv.Itoa(page)}
	if q.Search != "" {
		parts = append(parts, "search="+url.QueryEscape(q.Search))
	}
	for _, filter := range q.Filters {
		parts = append(parts, "filter="+url.QueryEscape(filter.ID)+":"+url.QueryEscape(filter.Value))
	}
	if q.Sort != "" {
		parts = append(parts, "sort="+url.QueryEscape(q.Sort))
	}
	return strings.Join(parts, "&")
}
