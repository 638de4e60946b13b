package domain

import (
	"math"
	"net/url"
	"strconv"
)

// SortOrder is the requested price ordering
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// sortField is the only field the catalog can order by
const sortField = "price"

// MaxPage is the highest page a FilterState can address. Decoding treats
// anything above it as malformed.
const MaxPage = 1_000_000

// ParseSortOrder maps a raw value onto a SortOrder. Unknown values are rejected.
func ParseSortOrder(raw string) (SortOrder, bool) {
	switch SortOrder(raw) {
	case SortNone, SortAsc, SortDesc:
		return SortOrder(raw), true
	default:
		return SortNone, false
	}
}

// FilterState is a visitor's current search, category, sort and page selection.
// Empty strings mean "unset".
type FilterState struct {
	SearchQuery string    `json:"search"`
	Category    string    `json:"category"`
	Sort        SortOrder `json:"sort"`
	Page        int       `json:"page"`
}

// DefaultFilter returns the all-unset filter on the first page
func DefaultFilter() FilterState {
	return FilterState{Page: 1}
}

// Normalized returns a copy with the page clamped to [1, MaxPage] and unknown
// sort orders cleared
func (f FilterState) Normalized() FilterState {
	f.Page = min(max(f.Page, 1), MaxPage)
	if _, ok := ParseSortOrder(string(f.Sort)); !ok {
		f.Sort = SortNone
	}
	return f
}

// IsDefault reports whether every field holds its unset value
func (f FilterState) IsDefault() bool {
	return f.Normalized() == DefaultFilter()
}

// ProductQuery builds the catalog request descriptor for this filter
func (f FilterState) ProductQuery(pageSize int) ProductQuery {
	f = f.Normalized()
	q := ProductQuery{
		Skip:     skipFor(f.Page, pageSize),
		Limit:    pageSize,
		Search:   f.SearchQuery,
		Category: f.Category,
	}
	if f.Sort != SortNone {
		q.SortBy = sortField
		q.Order = f.Sort
	}
	return q
}

// skipFor is (page-1)*pageSize, saturating instead of overflowing
func skipFor(page, pageSize int) int {
	if pageSize <= 0 || page <= 1 {
		return 0
	}
	return min(page-1, math.MaxInt/pageSize) * pageSize
}

// ProductQuery describes a single list request against the catalog API
type ProductQuery struct {
	Skip     int
	Limit    int
	Search   string
	Category string
	SortBy   string
	Order    SortOrder
}

// Values renders the query as URL parameters, omitting unset optional fields
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(q.Skip))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
		v.Set("order", string(q.Order))
	}
	return v
}
