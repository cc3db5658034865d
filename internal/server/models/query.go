package models

import (
	"math"
	"strings"
)

// Sort fields accepted by ListQuery.SortBy. Names follow the JSON field
// names clients already use.
const (
	SortByName          = "name"
	SortByEmail         = "email"
	SortByPhone         = "phone"
	SortByCategory      = "category"
	SortByIsFavorite    = "isFavorite"
	SortByLastContacted = "lastContacted"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var sortFields = map[string]struct{}{
	SortByName: {}, SortByEmail: {}, SortByPhone: {},
	SortByCategory: {}, SortByIsFavorite: {}, SortByLastContacted: {},
}

// ListQuery describes one page of a user's contacts.
type ListQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Search    string
}

// Normalize fills defaults: page 1, limit 10 (capped at MaxLimit), sort by
// name ascending. Unknown sort fields fall back to name and unknown orders to
// ascending. The search term is trimmed.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if _, ok := sortFields[q.SortBy]; !ok {
		q.SortBy = SortByName
	}
	if strings.ToLower(q.SortOrder) == SortDesc {
		q.SortOrder = SortDesc
	} else {
		q.SortOrder = SortAsc
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Offset is the number of rows skipped before this page. It saturates at
// math.MaxInt instead of overflowing, so huge pages are simply empty.
func (q ListQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// ContactPage is one page of contacts plus the total matching count.
// Page and Limit echo the normalized query.
type ContactPage struct {
	Items []*Contact
	Total int
	Page  int
	Limit int
}
