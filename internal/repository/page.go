package repository

import "strings"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Sort names the ordering of a paginated find. Ties are always broken by id so
// page windows are deterministic for a fixed data set.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort reads "field" or "-field". An empty string sorts by id ascending.
func ParseSort(s string) Sort {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sort{Field: IDField}
	}
	if strings.HasPrefix(s, "-") {
		return Sort{Field: strings.TrimPrefix(s, "-"), Desc: true}
	}
	return Sort{Field: s}
}

// PageQuery holds 1-indexed page/limit pagination parameters.
type PageQuery struct {
	Page  int
	Limit int
	Sort  Sort
}

// Normalize applies defaults and bounds.
func (pq PageQuery) Normalize() PageQuery {
	if pq.Page <= 0 {
		pq.Page = DefaultPage
	}
	if pq.Limit <= 0 {
		pq.Limit = DefaultLimit
	}
	if pq.Limit > MaxLimit {
		pq.Limit = MaxLimit
	}
	if pq.Sort.Field == "" {
		pq.Sort.Field = IDField
	}
	return pq
}

// Offset is the number of matches skipped before the window starts.
func (pq PageQuery) Offset() int {
	return (pq.Page - 1) * pq.Limit
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
}

// TotalPages computes ceil(total / limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
