package domain

import (
	"math"
	"strings"
)

type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// ParseSortDirection treats a case-insensitive "desc" as descending and anything else as
// ascending.
func ParseSortDirection(direction string) SortDirection {
	if strings.EqualFold(direction, "desc") {
		return SortDescending
	}

	return SortAscending
}

type PageRequest struct {
	PageNumber int
	PageSize   int
	SortBy     string
	Direction  SortDirection
}

func (p PageRequest) Sorted() bool {
	return p.SortBy != ""
}

func (p PageRequest) Limit() int {
	return p.PageSize
}

func (p PageRequest) Offset() int {
	return p.PageNumber * p.PageSize
}

// Valid reports whether the page is addressable, including that its offset fits in an int.
func (p PageRequest) Valid() bool {
	return p.PageNumber >= 0 && p.PageSize > 0 && p.PageNumber <= math.MaxInt/p.PageSize
}
