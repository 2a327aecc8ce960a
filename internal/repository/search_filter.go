package repository

import (
	"github.com/shopspring/decimal"

	"findhouse/internal/model"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// SearchFilter carries the optional listing search predicates. Missing
// predicates are omitted from the query entirely rather than treated as
// wildcards.
type SearchFilter struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Location string
	Keyword  string
	Status   model.PostStatus
	Page     int
	Limit    int
}

// Normalize fills in paging defaults and the approved-only status default so
// an unauthenticated search never surfaces unmoderated listings.
func (f *SearchFilter) Normalize() {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Status == "" {
		f.Status = model.PostStatusApproved
	}
}

// Offset converts 1-based paging into a row offset.
func (f *SearchFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
