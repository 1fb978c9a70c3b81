package store

import (
	"fmt"
	"time"
)

// SortField selects the item attribute search results are ordered by.
type SortField string

// Sortable item fields.
const (
	SortByUpdatedAt  SortField = "updatedAt"
	SortByCreatedAt  SortField = "createdAt"
	SortByUsageCount SortField = "usageCount"
	SortByName       SortField = "name"
	SortBySize       SortField = "size"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// SearchFilters describes a filtered, sorted, paginated item query.
// All filters are optional and combined with AND; the zero value matches
// every item. Within TagIDs an item needs at least one of the listed tags;
// within ExcludeTagIDs carrying any listed tag removes the item.
//
// Numeric and date bounds are inclusive; a nil bound imposes no constraint
// on that side. Date bounds compare against CreatedAt.
type SearchFilters struct {
	// Keyword matches case-insensitively as a substring of the file name or
	// of any associated tag name; either is sufficient.
	Keyword string

	CategoryID    string
	TagIDs        []string
	ExcludeTagIDs []string
	Format        string

	MinSize   *int64
	MaxSize   *int64
	MinWidth  *int
	MaxWidth  *int
	MinHeight *int
	MaxHeight *int

	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	IsFavorite      *bool
	HasTransparency *bool
	IsAnimated      *bool

	// SortBy defaults to SortByUpdatedAt, SortOrder to SortDesc. Results with
	// equal sort keys are tie-broken by id ascending, so ordering is
	// deterministic across calls.
	SortBy    SortField
	SortOrder SortOrder

	// Limit caps the result count; zero means unbounded. Offset skips that
	// many results after sorting.
	Limit  int
	Offset int
}

// Validate checks the filter combination and returns ErrInvalidInput for
// unknown sort fields, unknown sort orders, inverted ranges, or negative
// limit/offset.
func (f *SearchFilters) Validate() error {
	switch f.SortBy {
	case "", SortByUpdatedAt, SortByCreatedAt, SortByUsageCount, SortByName, SortBySize:
	default:
		return ErrInvalidInput.WithMessage(fmt.Sprintf("unknown sort field %q", f.SortBy))
	}

	switch f.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		return ErrInvalidInput.WithMessage(fmt.Sprintf("unknown sort order %q", f.SortOrder))
	}

	if f.Limit < 0 {
		return ErrInvalidInput.WithMessage("limit must not be negative")
	}
	if f.Offset < 0 {
		return ErrInvalidInput.WithMessage("offset must not be negative")
	}

	if f.MinSize != nil && f.MaxSize != nil && *f.MinSize > *f.MaxSize {
		return ErrInvalidInput.WithMessage("size range is inverted")
	}
	if f.MinWidth != nil && f.MaxWidth != nil && *f.MinWidth > *f.MaxWidth {
		return ErrInvalidInput.WithMessage("width range is inverted")
	}
	if f.MinHeight != nil && f.MaxHeight != nil && *f.MinHeight > *f.MaxHeight {
		return ErrInvalidInput.WithMessage("height range is inverted")
	}
	if f.CreatedAfter != nil && f.CreatedBefore != nil && f.CreatedAfter.After(*f.CreatedBefore) {
		return ErrInvalidInput.WithMessage("date range is inverted")
	}

	return nil
}
