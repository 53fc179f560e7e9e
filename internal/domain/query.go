package domain

import (
	"fmt"
	"strings"
)

// FilterMode narrows the visible catalog.
type FilterMode string

const (
	// FilterAll keeps every video that matches the search text
	FilterAll FilterMode = "all"

	// FilterRecent keeps videos published within the trailing 30 days
	FilterRecent FilterMode = "recent"

	// FilterPopular keeps videos with more than PopularViewThreshold views
	FilterPopular FilterMode = "popular"
)

// SortMode orders the visible catalog.
type SortMode string

const (
	// SortTitle orders by title, ascending, using locale collation
	SortTitle SortMode = "title"

	// SortDate orders by publication date, newest first
	SortDate SortMode = "date"

	// SortRating orders by rating, highest first
	SortRating SortMode = "rating"
)

const (
	// RecentWindowDays is the width of the "recent" filter window.
	RecentWindowDays = 30

	// PopularViewThreshold is the exclusive lower bound for "popular".
	PopularViewThreshold = 2000
)

// QueryState is the user's current search, filter and sort selection.
type QueryState struct {
	SearchText string
	Filter     FilterMode
	Sort       SortMode
}

// DefaultQueryState matches everything, sorted by title.
func DefaultQueryState() QueryState {
	return QueryState{Filter: FilterAll, Sort: SortTitle}
}

// ParseFilterMode converts user input into a FilterMode. Empty input means FilterAll.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterRecent:
		return FilterRecent, nil
	case FilterPopular:
		return FilterPopular, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
}

// ParseSortMode converts user input into a SortMode. Empty input means SortTitle.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortTitle:
		return SortTitle, nil
	case SortDate:
		return SortDate, nil
	case SortRating:
		return SortRating, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
}
