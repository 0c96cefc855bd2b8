package models

import (
	"errors"
	"strings"
)

// SortKey determines the ordering of catalog search results
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "priceAsc"
	SortPriceDesc SortKey = "priceDesc"
)

// DefaultPageSize is the number of cars per page when no limit is given
const DefaultPageSize = 6

// SearchFilter represents a catalog search request. It is built per request
// and never persisted.
type SearchFilter struct {
	Search       string   `form:"search" json:"search"`
	Make         string   `form:"make" json:"make"`
	BodyType     string   `form:"body_type" json:"body_type"`
	FuelType     string   `form:"fuel_type" json:"fuel_type"`
	Transmission string   `form:"transmission" json:"transmission"`
	MinPrice     float64  `form:"min_price" json:"min_price"`
	MaxPrice     *float64 `form:"max_price" json:"max_price,omitempty"`
	SortBy       SortKey  `form:"sort_by" json:"sort_by"`
	Page         int      `form:"page" json:"page"`
	Limit        int      `form:"limit" json:"limit"`
}

// Normalize fills in defaults for fields the caller left unset
func (f *SearchFilter) Normalize() {
	if f.SortBy == "" {
		f.SortBy = SortNewest
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageSize
	}
	if f.MinPrice < 0 {
		f.MinPrice = 0
	}
}

// Validate validates the filter after normalization
func (f *SearchFilter) Validate() error {
	if f.Page < 1 {
		return errors.New("page must be at least 1")
	}

	if f.Limit < 1 {
		return errors.New("limit must be greater than 0")
	}

	switch f.SortBy {
	case SortNewest, SortPriceAsc, SortPriceDesc:
	default:
		return errors.New("invalid sort key")
	}

	return nil
}

// Offset returns the row offset for the requested page
func (f *SearchFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// CarPredicate is the normalized query predicate compiled from a SearchFilter.
// Empty string fields are unconstrained. Status is always enforced.
type CarPredicate struct {
	Status       CarStatus
	Search       string
	Make         string
	BodyType     string
	FuelType     string
	Transmission string
	MinPrice     float64
	MaxPrice     *float64
	FeaturedOnly bool
}

// Compile turns the filter into a normalized predicate for the car store.
// Blank facet values are treated as not provided, and public search always
// constrains status to AVAILABLE.
func (f *SearchFilter) Compile() CarPredicate {
	pred := CarPredicate{
		Status:       CarStatusAvailable,
		Search:       strings.TrimSpace(f.Search),
		Make:         strings.TrimSpace(f.Make),
		BodyType:     strings.TrimSpace(f.BodyType),
		FuelType:     strings.TrimSpace(f.FuelType),
		Transmission: strings.TrimSpace(f.Transmission),
		MinPrice:     f.MinPrice,
	}

	if f.MaxPrice != nil && *f.MaxPrice > 0 {
		maxPrice := *f.MaxPrice
		pred.MaxPrice = &maxPrice
	}

	return pred
}

// SearchResult is one page of catalog search results
type SearchResult struct {
	Cars       []Car `json:"cars"`
	TotalCount int   `json:"total_count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// SearchLog records a catalog search for analytics
type SearchLog struct {
	ID           string  `json:"id" db:"id"`
	SearchTerm   string  `json:"search_term" db:"search_term"`
	Make         string  `json:"make" db:"make"`
	BodyType     string  `json:"body_type" db:"body_type"`
	ResultsCount int     `json:"results_count" db:"results_count"`
	UserID       *string `json:"user_id,omitempty" db:"user_id"`
	DeviceType   string  `json:"device_type" db:"device_type"`
	IPAddress    string  `json:"ip_address" db:"ip_address"`
}
