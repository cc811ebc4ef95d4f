// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the archive-engine
// stores, the search pipeline, and the CLI surface.
package types

// SearchCondition identifies the filter operator of a query element.
type SearchCondition string

const (
	ConditionEq               SearchCondition = "EQ"
	ConditionGt               SearchCondition = "GT"
	ConditionGte              SearchCondition = "GTE"
	ConditionLt               SearchCondition = "LT"
	ConditionLte              SearchCondition = "LTE"
	ConditionAnyOf            SearchCondition = "ANY_OF"
	ConditionFragment         SearchCondition = "FRAGMENT"
	ConditionStartsWith       SearchCondition = "STARTS_WITH"
	ConditionContainsSequence SearchCondition = "CONTAINS_SEQUENCE"
)

// SortDirection orders a sort field ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SearchQueryElement is one declarative filter condition. Elements of a
// query are combined with AND; Not inverts the whole condition.
type SearchQueryElement struct {
	// Field is the record field the condition applies to. It is either a
	// plain column-mapped field or a custom field with a registered handler.
	Field string `json:"field" yaml:"field"`

	// Condition selects the operator. The accepted Value shape depends on it:
	// EQ takes a primitive, null, or a signature path (an array of positive
	// integers); GT/GTE/LT/LTE take a non-null primitive; ANY_OF takes an
	// array of primitives or an array of integer arrays; FRAGMENT takes a
	// non-empty string; STARTS_WITH and CONTAINS_SEQUENCE take a non-empty
	// array of positive integers.
	Condition SearchCondition `json:"condition" yaml:"condition"`

	// Value is the comparison operand, shaped per Condition.
	Value any `json:"value" yaml:"value"`

	// Not inverts the truth value of the whole condition, including the
	// "matches nothing" short-circuit of an empty ANY_OF array.
	Not bool `json:"not,omitempty" yaml:"not,omitempty"`
}

// SortElement orders results by one field.
type SortElement struct {
	Field     string        `json:"field" yaml:"field"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// AllPages is the PageSize value that returns every match as one page.
const AllPages = -1

// SearchRequest is a paged, sorted, declarative search over one record type.
type SearchRequest struct {
	// Query lists the filter conditions, combined with AND. An empty query
	// matches every record.
	Query []SearchQueryElement `json:"query" yaml:"query"`

	// Page is the 1-based page number.
	Page int `json:"page" yaml:"page"`

	// PageSize is the number of records per page, or AllPages (-1) for all.
	PageSize int `json:"pageSize" yaml:"pageSize"`

	// Sort orders the results. Fields must be sortable columns of the record
	// type; a stable primary-key tiebreak is always appended.
	Sort []SortElement `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// SearchResponse wraps one page of results with pagination totals.
type SearchResponse[T any] struct {
	// Data holds the records of the requested page. Empty when the page lies
	// beyond the last page.
	Data []T `json:"data" yaml:"data"`

	// Page echoes the requested 1-based page number.
	Page int `json:"page" yaml:"page"`

	// TotalSize is the number of records matching the query across all pages.
	TotalSize int64 `json:"totalSize" yaml:"totalSize"`

	// TotalPages is ceil(TotalSize/PageSize), at least 1. It is 1 when the
	// request asked for AllPages.
	TotalPages int `json:"totalPages" yaml:"totalPages"`
}
