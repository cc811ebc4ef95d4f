// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// IndexType selects how a signature component renders element ordinals.
type IndexType string

const (
	IndexDec       IndexType = "dec"
	IndexRoman     IndexType = "roman"
	IndexSmallChar IndexType = "small_char"
	IndexCapChar   IndexType = "capital_char"
)

// SignatureKind distinguishes the two signature hierarchies a document
// can be filed under.
type SignatureKind string

const (
	KindDescriptive SignatureKind = "descriptive"
	KindTopographic SignatureKind = "topographic"
)

// SignatureComponent is one level of the signature hierarchy, e.g. a fonds,
// series, or shelf run. Elements belong to exactly one component.
type SignatureComponent struct {
	// ID is the database identifier.
	ID int64 `json:"signatureComponentId" yaml:"signatureComponentId"`

	// Name is the unique component name.
	Name string `json:"name" yaml:"name"`

	// Description explains the component's role in the hierarchy.
	Description string `json:"description" yaml:"description"`

	// IndexType selects the ordinal rendering for this component's elements:
	// dec, roman, small_char, or capital_char.
	IndexType IndexType `json:"indexType" yaml:"indexType"`

	CreatedOn  time.Time `json:"createdOn" yaml:"createdOn"`
	ModifiedOn time.Time `json:"modifiedOn" yaml:"modifiedOn"`
}

// SignatureElement is one node of a signature hierarchy. Elements form a
// directed acyclic graph through parent links across components.
type SignatureElement struct {
	// ID is the database identifier. Signature paths are ordered sequences
	// of element IDs.
	ID int64 `json:"signatureElementId" yaml:"signatureElementId"`

	// SignatureComponentID is the owning component.
	SignatureComponentID int64 `json:"signatureComponentId" yaml:"signatureComponentId"`

	// Name is the element's display name.
	Name string `json:"name" yaml:"name"`

	// Description is free-form explanatory text.
	Description string `json:"description" yaml:"description"`

	// Index is the rendered ordinal (via the component's IndexType) or a
	// manual override. Reindexing recomputes it from creation order.
	Index string `json:"index" yaml:"index"`

	// ParentIDs lists the element's parents in the signature graph. Links
	// are cycle-checked; an element is never its own ancestor.
	ParentIDs []int64 `json:"parentIds" yaml:"parentIds"`

	CreatedOn  time.Time `json:"createdOn" yaml:"createdOn"`
	ModifiedOn time.Time `json:"modifiedOn" yaml:"modifiedOn"`
}

// ReindexResult reports the outcome of recomputing a component's element
// indices.
type ReindexResult struct {
	// Message is a human-readable summary.
	Message string `json:"message" yaml:"message"`

	// FinalCount is the number of elements carrying recomputed indices.
	FinalCount int `json:"finalCount" yaml:"finalCount"`
}
