// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signature

import (
	"context"
	"database/sql"

	"github.com/pdiddy/archive-engine/internal/search"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// ElementMeta maps signature elements onto their table for search.
func ElementMeta() search.Meta {
	return search.Meta{
		Entity:   "signatureElement",
		Table:    "signature_elements",
		Alias:    "e",
		IDColumn: "id",
		Select:   "e.id, e.signature_component_id, e.name, e.description, e.idx, e.created_on, e.modified_on",
		Columns: map[string]string{
			"signatureElementId":   "id",
			"signatureComponentId": "signature_component_id",
			"name":                 "name",
			"description":          "description",
			"index":                "idx",
			"createdOn":            "created_on",
			"modifiedOn":           "modified_on",
		},
		DefaultSort: []types.SortElement{{Field: "name", Direction: types.SortAsc}},
	}
}

// RegisterSearchHandlers installs the element field handlers on reg:
// parentIds matches against the parent link table and hasParents tests
// for any link at all.
func RegisterSearchHandlers(reg *search.Registry) {
	meta := ElementMeta()
	reg.Register(meta.Entity, "parentIds",
		search.MembershipFilter("signature_element_parents", "element_id", "parent_id"))
	reg.Register(meta.Entity, "hasParents",
		search.ExistenceFilter("signature_element_parents", "element_id"))
}

// SearchElements runs a declarative query over signature elements and
// returns one page with parent IDs attached.
func (s *Store) SearchElements(ctx context.Context, req types.SearchRequest) (*types.SearchResponse[types.SignatureElement], error) {
	resp, err := search.Run(ctx, s.db, req, ElementMeta(), s.search, scanElementSearch)
	if err != nil {
		return nil, err
	}
	if err := s.attachParents(ctx, resp.Data); err != nil {
		return nil, err
	}
	return resp, nil
}

func scanElementSearch(rows *sql.Rows) (types.SignatureElement, error) {
	elem, err := scanElementRow(rows)
	if err != nil {
		return types.SignatureElement{}, err
	}
	return *elem, nil
}
