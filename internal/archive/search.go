// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"

	"github.com/pdiddy/archive-engine/internal/search"
	"github.com/pdiddy/archive-engine/internal/signature"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// DocumentMeta maps archive documents onto their table for search.
func DocumentMeta() search.Meta {
	return search.Meta{
		Entity:   "archiveDocument",
		Table:    "archive_documents",
		Alias:    "d",
		IDColumn: "id",
		Select:   documentColumns("d"),
		Columns: map[string]string{
			"archiveDocumentId":           "id",
			"docType":                     "doc_type",
			"parentUnitArchiveDocumentId": "parent_unit_archive_document_id",
			"title":                       "title",
			"creator":                     "creator",
			"creationDate":                "creation_date",
			"numberOfPages":               "number_of_pages",
			"documentType":                "document_type",
			"dimensions":                  "dimensions",
			"binding":                     "binding",
			"condition":                   "condition",
			"documentLanguage":            "document_language",
			"contentDescription":          "content_description",
			"remarks":                     "remarks",
			"accessLevel":                 "access_level",
			"accessConditions":            "access_conditions",
			"additionalInformation":       "additional_information",
			"relatedDocumentsReferences":  "related_documents_references",
			"isDigitized":                 "is_digitized",
			"digitizedVersionLink":        "digitized_version_link",
			"createdBy":                   "created_by",
			"updatedBy":                   "updated_by",
			"createdOn":                   "created_on",
			"modifiedOn":                  "modified_on",
			"active":                      "active",
		},
		DefaultSort: []types.SortElement{{Field: "title", Direction: types.SortAsc}},
	}
}

// RegisterSearchHandlers installs the document field handlers on reg:
// tags matches the tag link table, and the two signature fields match
// stored signature paths of their kind.
func RegisterSearchHandlers(reg *search.Registry) {
	meta := DocumentMeta()
	reg.Register(meta.Entity, "tags",
		search.MembershipFilter("archive_document_tags", "document_id", "tag_id"))
	reg.Register(meta.Entity, "descriptiveSignaturePrefix",
		signature.PathFilter(types.KindDescriptive))
	reg.Register(meta.Entity, "topographicSignaturePrefix",
		signature.PathFilter(types.KindTopographic))
}

// Search runs a declarative query over archive documents and returns
// one page with tags and signature paths attached. Disabled records are
// not filtered implicitly; query on active to exclude them.
func (s *Store) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse[types.ArchiveDocument], error) {
	resp, err := search.Run(ctx, s.db, req, DocumentMeta(), s.search, scanDocumentSearch)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, resp.Data); err != nil {
		return nil, err
	}
	return resp, nil
}

func scanDocumentSearch(rows *sql.Rows) (types.ArchiveDocument, error) {
	doc, err := scanDocument(rows)
	if err != nil {
		return types.ArchiveDocument{}, err
	}
	return *doc, nil
}
