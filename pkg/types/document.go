// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ArchiveDocumentType distinguishes container units from the documents
// filed inside them.
type ArchiveDocumentType string

const (
	DocTypeUnit     ArchiveDocumentType = "unit"
	DocTypeDocument ArchiveDocumentType = "document"
)

// ArchiveDocument is an archival record: either a unit (a container such
// as a folder or box) or a document belonging to at most one unit.
type ArchiveDocument struct {
	// ID is the database identifier.
	ID int64 `json:"archiveDocumentId" yaml:"archiveDocumentId"`

	// DocType is unit or document.
	DocType ArchiveDocumentType `json:"docType" yaml:"docType"`

	// ParentUnitArchiveDocumentID links a document to its containing unit.
	// Nil for top-level records.
	ParentUnitArchiveDocumentID *int64 `json:"parentUnitArchiveDocumentId" yaml:"parentUnitArchiveDocumentId"`

	// Title is the record title as catalogued.
	Title string `json:"title" yaml:"title"`

	// Creator names the person or body that produced the material.
	Creator string `json:"creator" yaml:"creator"`

	// CreationDate is the archival date statement, kept free-form
	// (e.g. "1823", "ca. 1850-1860").
	CreationDate string `json:"creationDate" yaml:"creationDate"`

	// NumberOfPages counts leaves or pages where known; zero when unknown.
	NumberOfPages int `json:"numberOfPages" yaml:"numberOfPages"`

	// Descriptive cataloguing fields, all free-form.
	DocumentType              string `json:"documentType" yaml:"documentType"`
	Dimensions                string `json:"dimensions" yaml:"dimensions"`
	Binding                   string `json:"binding" yaml:"binding"`
	Condition                 string `json:"condition" yaml:"condition"`
	DocumentLanguage          string `json:"documentLanguage" yaml:"documentLanguage"`
	ContentDescription        string `json:"contentDescription" yaml:"contentDescription"`
	Remarks                   string `json:"remarks" yaml:"remarks"`
	AccessLevel               string `json:"accessLevel" yaml:"accessLevel"`
	AccessConditions          string `json:"accessConditions" yaml:"accessConditions"`
	AdditionalInformation     string `json:"additionalInformation" yaml:"additionalInformation"`
	RelatedDocumentsReferences string `json:"relatedDocumentsReferences" yaml:"relatedDocumentsReferences"`

	// IsDigitized records whether a digital copy exists; DigitizedVersionLink
	// points at it when set.
	IsDigitized          bool   `json:"isDigitized" yaml:"isDigitized"`
	DigitizedVersionLink string `json:"digitizedVersionLink" yaml:"digitizedVersionLink"`

	// TagIDs lists the record's tags. Updates replace the whole set.
	TagIDs []int64 `json:"tagIds" yaml:"tagIds"`

	// TopographicSignatures and DescriptiveSignatures are the record's
	// signature paths: ordered sequences of signature element IDs. Updates
	// replace the whole set per kind.
	TopographicSignatures [][]int64 `json:"topographicSignatures" yaml:"topographicSignatures"`
	DescriptiveSignatures [][]int64 `json:"descriptiveSignatures" yaml:"descriptiveSignatures"`

	// CreatedBy and UpdatedBy are opaque caller identifiers; identity
	// resolution happens outside the store.
	CreatedBy string `json:"createdBy" yaml:"createdBy"`
	UpdatedBy string `json:"updatedBy" yaml:"updatedBy"`

	CreatedOn  time.Time `json:"createdOn" yaml:"createdOn"`
	ModifiedOn time.Time `json:"modifiedOn" yaml:"modifiedOn"`

	// Active is false for disabled records. Disabling is the delete
	// operation; rows are never removed.
	Active bool `json:"active" yaml:"active"`
}
