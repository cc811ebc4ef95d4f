// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Tag is a reusable label attached to archive documents and notes.
type Tag struct {
	// ID is the database identifier.
	ID int64 `json:"tagId" yaml:"tagId"`

	// Name is the unique tag name.
	Name string `json:"name" yaml:"name"`

	// Description explains what the tag marks.
	Description string `json:"description" yaml:"description"`

	CreatedOn  time.Time `json:"createdOn" yaml:"createdOn"`
	ModifiedOn time.Time `json:"modifiedOn" yaml:"modifiedOn"`
}
