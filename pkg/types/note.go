// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Note is a free-form research note, optionally shared between users.
type Note struct {
	// ID is the database identifier.
	ID int64 `json:"noteId" yaml:"noteId"`

	// Title is the note title.
	Title string `json:"title" yaml:"title"`

	// Content is the note body.
	Content string `json:"content" yaml:"content"`

	// Shared notes are visible to every user; unshared notes only to
	// their owner. Visibility is enforced by the caller.
	Shared bool `json:"shared" yaml:"shared"`

	// OwnerLogin is an opaque caller identifier; identity resolution
	// happens outside the store.
	OwnerLogin string `json:"ownerLogin" yaml:"ownerLogin"`

	// TagIDs lists the note's tags. Updates replace the whole set.
	TagIDs []int64 `json:"tagIds" yaml:"tagIds"`

	CreatedOn  time.Time `json:"createdOn" yaml:"createdOn"`
	ModifiedOn time.Time `json:"modifiedOn" yaml:"modifiedOn"`
}
