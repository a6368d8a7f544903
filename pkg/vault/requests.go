package vault

import (
	"io"

	"github.com/google/uuid"
)

// SubmitResourceRequest carries a new submission. Exactly one of File or
// ExternalURL must be provided; when File is set, FileName and FileSize
// describe the upload.
type SubmitResourceRequest struct {
	Title       string
	Description string
	Subject     string
	Tag         ResourceTag
	UploadedBy  string

	File     io.Reader
	FileName string
	FileSize int64

	ExternalURL string
}

// UpdateResourceRequest edits mutable fields of an existing resource. Nil
// fields are left unchanged. Setting ExternalURL on a file-backed resource
// switches it to a link and discards the stored file.
type UpdateResourceRequest struct {
	ID          uuid.UUID
	Title       *string
	Description *string
	Subject     *string
	Tag         *ResourceTag
	ExternalURL *string
}

// ListResourcesRequest selects resources for an administrative listing.
type ListResourcesRequest struct {
	Approved *bool
	Subject  string
	Tag      ResourceTag
	Limit    int
	Offset   int
}
