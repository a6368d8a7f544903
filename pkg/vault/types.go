package vault

import (
	"time"

	"github.com/google/uuid"
)

// ResourceTag categorizes a resource. Only two categories exist.
type ResourceTag string

const (
	TagNotes ResourceTag = "notes"
	TagBooks ResourceTag = "books"
)

// IsValid reports whether the tag is one of the known categories.
func (t ResourceTag) IsValid() bool {
	switch t {
	case TagNotes, TagBooks:
		return true
	}
	return false
}

// SourceType distinguishes uploaded files from external links.
type SourceType string

const (
	SourceFile SourceType = "file"
	SourceURL  SourceType = "url"
)

// DefaultUploader is recorded when a submitter leaves their name blank.
const DefaultUploader = "Anonymous"

// Resource is a study resource submitted by a student. Exactly one of
// FileKey or ExternalURL is set; FileKey is the object key in the blob
// store, with FileName and FileSize describing the uploaded file.
type Resource struct {
	ID          uuid.UUID   `json:"id" bson:"_id"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	Subject     string      `json:"subject" bson:"subject"`
	Tag         ResourceTag `json:"tag" bson:"tag"`

	FileKey     string `json:"file_key,omitempty" bson:"file_key,omitempty"`
	FileName    string `json:"file_name,omitempty" bson:"file_name,omitempty"`
	FileSize    int64  `json:"file_size,omitempty" bson:"file_size,omitempty"`
	ExternalURL string `json:"external_url,omitempty" bson:"external_url,omitempty"`

	UploadedBy string    `json:"uploaded_by" bson:"uploaded_by"`
	Approved   bool      `json:"approved" bson:"approved"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// HasFile reports whether the resource is backed by an uploaded file.
func (r *Resource) HasFile() bool { return r.FileKey != "" }

// HasURL reports whether the resource points at an external URL.
func (r *Resource) HasURL() bool { return r.ExternalURL != "" }

// Source returns the derived source type of the resource.
func (r *Resource) Source() SourceType {
	if r.HasFile() {
		return SourceFile
	}
	return SourceURL
}

// ListFilters narrows a repository listing. Nil fields are ignored.
type ListFilters struct {
	Approved *bool
	Subject  *string
	Tag      *ResourceTag
	Limit    *int
	Offset   *int
}
