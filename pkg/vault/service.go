// Package vault implements a moderated study-resource library: students
// submit resources backed by an uploaded PDF or an external URL, and an
// administrator approves them before they appear in the public listing.
package vault

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service is the main business logic interface for the resource library.
type Service interface {
	// SubmitResource validates and stores a new submission. File-backed
	// submissions upload the file before the record is written; if the
	// record write fails the uploaded file is removed again. The new
	// resource always starts unapproved.
	SubmitResource(ctx context.Context, req SubmitResourceRequest) (*Resource, error)

	// GetResource returns a single resource by ID.
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)

	// ListPublicResources returns approved resources, newest first.
	ListPublicResources(ctx context.Context) ([]*Resource, error)

	// ListResources returns resources matching the request filters,
	// newest first. Used by the admin surface.
	ListResources(ctx context.Context, req ListResourcesRequest) ([]*Resource, error)

	// UpdateResource edits mutable fields. Approval state and creation
	// time are never touched.
	UpdateResource(ctx context.Context, req UpdateResourceRequest) (*Resource, error)

	// ApproveResource marks a resource approved. Approving an already
	// approved resource is a no-op success.
	ApproveResource(ctx context.Context, id uuid.UUID) (*Resource, error)

	// DeleteResource permanently removes a resource and, for file-backed
	// resources, its stored file.
	DeleteResource(ctx context.Context, id uuid.UUID) error

	// GetDownloadURL returns the URL a client should fetch the resource
	// from: the external URL for link resources, or a backend download
	// URL for file resources.
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)

	// DownloadResource streams the stored file of a file-backed resource.
	DownloadResource(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
}
