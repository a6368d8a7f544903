package vault

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Repository persists resources. Implementations must return
// ErrResourceNotFound when the requested resource does not exist and must
// order listings by creation time, newest first.
type Repository interface {
	CreateResource(ctx context.Context, resource *Resource) error
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	UpdateResource(ctx context.Context, resource *Resource) error
	DeleteResource(ctx context.Context, id uuid.UUID) error
	ListResources(ctx context.Context, filters ListFilters) ([]*Resource, error)
}

// BlobStore stores raw file content under opaque object keys.
type BlobStore interface {
	// Upload stores content read from reader under objectKey.
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams stores content with additional parameters such as
	// the MIME type.
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download streams the content stored under objectKey.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the content stored under objectKey.
	Delete(ctx context.Context, objectKey string) error

	// GetDownloadURL returns a URL a client can fetch the object from.
	// Backends without URL support return an error; callers fall back to
	// Download.
	GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error)

	// GetObjectMeta returns metadata for a stored object.
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// UploadParams carries parameters for UploadWithParams.
type UploadParams struct {
	ObjectKey string
	MimeType  string
}

// ObjectMeta describes a stored object.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	Metadata    map[string]string
}
