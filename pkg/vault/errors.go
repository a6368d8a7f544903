package vault

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors returned by the service and repositories.
var (
	// ErrResourceNotFound is returned when a resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrBackendNotFound is returned when a storage backend is not registered.
	ErrBackendNotFound = errors.New("storage backend not found")

	// ErrNoStoredFile is returned when a direct download is requested for a
	// resource that only carries an external URL.
	ErrNoStoredFile = errors.New("resource has no stored file")
)

// ValidationError describes a rejected submission or edit. The field name
// and reason are safe to show to the client.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ResourceError wraps an error that occurred while operating on a resource.
type ResourceError struct {
	ResourceID uuid.UUID
	Op         string
	Err        error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %s: %s: %v", e.ResourceID, e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// StorageError wraps an error from a storage backend operation.
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s %q: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
