package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements Service.
type service struct {
	repository     Repository
	blobStores     map[string]BlobStore
	defaultBackend string
}

// Option configures a service during construction.
type Option func(*service)

// WithRepository sets the repository.
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore registers a storage backend under the given name. The
// first registered backend becomes the default.
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		if len(s.blobStores) == 0 {
			s.defaultBackend = name
		}
		s.blobStores[name] = store
	}
}

// WithDefaultBlobStore selects which registered backend receives uploads.
func WithDefaultBlobStore(name string) Option {
	return func(s *service) {
		s.defaultBackend = name
	}
}

// New creates a new Service with the given options.
func New(options ...Option) (Service, error) {
	svc := &service{
		blobStores: make(map[string]BlobStore),
	}
	for _, option := range options {
		option(svc)
	}
	if svc.repository == nil {
		return nil, errors.New("repository is required")
	}
	if svc.defaultBackend != "" {
		if _, ok := svc.blobStores[svc.defaultBackend]; !ok {
			return nil, fmt.Errorf("default backend %q: %w", svc.defaultBackend, ErrBackendNotFound)
		}
	}
	return svc, nil
}

func (s *service) backend(name string) (BlobStore, error) {
	store, ok := s.blobStores[name]
	if !ok {
		return nil, fmt.Errorf("backend %q: %w", name, ErrBackendNotFound)
	}
	return store, nil
}

// objectKey builds the storage key for an uploaded file. Keys are derived
// from the resource ID, never from the client-supplied filename.
func objectKey(id uuid.UUID) string {
	return fmt.Sprintf("resources/%s.pdf", id)
}

func (s *service) SubmitResource(ctx context.Context, req SubmitResourceRequest) (*Resource, error) {
	if err := ValidateSubmission(req); err != nil {
		return nil, err
	}

	uploadedBy := strings.TrimSpace(req.UploadedBy)
	if uploadedBy == "" {
		uploadedBy = DefaultUploader
	}

	now := time.Now().UTC()
	resource := &Resource{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Subject:     strings.TrimSpace(req.Subject),
		Tag:         req.Tag,
		UploadedBy:  uploadedBy,
		Approved:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.File != nil {
		store, err := s.backend(s.defaultBackend)
		if err != nil {
			return nil, err
		}
		key := objectKey(resource.ID)
		params := UploadParams{ObjectKey: key, MimeType: PDFMimeType}
		if err := store.UploadWithParams(ctx, req.File, params); err != nil {
			return nil, &StorageError{Backend: s.defaultBackend, Key: key, Op: "upload", Err: err}
		}
		resource.FileKey = key
		resource.FileName = req.FileName
		resource.FileSize = req.FileSize
	} else {
		resource.ExternalURL = strings.TrimSpace(req.ExternalURL)
	}

	if err := s.repository.CreateResource(ctx, resource); err != nil {
		if resource.HasFile() {
			s.removeBlob(ctx, resource.FileKey)
		}
		return nil, &ResourceError{ResourceID: resource.ID, Op: "create", Err: err}
	}
	return resource, nil
}

func (s *service) GetResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *service) ListPublicResources(ctx context.Context) ([]*Resource, error) {
	approved := true
	return s.repository.ListResources(ctx, ListFilters{Approved: &approved})
}

func (s *service) ListResources(ctx context.Context, req ListResourcesRequest) ([]*Resource, error) {
	filters := ListFilters{Approved: req.Approved}
	if subject := strings.TrimSpace(req.Subject); subject != "" {
		filters.Subject = &subject
	}
	if req.Tag != "" {
		if !req.Tag.IsValid() {
			return nil, &ValidationError{Field: "tag", Reason: "must be one of: notes, books"}
		}
		tag := req.Tag
		filters.Tag = &tag
	}
	if req.Limit > 0 {
		limit := req.Limit
		filters.Limit = &limit
	}
	if req.Offset > 0 {
		offset := req.Offset
		filters.Offset = &offset
	}
	return s.repository.ListResources(ctx, filters)
}

func (s *service) UpdateResource(ctx context.Context, req UpdateResourceRequest) (*Resource, error) {
	resource, err := s.repository.GetResource(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		resource.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
		}
		resource.Description = strings.TrimSpace(*req.Description)
	}
	if req.Subject != nil {
		if strings.TrimSpace(*req.Subject) == "" {
			return nil, &ValidationError{Field: "subject", Reason: "must not be empty"}
		}
		resource.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Tag != nil {
		if !req.Tag.IsValid() {
			return nil, &ValidationError{Field: "tag", Reason: "must be one of: notes, books"}
		}
		resource.Tag = *req.Tag
	}

	var orphanedKey string
	if req.ExternalURL != nil {
		if !IsValidExternalURL(*req.ExternalURL) {
			return nil, &ValidationError{Field: "url", Reason: "must be an absolute http or https URL"}
		}
		if resource.HasFile() {
			orphanedKey = resource.FileKey
			resource.FileKey = ""
			resource.FileName = ""
			resource.FileSize = 0
		}
		resource.ExternalURL = strings.TrimSpace(*req.ExternalURL)
	}

	resource.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateResource(ctx, resource); err != nil {
		return nil, &ResourceError{ResourceID: resource.ID, Op: "update", Err: err}
	}

	// The record no longer references the file; best effort cleanup.
	if orphanedKey != "" {
		s.removeBlob(ctx, orphanedKey)
	}
	return resource, nil
}

func (s *service) ApproveResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource.Approved {
		return resource, nil
	}

	resource.Approved = true
	resource.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateResource(ctx, resource); err != nil {
		return nil, &ResourceError{ResourceID: id, Op: "approve", Err: err}
	}
	return resource, nil
}

func (s *service) DeleteResource(ctx context.Context, id uuid.UUID) error {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repository.DeleteResource(ctx, id); err != nil {
		return &ResourceError{ResourceID: id, Op: "delete", Err: err}
	}
	if resource.HasFile() {
		s.removeBlob(ctx, resource.FileKey)
	}
	return nil
}

func (s *service) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return "", err
	}
	if resource.HasURL() {
		return resource.ExternalURL, nil
	}

	store, err := s.backend(s.defaultBackend)
	if err != nil {
		return "", err
	}
	url, err := store.GetDownloadURL(ctx, resource.FileKey, resource.FileName)
	if err != nil {
		return "", &StorageError{Backend: s.defaultBackend, Key: resource.FileKey, Op: "download_url", Err: err}
	}
	return url, nil
}

func (s *service) DownloadResource(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	resource, err := s.repository.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resource.HasFile() {
		return nil, ErrNoStoredFile
	}

	store, err := s.backend(s.defaultBackend)
	if err != nil {
		return nil, err
	}
	rc, err := store.Download(ctx, resource.FileKey)
	if err != nil {
		return nil, &StorageError{Backend: s.defaultBackend, Key: resource.FileKey, Op: "download", Err: err}
	}
	return rc, nil
}

// removeBlob deletes a stored object after its record is gone. A failure
// here leaves an orphaned object, which is logged and otherwise ignored.
func (s *service) removeBlob(ctx context.Context, key string) {
	store, err := s.backend(s.defaultBackend)
	if err != nil {
		slog.Error("orphaned object: backend unavailable", "key", key, "error", err)
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		slog.Error("orphaned object: delete failed", "backend", s.defaultBackend, "key", key, "error", err)
	}
}
