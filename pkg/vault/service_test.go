package vault_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NotAditya01/jeevault/pkg/vault"
	"github.com/NotAditya01/jeevault/pkg/vault/repo/memory"
	memorystorage "github.com/NotAditya01/jeevault/pkg/vault/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []vault.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []vault.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []vault.Option{
				vault.WithRepository(memory.New()),
			},
			expectError: false,
		},
		{
			name: "with repository and blob store should succeed",
			options: []vault.Option{
				vault.WithRepository(memory.New()),
				vault.WithBlobStore("memory", memorystorage.New()),
			},
			expectError: false,
		},
		{
			name: "default backend must be registered",
			options: []vault.Option{
				vault.WithRepository(memory.New()),
				vault.WithDefaultBlobStore("missing"),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := vault.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) (vault.Service, vault.BlobStore) {
	t.Helper()

	store := memorystorage.New()
	svc, err := vault.New(
		vault.WithRepository(memory.New()),
		vault.WithBlobStore("memory", store),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc, store
}

func urlSubmission(title string) vault.SubmitResourceRequest {
	return vault.SubmitResourceRequest{
		Title:       title,
		Description: "Worked examples for rotational mechanics",
		Subject:     "Physics",
		Tag:         vault.TagNotes,
		ExternalURL: "https://example.com/rotation.pdf",
	}
}

func fileSubmission(title string) vault.SubmitResourceRequest {
	return vault.SubmitResourceRequest{
		Title:       title,
		Description: "Scanned chapter notes",
		Subject:     "Chemistry",
		Tag:         vault.TagNotes,
		File:        strings.NewReader("%PDF-1.4 fake pdf body"),
		FileName:    "notes.pdf",
		FileSize:    22,
	}
}

func TestSubmitResource_URL(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.SubmitResource(ctx, urlSubmission("Rotation notes"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resource.ID)
	assert.Equal(t, "Rotation notes", resource.Title)
	assert.Equal(t, vault.SourceURL, resource.Source())
	assert.Equal(t, vault.DefaultUploader, resource.UploadedBy)
	assert.False(t, resource.Approved)
	assert.False(t, resource.CreatedAt.IsZero())
}

func TestSubmitResource_File(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	req := fileSubmission("Organic chemistry notes")
	req.UploadedBy = "Aditya"
	resource, err := svc.SubmitResource(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, vault.SourceFile, resource.Source())
	assert.Equal(t, "notes.pdf", resource.FileName)
	assert.Equal(t, "Aditya", resource.UploadedBy)
	assert.True(t, resource.HasFile())
	assert.False(t, resource.HasURL())

	// Uploaded content is retrievable from the backend
	rc, err := store.Download(ctx, resource.FileKey)
	require.NoError(t, err)
	rc.Close()
}

func TestSubmitResource_Validation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*vault.SubmitResourceRequest)
	}{
		{"missing title", func(r *vault.SubmitResourceRequest) { r.Title = "  " }},
		{"missing description", func(r *vault.SubmitResourceRequest) { r.Description = "" }},
		{"missing subject", func(r *vault.SubmitResourceRequest) { r.Subject = "" }},
		{"bad tag", func(r *vault.SubmitResourceRequest) { r.Tag = "videos" }},
		{"no locator", func(r *vault.SubmitResourceRequest) { r.ExternalURL = "" }},
		{"both locators", func(r *vault.SubmitResourceRequest) {
			r.File = strings.NewReader("x")
			r.FileName = "x.pdf"
			r.FileSize = 1
		}},
		{"relative url", func(r *vault.SubmitResourceRequest) { r.ExternalURL = "/notes.pdf" }},
		{"bad scheme", func(r *vault.SubmitResourceRequest) { r.ExternalURL = "ftp://example.com/a" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := urlSubmission("Valid title")
			tt.mutate(&req)

			resource, err := svc.SubmitResource(ctx, req)
			assert.Nil(t, resource)

			var validationErr *vault.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestSubmitResource_RejectsOversizedFile(t *testing.T) {
	svc, _ := setupTestService(t)

	req := fileSubmission("Huge file")
	req.FileSize = vault.MaxUploadBytes + 1

	_, err := svc.SubmitResource(context.Background(), req)
	var validationErr *vault.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "file", validationErr.Field)
}

func TestListPublicResources_ExcludesPending(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	pending, err := svc.SubmitResource(ctx, urlSubmission("Pending notes"))
	require.NoError(t, err)
	approved, err := svc.SubmitResource(ctx, urlSubmission("Approved notes"))
	require.NoError(t, err)

	_, err = svc.ApproveResource(ctx, approved.ID)
	require.NoError(t, err)

	public, err := svc.ListPublicResources(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, approved.ID, public[0].ID)
	assert.NotEqual(t, pending.ID, public[0].ID)
}

func TestApproveResource_Idempotent(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.SubmitResource(ctx, urlSubmission("Approve me"))
	require.NoError(t, err)

	first, err := svc.ApproveResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.True(t, first.Approved)

	second, err := svc.ApproveResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.True(t, second.Approved)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestApproveResource_NotFound(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.ApproveResource(context.Background(), uuid.New())
	assert.ErrorIs(t, err, vault.ErrResourceNotFound)
}

func TestUpdateResource(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.SubmitResource(ctx, urlSubmission("Old title"))
	require.NoError(t, err)
	_, err = svc.ApproveResource(ctx, resource.ID)
	require.NoError(t, err)

	newTitle := "New title"
	newSubject := "Mathematics"
	updated, err := svc.UpdateResource(ctx, vault.UpdateResourceRequest{
		ID:      resource.ID,
		Title:   &newTitle,
		Subject: &newSubject,
	})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "Mathematics", updated.Subject)
	// Edits never touch approval state or creation time
	assert.True(t, updated.Approved)
	assert.Equal(t, resource.CreatedAt, updated.CreatedAt)
}

func TestUpdateResource_EmptyTitleRejected(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.SubmitResource(ctx, urlSubmission("Keep me"))
	require.NoError(t, err)

	empty := "   "
	_, err = svc.UpdateResource(ctx, vault.UpdateResourceRequest{ID: resource.ID, Title: &empty})
	var validationErr *vault.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateResource_SwitchFileToURL(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.SubmitResource(ctx, fileSubmission("File backed"))
	require.NoError(t, err)
	fileKey := resource.FileKey

	link := "https://example.com/replacement"
	updated, err := svc.UpdateResource(ctx, vault.UpdateResourceRequest{
		ID:          resource.ID,
		ExternalURL: &link,
	})
	require.NoError(t, err)

	assert.Equal(t, vault.SourceURL, updated.Source())
	assert.Empty(t, updated.FileKey)
	assert.Empty(t, updated.FileName)

	// Old object is gone from the backend
	_, err = store.Download(ctx, fileKey)
	assert.Error(t, err)
}

func TestDeleteResource_CascadesToFile(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.SubmitResource(ctx, fileSubmission("Delete me"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteResource(ctx, resource.ID))

	_, err = svc.GetResource(ctx, resource.ID)
	assert.ErrorIs(t, err, vault.ErrResourceNotFound)

	_, err = store.Download(ctx, resource.FileKey)
	assert.Error(t, err)
}

func TestDeleteResource_URLBacked(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.SubmitResource(ctx, urlSubmission("Link only"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteResource(ctx, resource.ID))
	_, err = svc.GetResource(ctx, resource.ID)
	assert.ErrorIs(t, err, vault.ErrResourceNotFound)
}

func TestDeleteResource_NotFound(t *testing.T) {
	svc, _ := setupTestService(t)

	err := svc.DeleteResource(context.Background(), uuid.New())
	assert.ErrorIs(t, err, vault.ErrResourceNotFound)
}

func TestGetDownloadURL_URLBacked(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.SubmitResource(ctx, urlSubmission("Linked"))
	require.NoError(t, err)

	url, err := svc.GetDownloadURL(ctx, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/rotation.pdf", url)
}

func TestGetDownloadURL_MemoryBackendHasNoURLs(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	resource, err := svc.SubmitResource(ctx, fileSubmission("Stored"))
	require.NoError(t, err)

	_, err = svc.GetDownloadURL(ctx, resource.ID)
	var storageErr *vault.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "download_url", storageErr.Op)
}

func TestDownloadResource(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	fileRes, err := svc.SubmitResource(ctx, fileSubmission("Stored"))
	require.NoError(t, err)

	rc, err := svc.DownloadResource(ctx, fileRes.ID)
	require.NoError(t, err)
	rc.Close()

	urlRes, err := svc.SubmitResource(ctx, urlSubmission("Linked"))
	require.NoError(t, err)

	_, err = svc.DownloadResource(ctx, urlRes.ID)
	assert.True(t, errors.Is(err, vault.ErrNoStoredFile))
}
