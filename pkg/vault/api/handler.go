// Package api exposes the resource library over HTTP using chi.
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/NotAditya01/jeevault/pkg/vault"
)

// Handler handles HTTP requests for the resource library.
type Handler struct {
	service vault.Service
	auth    *Authenticator
}

// NewHandler creates a new HTTP handler.
func NewHandler(service vault.Service, auth *Authenticator) *Handler {
	return &Handler{service: service, auth: auth}
}

// Routes returns the API router. Admin routes other than login require
// basic-auth credentials.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/resources", h.SubmitResource)
	r.Get("/resources", h.ListPublicResources)
	r.Get("/resources/{resourceID}/download", h.DownloadResource)

	r.Route("/admin", func(ar chi.Router) {
		ar.Post("/login", h.AdminLogin)
		ar.Group(func(pr chi.Router) {
			pr.Use(h.auth.RequireAdmin)
			pr.Get("/resources", h.ListAdminResources)
			pr.Put("/resources/{resourceID}", h.UpdateResource)
			pr.Patch("/resources/{resourceID}/approve", h.ApproveResource)
			pr.Delete("/resources/{resourceID}", h.DeleteResource)
		})
	})

	return r
}

// submitRequest is the JSON body for url-backed submissions.
type submitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Tag         string `json:"tag"`
	UploadedBy  string `json:"uploaded_by"`
	URL         string `json:"url"`
}

// resourceResponse is the JSON representation of a resource.
type resourceResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	Tag         string    `json:"tag"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	FileName    string    `json:"file_name,omitempty"`
	FileSize    int64     `json:"file_size,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// toResponse converts a resource for the wire. File-backed resources point
// at the download route so clients never see object keys.
func toResponse(resource *vault.Resource) resourceResponse {
	resp := resourceResponse{
		ID:          resource.ID,
		Title:       resource.Title,
		Description: resource.Description,
		Subject:     resource.Subject,
		Tag:         string(resource.Tag),
		Source:      string(resource.Source()),
		UploadedBy:  resource.UploadedBy,
		Approved:    resource.Approved,
		CreatedAt:   resource.CreatedAt,
		UpdatedAt:   resource.UpdatedAt,
	}
	if resource.HasFile() {
		resp.URL = "/api/resources/" + resource.ID.String() + "/download"
		resp.FileName = resource.FileName
		resp.FileSize = resource.FileSize
	} else {
		resp.URL = resource.ExternalURL
	}
	return resp
}

func toResponseList(resources []*vault.Resource) []resourceResponse {
	responses := make([]resourceResponse, 0, len(resources))
	for _, resource := range resources {
		responses = append(responses, toResponse(resource))
	}
	return responses
}

func resourceIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "resourceID"))
	if err != nil {
		return uuid.Nil, &vault.ValidationError{Field: "id", Reason: "must be a valid UUID"}
	}
	return id, nil
}

// SubmitResource handles POST /resources. File submissions arrive as
// multipart/form-data with a "file" field; link submissions as JSON.
func (h *Handler) SubmitResource(w http.ResponseWriter, r *http.Request) {
	var req vault.SubmitResourceRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		// Leave headroom above the file cap for the other form fields.
		r.Body = http.MaxBytesReader(w, r.Body, vault.MaxUploadBytes+1<<20)
		if err := r.ParseMultipartForm(vault.MaxUploadBytes); err != nil {
			writeError(w, r, &vault.ValidationError{Field: "file", Reason: "upload is too large or malformed"})
			return
		}

		req = vault.SubmitResourceRequest{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Subject:     r.FormValue("subject"),
			Tag:         vault.ResourceTag(r.FormValue("tag")),
			UploadedBy:  r.FormValue("uploaded_by"),
			ExternalURL: r.FormValue("url"),
		}
		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()
			req.File = file
			req.FileName = header.Filename
			req.FileSize = header.Size
		}
	} else {
		var body submitRequest
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			writeError(w, r, &vault.ValidationError{Field: "body", Reason: "malformed JSON"})
			return
		}
		req = vault.SubmitResourceRequest{
			Title:       body.Title,
			Description: body.Description,
			Subject:     body.Subject,
			Tag:         vault.ResourceTag(body.Tag),
			UploadedBy:  body.UploadedBy,
			ExternalURL: body.URL,
		}
	}

	resource, err := h.service.SubmitResource(r.Context(), req)
	if err != nil {
		slog.Error("Failed to submit resource", "error", err)
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toResponse(resource))
}

// ListPublicResources handles GET /resources. Only approved resources are
// returned, newest first.
func (h *Handler) ListPublicResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.ListPublicResources(r.Context())
	if err != nil {
		slog.Error("Failed to list resources", "error", err)
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, toResponseList(resources))
}

// DownloadResource handles GET /resources/{resourceID}/download. Link
// resources and URL-capable backends redirect; other backends stream the
// file through the handler.
func (h *Handler) DownloadResource(w http.ResponseWriter, r *http.Request) {
	id, err := resourceIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	url, err := h.service.GetDownloadURL(r.Context(), id)
	if err == nil {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	var storageErr *vault.StorageError
	if !errors.As(err, &storageErr) {
		writeError(w, r, err)
		return
	}

	resource, err := h.service.GetResource(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := h.service.DownloadResource(r.Context(), id)
	if err != nil {
		slog.Error("Failed to download resource", "resource_id", id, "error", err)
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", vault.PDFMimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+resource.FileName+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream resource", "resource_id", id, "error", err)
	}
}
