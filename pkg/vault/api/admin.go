package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/NotAditya01/jeevault/pkg/vault"
)

// loginRequest is the JSON body for POST /admin/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLogin handles POST /admin/login. The check is stateless; clients
// keep the credentials and present them as basic auth on admin routes.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		writeError(w, r, &vault.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	if !h.auth.Verify(body.Username, body.Password) {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]interface{}{"success": false, "error": "invalid credentials"})
		return
	}
	render.JSON(w, r, map[string]interface{}{"success": true})
}

// ListAdminResources handles GET /admin/resources. The optional status
// query narrows the listing to pending or approved resources.
func (h *Handler) ListAdminResources(w http.ResponseWriter, r *http.Request) {
	req := vault.ListResourcesRequest{
		Subject: r.URL.Query().Get("subject"),
		Tag:     vault.ResourceTag(r.URL.Query().Get("tag")),
	}

	switch status := r.URL.Query().Get("status"); status {
	case "":
	case "pending":
		approved := false
		req.Approved = &approved
	case "approved":
		approved := true
		req.Approved = &approved
	default:
		writeError(w, r, &vault.ValidationError{Field: "status", Reason: "must be pending or approved"})
		return
	}

	resources, err := h.service.ListResources(r.Context(), req)
	if err != nil {
		slog.Error("Failed to list resources for admin", "error", err)
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, toResponseList(resources))
}

// updateRequest is the JSON body for PUT /admin/resources/{resourceID}.
// Absent fields are left unchanged.
type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Subject     *string `json:"subject"`
	Tag         *string `json:"tag"`
	URL         *string `json:"url"`
}

// UpdateResource handles PUT /admin/resources/{resourceID}.
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id, err := resourceIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body updateRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		writeError(w, r, &vault.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	req := vault.UpdateResourceRequest{
		ID:          id,
		Title:       body.Title,
		Description: body.Description,
		Subject:     body.Subject,
		ExternalURL: body.URL,
	}
	if body.Tag != nil {
		tag := vault.ResourceTag(*body.Tag)
		req.Tag = &tag
	}

	resource, err := h.service.UpdateResource(r.Context(), req)
	if err != nil {
		slog.Error("Failed to update resource", "resource_id", id, "error", err)
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, toResponse(resource))
}

// ApproveResource handles PATCH /admin/resources/{resourceID}/approve.
// Approving twice is a no-op success.
func (h *Handler) ApproveResource(w http.ResponseWriter, r *http.Request) {
	id, err := resourceIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resource, err := h.service.ApproveResource(r.Context(), id)
	if err != nil {
		slog.Error("Failed to approve resource", "resource_id", id, "error", err)
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, toResponse(resource))
}

// DeleteResource handles DELETE /admin/resources/{resourceID}.
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id, err := resourceIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteResource(r.Context(), id); err != nil {
		slog.Error("Failed to delete resource", "resource_id", id, "error", err)
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
