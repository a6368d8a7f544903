package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/NotAditya01/jeevault/pkg/vault"
)

// writeError maps a domain error to an HTTP status and a stable JSON body.
// Internal details never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		message string
	)

	var validationErr *vault.ValidationError
	var storageErr *vault.StorageError

	switch {
	case errors.Is(err, vault.ErrResourceNotFound):
		status = http.StatusNotFound
		message = "resource not found"
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Error()
	case errors.As(err, &storageErr):
		status = http.StatusBadGateway
		message = "storage operation failed"
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		message = "request timed out, please retry"
	default:
		status = http.StatusInternalServerError
		message = "internal error"
	}

	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}
