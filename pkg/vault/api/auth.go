package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/render"
)

// Authenticator verifies admin credentials. The same check backs both the
// login endpoint and the admin route middleware.
type Authenticator struct {
	username string
	password string
}

// NewAuthenticator creates an authenticator for the configured admin
// credentials.
func NewAuthenticator(username, password string) *Authenticator {
	return &Authenticator{username: username, password: password}
}

// Verify reports whether the presented credentials match. Both comparisons
// run in constant time.
func (a *Authenticator) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	return userOK&passOK == 1
}

// RequireAdmin rejects requests without valid basic-auth credentials
// before any handler logic runs.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !a.Verify(username, password) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "invalid credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
