package vault

import (
	"net/url"
	"path/filepath"
	"strings"
)

// MaxUploadBytes caps the size of an uploaded file.
const MaxUploadBytes int64 = 10 << 20

// PDFMimeType is the only content type accepted for uploads.
const PDFMimeType = "application/pdf"

// ValidateSubmission checks a submission before the resource is built.
func ValidateSubmission(req SubmitResourceRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Subject) == "" {
		return &ValidationError{Field: "subject", Reason: "must not be empty"}
	}
	if !req.Tag.IsValid() {
		return &ValidationError{Field: "tag", Reason: "must be one of: notes, books"}
	}

	hasFile := req.File != nil
	hasURL := strings.TrimSpace(req.ExternalURL) != ""
	switch {
	case !hasFile && !hasURL:
		return &ValidationError{Field: "locator", Reason: "either a file or an external URL is required"}
	case hasFile && hasURL:
		return &ValidationError{Field: "locator", Reason: "provide a file or an external URL, not both"}
	}

	if hasURL && !IsValidExternalURL(req.ExternalURL) {
		return &ValidationError{Field: "url", Reason: "must be an absolute http or https URL"}
	}

	if hasFile {
		if err := ValidateUpload(req.FileName, req.FileSize); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUpload checks the declared name and size of an uploaded file.
func ValidateUpload(name string, size int64) error {
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return &ValidationError{Field: "file", Reason: "only PDF files are accepted"}
	}
	if size <= 0 {
		return &ValidationError{Field: "file", Reason: "file is empty"}
	}
	if size > MaxUploadBytes {
		return &ValidationError{Field: "file", Reason: "file exceeds the 10 MB limit"}
	}
	return nil
}

// IsValidExternalURL reports whether raw parses as an absolute http(s) URL.
func IsValidExternalURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
