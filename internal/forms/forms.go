// Package forms implements the two submission forms of the highlights page.
//
// A form owns its input and its submission.State. Submit issues exactly one
// backend request through the injected Transport and reports the outcome
// through the injected Notifier; every state change is published to the
// registered Observers so any front end can redraw from a snapshot.
package forms

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/flashkick/flashkick-agent/internal/backend"
	"github.com/flashkick/flashkick-agent/internal/submission"
)

const (
	DefaultLinkPath   = "/upload-link"
	DefaultUploadPath = "/upload-video"

	// UploadField is the multipart field name the backend reads the file from.
	UploadField = "file"
)

// ErrSubmitInProgress is returned when Submit is called while the previous
// attempt of the same form is still in flight.
var ErrSubmitInProgress = submission.ErrAlreadySubmitting

// File is a handle to the video picked for upload.
type File = backend.File

// Transport issues backend requests. backend.HTTPClient and backend.StubClient
// implement it; tests use recording fakes.
type Transport interface {
	PostJSON(ctx context.Context, url string, payload any) (*backend.Response, error)
	PostMultipart(ctx context.Context, url, field string, file backend.File, onProgress backend.ProgressFunc) (*backend.Response, error)
}

// Endpoints locates the ingestion endpoints of the backend.
type Endpoints struct {
	BaseURL    string
	LinkPath   string
	UploadPath string
}

func (e Endpoints) LinkURL() (string, error) {
	return e.join(e.LinkPath, DefaultLinkPath)
}

func (e Endpoints) UploadURL() (string, error) {
	return e.join(e.UploadPath, DefaultUploadPath)
}

func (e Endpoints) join(path, fallback string) (string, error) {
	if strings.TrimSpace(e.BaseURL) == "" {
		return "", fmt.Errorf("backend base url is not configured")
	}
	if path == "" {
		path = fallback
	}
	u, err := url.JoinPath(e.BaseURL, path)
	if err != nil {
		return "", fmt.Errorf("invalid backend url %q: %w", e.BaseURL, err)
	}
	return u, nil
}
