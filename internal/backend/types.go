package backend

import (
	"fmt"
	"io"
)

// File is a single local file offered for upload.
type File interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// ProgressFunc receives cumulative request body bytes as the transport sends them.
type ProgressFunc func(loaded, total int64)

// LinkRequest is the body sent to the link-ingestion endpoint.
type LinkRequest struct {
	VideoLink string `json:"videoLink"`
}

// Response is the decoded backend reply. The backend answers with either a
// message or an error field; both are optional for a 2xx reply.
type Response struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Filename   string `json:"filename,omitempty"`
	Link       string `json:"link,omitempty"`
}

// StatusError represents a non-2xx reply from an ingestion endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend rejected request: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx).
// Client errors (4xx) are considered permanent.
func (e *StatusError) IsRetryable() bool {
	return e.StatusCode >= 500
}
