package backend

import (
	"context"
	"log/slog"
)

// StubClient accepts every request without touching the network. It backs
// the --dry-run mode of the CLI and reports a single full-progress event.
type StubClient struct {
	logger *slog.Logger
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

func (s *StubClient) PostJSON(ctx context.Context, url string, payload any) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Info("backend stub: json post requested", "url", url)
	return &Response{StatusCode: 200, Message: "dry run"}, nil
}

func (s *StubClient) PostMultipart(ctx context.Context, url, field string, file File, onProgress ProgressFunc) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Info("backend stub: multipart post requested", "url", url, "field", field, "filename", file.Name())
	if onProgress != nil {
		onProgress(file.Size(), file.Size())
	}
	return &Response{StatusCode: 200, Message: "dry run", Filename: file.Name()}, nil
}
