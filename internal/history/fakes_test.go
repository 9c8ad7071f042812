package history

import (
	"context"
	"errors"

	"github.com/flashkick/flashkick-agent/internal/backend"
)

type failingTransport struct{}

func (failingTransport) PostJSON(context.Context, string, any) (*backend.Response, error) {
	return nil, errors.New("connection refused")
}

func (failingTransport) PostMultipart(context.Context, string, string, backend.File, backend.ProgressFunc) (*backend.Response, error) {
	return nil, errors.New("connection refused")
}
