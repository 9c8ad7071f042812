package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/flashkick/flashkick-agent/internal/backend"
	"github.com/flashkick/flashkick-agent/internal/forms"
)

type uploadCall struct {
	url     string
	field   string
	name    string
	content string
}

// fakeBackend records requests. When hold is set, uploads report their
// progress, close holding and wait for hold to close.
type fakeBackend struct {
	mu      sync.Mutex
	links   []backend.LinkRequest
	uploads []uploadCall

	err      error
	progress [][2]int64
	hold     chan struct{}
	holding  chan struct{}
}

func (f *fakeBackend) PostJSON(ctx context.Context, url string, payload any) (*backend.Response, error) {
	f.mu.Lock()
	if req, ok := payload.(backend.LinkRequest); ok {
		f.links = append(f.links, req)
	}
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &backend.Response{StatusCode: http.StatusOK}, nil
}

func (f *fakeBackend) PostMultipart(ctx context.Context, url, field string, file backend.File, onProgress backend.ProgressFunc) (*backend.Response, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, uploadCall{url: url, field: field, name: file.Name(), content: string(data)})
	f.mu.Unlock()

	for _, p := range f.progress {
		onProgress(p[0], p[1])
	}
	if f.hold != nil {
		close(f.holding)
		<-f.hold
	}
	if f.err != nil {
		return nil, f.err
	}
	return &backend.Response{StatusCode: http.StatusOK}, nil
}

func (f *fakeBackend) linkCalls() []backend.LinkRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.LinkRequest(nil), f.links...)
}

func (f *fakeBackend) uploadCalls() []uploadCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uploadCall(nil), f.uploads...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, be *fakeBackend, limits forms.Limits) ServerConfig {
	t.Helper()
	notes := forms.NewNotificationLog()
	formCfg := forms.Config{
		Endpoints: forms.Endpoints{BaseURL: "http://backend.test"},
		Transport: be,
		Notifier:  notes,
		Logger:    testLogger(),
		Limits:    limits,
	}
	return ServerConfig{
		Port:          0,
		LinkForm:      forms.NewLinkForm(formCfg),
		UploadForm:    forms.NewUploadForm(formCfg),
		Notifications: notes,
		UploadsDir:    t.TempDir(),
		SubmitContext: context.Background(),
		Logger:        testLogger(),
		StartTime:     time.Now(),
		Version:       "test",
	}
}

func newTestRouter(t *testing.T, cfg ServerConfig) *chi.Mux {
	t.Helper()
	r, err := NewRouter(cfg)
	require.NoError(t, err)
	return r
}

// localRequest is httptest.NewRequest from a loopback peer.
func localRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.RemoteAddr = "127.0.0.1:54321"
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type memFile struct {
	name string
	data string
}

func (m memFile) Name() string { return m.name }
func (m memFile) Size() int64  { return int64(len(m.data)) }
func (m memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(m.data)), nil
}
