package forms

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/flashkick/flashkick-agent/internal/backend"
)

var errBackendDown = errors.New("connection refused")

type jsonCall struct {
	url     string
	payload any
}

type multipartCall struct {
	url   string
	field string
	name  string
}

// fakeTransport records calls and replays scripted progress reports.
type fakeTransport struct {
	mu             sync.Mutex
	jsonCalls      []jsonCall
	multipartCalls []multipartCall

	err      error
	progress [][2]int64
	// release, when set, blocks the request until closed.
	release chan struct{}
	started chan struct{}
}

func (f *fakeTransport) PostJSON(ctx context.Context, url string, payload any) (*backend.Response, error) {
	f.mu.Lock()
	f.jsonCalls = append(f.jsonCalls, jsonCall{url: url, payload: payload})
	f.mu.Unlock()

	f.wait()
	if f.err != nil {
		return nil, f.err
	}
	return &backend.Response{StatusCode: 200}, nil
}

func (f *fakeTransport) PostMultipart(ctx context.Context, url, field string, file backend.File, onProgress backend.ProgressFunc) (*backend.Response, error) {
	f.mu.Lock()
	f.multipartCalls = append(f.multipartCalls, multipartCall{url: url, field: field, name: file.Name()})
	f.mu.Unlock()

	f.wait()
	for _, p := range f.progress {
		onProgress(p[0], p[1])
	}
	if f.err != nil {
		return nil, f.err
	}
	return &backend.Response{StatusCode: 200}, nil
}

func (f *fakeTransport) wait() {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
}

func (f *fakeTransport) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jsonCalls), len(f.multipartCalls)
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

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) OnEvent(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) all() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func testEndpoints() Endpoints {
	return Endpoints{BaseURL: "http://backend.test", LinkPath: DefaultLinkPath, UploadPath: DefaultUploadPath}
}
