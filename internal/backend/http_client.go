// Package backend talks to the external highlight-generation backend. It
// posts video links as JSON and video files as multipart bodies, reporting
// upload progress as the request body is written to the wire.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	maxResponseBytes = 4096
	requestIDHeader  = "X-Request-Id"
)

// HTTPClient is the real transport. A zero timeout leaves request lifetime to
// the caller's context, which is what large uploads need.
type HTTPClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(timeout time.Duration, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *HTTPClient) PostJSON(ctx context.Context, url string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("posting to backend", "url", url, "body_bytes", len(body))

	return c.do(req)
}

// PostMultipart streams file under field as a multipart/form-data body. The
// body length is known up front so progress totals are exact.
func (c *HTTPClient) PostMultipart(ctx context.Context, url, field string, file File, onProgress ProgressFunc) (*Response, error) {
	head, tail, contentType, err := multipartFrame(field, file.Name())
	if err != nil {
		return nil, fmt.Errorf("build multipart frame: %w", err)
	}

	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.Name(), err)
	}
	defer content.Close()

	total := int64(len(head)) + file.Size() + int64(len(tail))
	body := &progressReader{
		r:          io.MultiReader(bytes.NewReader(head), io.LimitReader(content, file.Size()), bytes.NewReader(tail)),
		total:      total,
		onProgress: onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", contentType)

	c.logger.Info("uploading file to backend",
		"url", url,
		"filename", file.Name(),
		"file_bytes", file.Size(),
		"body_bytes", total,
	)

	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (*Response, error) {
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	result := &Response{StatusCode: resp.StatusCode}
	if isJSON(resp.Header.Get("Content-Type")) && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("unmarshal backend response: %w", err)
		}
		result.StatusCode = resp.StatusCode
	}

	c.logger.Info("backend accepted request",
		"request_id", requestID,
		"status", resp.StatusCode,
		"message", result.Message,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// multipartFrame renders the bytes that surround the file content of a
// single-part form: the part header before it and the closing boundary after.
func multipartFrame(field, filename string) (head, tail []byte, contentType string, err error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if _, err := mw.CreateFormFile(field, filename); err != nil {
		return nil, nil, "", err
	}
	headLen := buf.Len()
	if err := mw.Close(); err != nil {
		return nil, nil, "", err
	}
	frame := buf.Bytes()
	return frame[:headLen], frame[headLen:], mw.FormDataContentType(), nil
}

type progressReader struct {
	r          io.Reader
	loaded     int64
	total      int64
	onProgress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.loaded, p.total)
		}
	}
	return n, err
}
