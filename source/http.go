package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxResponseBytes bounds the size of a service response
const DefaultMaxResponseBytes = 256 << 20

// HTTP loads an element stream from the extraction service. With a
// Document set, the document is sent in the request body (POST by
// default); otherwise the URL is fetched as a finished result (GET).
type HTTP struct {
	URL string

	// Client defaults to a client with a two minute timeout
	Client *http.Client

	// Method overrides the request method
	Method string

	// Document is the source document to extract, if any
	Document []byte

	// ContentType of Document. Default: application/pdf
	ContentType string

	// Header is added to the request
	Header http.Header

	// MaxResponseBytes bounds the response body. Default: 256 MiB
	MaxResponseBytes int64
}

// StatusError reports a non-2xx response from the service
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("extraction service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("extraction service returned %d: %s", e.StatusCode, e.Body)
}

var defaultClient = &http.Client{Timeout: 2 * time.Minute}

// Load calls the service and decodes its response
func (h HTTP) Load(ctx context.Context) (*Payload, error) {
	method := h.Method
	var body io.Reader
	if h.Document != nil {
		body = bytes.NewReader(h.Document)
		if method == "" {
			method = http.MethodPost
		}
	}
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, h.URL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, values := range h.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if h.Document != nil && req.Header.Get("Content-Type") == "" {
		contentType := h.ContentType
		if contentType == "" {
			contentType = "application/pdf"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, application/zip")

	client := h.Client
	if client == nil {
		client = defaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction service: %w", err)
	}
	defer resp.Body.Close()

	limit := h.MaxResponseBytes
	if limit <= 0 {
		limit = DefaultMaxResponseBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading service response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(data[:min(len(data), 512)]))}
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("service response exceeds %d bytes", limit)
	}
	return decodeBytes(data)
}
