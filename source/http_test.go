package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_GetResult(t *testing.T) {
	sample := loadSample(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(sample)
	}))
	defer srv.Close()

	payload, err := HTTP{
		URL:    srv.URL,
		Header: http.Header{"X-Api-Key": []string{"secret"}},
	}.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, payload.Elements, 19)
}

func TestHTTP_PostDocument(t *testing.T) {
	archive := zipArchive(t, map[string][]byte{StructuredDataName: loadSample(t)})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "%PDF-1.7 fake", string(body))
		w.Header().Set("Content-Type", "application/zip")
		w.Write(archive)
	}))
	defer srv.Close()

	payload, err := HTTP{URL: srv.URL, Document: []byte("%PDF-1.7 fake")}.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, payload.Elements, 19)
	assert.Equal(t, "1.6", payload.Metadata["pdf_version"])
}

func TestHTTP_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := HTTP{URL: srv.URL}.Load(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "quota exceeded", statusErr.Body)
	assert.Contains(t, err.Error(), "429")
}

func TestHTTP_ResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(loadSample(t))
	}))
	defer srv.Close()

	_, err := HTTP{URL: srv.URL, MaxResponseBytes: 64}.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 64 bytes")
}

func TestHTTP_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(loadSample(t))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HTTP{URL: srv.URL}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
