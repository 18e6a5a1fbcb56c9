package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pherrors "github.com/TinyDragon612/astrophoenix-host/internal/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "manifest.json", 5*time.Second)
	return client, srv
}

func TestFetchManifest_Success(t *testing.T) {
	// Given: a host serving a manifest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/manifest.json" {
			_, _ = w.Write([]byte(`["Mars Soil.txt","mars-dust-properties.txt"]`))
			return
		}
		http.NotFound(w, r)
	}))

	// When: fetching the manifest
	ids, err := client.FetchManifest(context.Background())

	// Then: identifiers come back in manifest order
	require.NoError(t, err)
	assert.Equal(t, []string{"Mars Soil.txt", "mars-dust-properties.txt"}, ids)
}

func TestFetchManifest_NonSuccessStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.FetchManifest(context.Background())

	require.Error(t, err)
	assert.Equal(t, pherrors.ErrCodeManifestUnavailable, pherrors.GetCode(err))
	assert.True(t, pherrors.IsFatal(err))
}

func TestFetchManifest_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL, "manifest.json", time.Second)

	_, err := client.FetchManifest(context.Background())

	require.Error(t, err)
	assert.Equal(t, pherrors.ErrCodeManifestUnavailable, pherrors.GetCode(err))
}

func TestFetchManifest_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))

	_, err := client.FetchManifest(context.Background())

	require.Error(t, err)
	assert.Equal(t, pherrors.ErrCodeManifestUnavailable, pherrors.GetCode(err))
}

func TestFetchDocument_EncodedPath(t *testing.T) {
	// Given: a host that serves only the percent-encoded path
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RawPath preserves the escaping as sent on the wire.
		if r.URL.EscapedPath() == "/Mars%20Soil.txt" {
			_, _ = w.Write([]byte("regolith composition study"))
			return
		}
		http.NotFound(w, r)
	}))

	// When: fetching a document with a space in its identifier
	content, err := client.FetchDocument(context.Background(), "Mars Soil.txt")

	// Then: the encoded attempt succeeds
	require.NoError(t, err)
	assert.Equal(t, "regolith composition study", content)
}

func TestFetchDocument_FallsBackToRawPath(t *testing.T) {
	// Given: a host that 404s the encoded path but serves the raw one
	var attempts atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		raw, _ := url.PathUnescape(r.URL.EscapedPath())
		if attempts.Load() >= 2 && raw == "/Mars Soil.txt" {
			_, _ = w.Write([]byte("fallback body"))
			return
		}
		http.NotFound(w, r)
	}))

	// When: fetching
	content, err := client.FetchDocument(context.Background(), "Mars Soil.txt")

	// Then: the second, unencoded attempt wins
	require.NoError(t, err)
	assert.Equal(t, "fallback body", content)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestFetchDocument_BothAttemptsFail(t *testing.T) {
	// Given: a host that 404s everything
	var attempts atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.NotFound(w, r)
	}))

	// When: fetching a broken document
	content, err := client.FetchDocument(context.Background(), "broken.txt")

	// Then: empty content with a non-fatal, retryable error
	require.Error(t, err)
	assert.Empty(t, content)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, pherrors.ErrCodeDocumentFetchFailed, pherrors.GetCode(err))
	assert.False(t, pherrors.IsFatal(err))
	assert.True(t, pherrors.IsRetryable(err))
}
