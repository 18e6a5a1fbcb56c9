package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	pherrors "github.com/TinyDragon612/astrophoenix-host/internal/errors"
)

// DefaultFetchTimeout bounds a single fetch attempt when no timeout is
// configured.
const DefaultFetchTimeout = 30 * time.Second

// Client fetches the manifest and document texts from the static file host.
type Client struct {
	baseURL  string
	manifest string
	httpc    *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient injects a custom HTTP client, mainly for tests.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// NewClient creates a document store client. baseURL is the corpus root on
// the static host; manifest is the manifest object name relative to it.
func NewClient(baseURL, manifest string, timeout time.Duration, opts ...ClientOption) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	c := &Client{
		baseURL:  baseURL,
		manifest: manifest,
		httpc:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchManifest retrieves the corpus manifest: a JSON array of document
// identifiers. Any transport error or non-success status is fatal for the
// indexing session, surfaced as ERR_301_MANIFEST_UNAVAILABLE.
func (c *Client) FetchManifest(ctx context.Context) ([]string, error) {
	body, status, err := c.get(ctx, c.baseURL+c.manifest)
	if err != nil {
		return nil, pherrors.ManifestError("manifest endpoint unreachable", err)
	}
	if status != http.StatusOK {
		return nil, pherrors.ManifestError(
			fmt.Sprintf("manifest endpoint returned status %d", status), nil).
			WithDetail("status", fmt.Sprintf("%d", status))
	}

	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, pherrors.ManifestError("manifest is not a JSON array of identifiers", err)
	}
	return ids, nil
}

// FetchDocument retrieves one document's raw text. It first requests the
// percent-encoded identifier path and, if that attempt fails with a
// transport error or non-success status, retries once with the raw
// identifier verbatim. Filenames may or may not need percent-encoding
// depending on how the remote host serves them.
//
// When both attempts fail the returned content is empty and the error is a
// retryable ERR_302_DOCUMENT_FETCH_FAILED; callers keep the document's place
// in the corpus so progress counts stay intact.
func (c *Client) FetchDocument(ctx context.Context, id string) (string, error) {
	body, status, err := c.get(ctx, c.baseURL+url.PathEscape(id))
	if err == nil && status == http.StatusOK {
		return string(body), nil
	}

	slog.Debug("document_fetch_retry_raw",
		slog.String("doc_id", id),
		slog.Int("status", status))

	body, status, err = c.get(ctx, c.baseURL+id)
	if err == nil && status == http.StatusOK {
		return string(body), nil
	}

	if err == nil {
		err = fmt.Errorf("status %d", status)
	}
	return "", pherrors.FetchError("document fetch failed after both encodings", err).
		WithDetail("doc_id", id)
}

// get performs one GET attempt and returns the body and status code.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
