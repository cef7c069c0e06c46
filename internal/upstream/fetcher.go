// Package upstream holds the outbound HTTP clients for the third-party
// providers: weather, image diagnosis and chat completion.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchError describes a failed fetch. Status is zero for transport-level
// failures (DNS, timeout, connection refused); otherwise it carries the
// non-2xx HTTP status and up to a few KB of the response body.
type FetchError struct {
	Status int
	Body   string
	Cause  error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch failed: %v", e.Cause)
	}
	return fmt.Sprintf("fetch failed: status %d: %s", e.Status, e.Body)
}

func (e *FetchError) Unwrap() error { return e.Cause }

const maxErrorBody = 4 << 10

// Fetcher performs JSON HTTP calls with a fixed timeout. It is stateless;
// callers own any caching of successful results and any fallback used on
// failure.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher whose requests time out after the given
// duration. AI calls want a generous timeout; plain lookups can go shorter.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchJSON issues the request and decodes a 2xx response body into v.
// body, when non-nil, is JSON-encoded and sent with a Content-Type header.
// Any failure is returned as a *FetchError.
func (f *Fetcher) FetchJSON(ctx context.Context, method, url string, headers map[string]string, body, v any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Cause: fmt.Errorf("encoding request body: %w", err)}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return &FetchError{Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &FetchError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &FetchError{Status: resp.StatusCode, Body: string(snippet)}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &FetchError{Status: resp.StatusCode, Cause: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
