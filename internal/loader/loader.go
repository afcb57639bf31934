// Package loader fetches resources adjacent to intercepted requests,
// primarily the `.map` files published next to generated scripts.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Result is the outcome of one fetch.
type Result struct {
	// Status is the HTTP status code.
	Status int

	// StatusText is the HTTP status line text.
	StatusText string

	// OK is true for 2xx responses.
	OK bool

	// Content is the response body. Empty when the fetch did not succeed.
	Content string
}

// Loader fetches a resource by URL. No retries are attempted; a failed
// fetch simply means no source map for that script.
type Loader interface {
	Fetch(ctx context.Context, url string) (Result, error)
}

// HTTPLoader is the default Loader backed by net/http.
type HTTPLoader struct {
	client *http.Client
}

// NewHTTPLoader creates a loader using the given client, or
// http.DefaultClient when nil.
func NewHTTPLoader(client *http.Client) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{client: client}
}

// Fetch performs a single GET of the URL.
func (l *HTTPLoader) Fetch(ctx context.Context, url string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	result := Result{
		Status:     resp.StatusCode,
		StatusText: resp.Status,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
	}

	if !result.OK {
		return result, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", url, err)
	}
	result.Content = string(body)

	return result, nil
}
