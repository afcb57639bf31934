package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Target describes one debuggable target listed by the browser's HTTP
// endpoint.
type Target struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// ListTargets fetches the target list from a browser debugging endpoint
// such as http://127.0.0.1:9222.
func ListTargets(ctx context.Context, endpoint string) ([]Target, error) {
	url := strings.TrimRight(endpoint, "/") + "/json/list"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build target request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list targets: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read target list: %w", err)
	}

	var targets []Target
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("parse target list: %w", err)
	}

	return targets, nil
}

// FindPage returns the first page target, optionally filtered to one whose
// URL contains urlSubstring.
func FindPage(targets []Target, urlSubstring string) (Target, error) {
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if urlSubstring != "" && !strings.Contains(t.URL, urlSubstring) {
			continue
		}
		if t.WebSocketDebuggerURL == "" {
			continue
		}
		return t, nil
	}
	return Target{}, fmt.Errorf("no debuggable page target found")
}
