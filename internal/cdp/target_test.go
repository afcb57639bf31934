package cdp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const targetListBody = `[
	{"id":"A1","type":"page","title":"App","url":"http://localhost:8080/","webSocketDebuggerUrl":"ws://127.0.0.1:9222/devtools/page/A1"},
	{"id":"B2","type":"iframe","title":"Frame","url":"http://localhost:8080/frame","webSocketDebuggerUrl":"ws://127.0.0.1:9222/devtools/page/B2"},
	{"id":"C3","type":"page","title":"Docs","url":"http://example.com/docs","webSocketDebuggerUrl":"ws://127.0.0.1:9222/devtools/page/C3"}
]`

func TestListTargets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/list" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(targetListBody))
	}))
	defer srv.Close()

	targets, err := ListTargets(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("list targets: %v", err)
	}

	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(targets))
	}

	if targets[0].ID != "A1" || targets[0].Type != "page" {
		t.Errorf("unexpected first target: %+v", targets[0])
	}

	if targets[0].WebSocketDebuggerURL != "ws://127.0.0.1:9222/devtools/page/A1" {
		t.Errorf("debugger url not parsed: %q", targets[0].WebSocketDebuggerURL)
	}
}

func TestListTargetsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/list" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := ListTargets(context.Background(), srv.URL+"/"); err != nil {
		t.Fatalf("list targets with trailing slash: %v", err)
	}
}

func TestListTargetsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := ListTargets(context.Background(), srv.URL); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestListTargetsUnreachable(t *testing.T) {
	if _, err := ListTargets(context.Background(), "http://127.0.0.1:1"); err == nil {
		t.Error("expected error for unreachable endpoint")
	}
}

func TestFindPage(t *testing.T) {
	targets := []Target{
		{ID: "F1", Type: "iframe", URL: "http://localhost:8080/frame", WebSocketDebuggerURL: "ws://x/F1"},
		{ID: "P1", Type: "page", URL: "http://localhost:8080/", WebSocketDebuggerURL: "ws://x/P1"},
		{ID: "P2", Type: "page", URL: "http://example.com/docs", WebSocketDebuggerURL: "ws://x/P2"},
		{ID: "P3", Type: "page", URL: "http://example.com/other"},
	}

	tests := []struct {
		name      string
		substring string
		wantID    string
		wantErr   bool
	}{
		{"first page wins", "", "P1", false},
		{"filtered by url", "example.com/docs", "P2", false},
		{"skips targets without debugger url", "example.com/other", "", true},
		{"no match", "missing", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindPage(targets, tt.substring)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("find page: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("got target %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestFindPageEmptyList(t *testing.T) {
	if _, err := FindPage(nil, ""); err == nil {
		t.Error("expected error for empty target list")
	}
}
