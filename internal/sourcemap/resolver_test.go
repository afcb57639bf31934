package sourcemap

import (
	"strings"
	"testing"
)

const scriptURL = "http://localhost:8080/bundle.js"

// One segment: generated line 10 column 5 (1-based) maps to app.ts line 3
// column 1.
const mapContent = `{"version":3,"sources":["app.ts"],"names":[],"mappings":";;;;;;;;;IAEA"}`

func TestRegisterMapInvalid(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "garbage"},
		{"empty", ""},
		{"wrong version", `{"version":1,"sources":[],"mappings":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.RegisterMap(scriptURL, tt.content); err == nil {
				t.Error("expected parse error")
			}
		})
	}

	if r.Registered(scriptURL) {
		t.Error("failed registration must not be recorded")
	}
}

func TestResolveUnregistered(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Resolve(scriptURL, Position{Line: 10, Column: 5}); ok {
		t.Error("expected miss for unregistered url")
	}
}

func TestResolve(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterMap(scriptURL, mapContent); err != nil {
		t.Fatalf("register map: %v", err)
	}

	m, ok := r.Resolve(scriptURL, Position{Line: 10, Column: 5})
	if !ok {
		t.Fatal("expected mapping at 10:5")
	}

	if !strings.HasSuffix(m.Source, "app.ts") {
		t.Errorf("Source = %q, want app.ts", m.Source)
	}
	if m.Line != 3 || m.Column != 1 {
		t.Errorf("position = %d:%d, want 3:1", m.Line, m.Column)
	}
}

func TestResolveBeforeFirstMapping(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterMap(scriptURL, mapContent); err != nil {
		t.Fatalf("register map: %v", err)
	}

	if _, ok := r.Resolve(scriptURL, Position{Line: 1, Column: 1}); ok {
		t.Error("expected miss before the first mapped position")
	}
}

func TestRegisterMapReplaces(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterMap(scriptURL, mapContent); err != nil {
		t.Fatalf("register map: %v", err)
	}

	// Same layout, different original file.
	replacement := `{"version":3,"sources":["other.ts"],"names":[],"mappings":";;;;;;;;;IAEA"}`
	if err := r.RegisterMap(scriptURL, replacement); err != nil {
		t.Fatalf("replace map: %v", err)
	}

	m, ok := r.Resolve(scriptURL, Position{Line: 10, Column: 5})
	if !ok {
		t.Fatal("expected mapping after replacement")
	}
	if !strings.HasSuffix(m.Source, "other.ts") {
		t.Errorf("Source = %q, want other.ts", m.Source)
	}
}

func TestClear(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterMap(scriptURL, mapContent); err != nil {
		t.Fatalf("register map: %v", err)
	}

	r.Clear()

	if r.Registered(scriptURL) {
		t.Error("expected registry to be empty after Clear")
	}
	if _, ok := r.Resolve(scriptURL, Position{Line: 10, Column: 5}); ok {
		t.Error("expected miss after Clear")
	}
}
