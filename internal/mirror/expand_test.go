package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cvasquez/conmirror/internal/cdp"
)

// mockFetcher implements PropertyFetcher for testing.
type mockFetcher struct {
	calls   []cdp.GetPropertiesArgs
	results [][]cdp.PropertyDescriptor
	errs    []error
}

func (m *mockFetcher) GetProperties(_ context.Context, args cdp.GetPropertiesArgs) ([]cdp.PropertyDescriptor, error) {
	i := len(m.calls)
	m.calls = append(m.calls, args)

	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	var result []cdp.PropertyDescriptor
	if i < len(m.results) {
		result = m.results[i]
	}
	return result, err
}

func numberValue(raw string) *cdp.RemoteObject {
	return &cdp.RemoteObject{Type: "number", Value: json.RawMessage(raw)}
}

func TestExpandWithoutObjectID(t *testing.T) {
	fetcher := &mockFetcher{}
	e := NewExpander(fetcher)

	records, err := e.Expand(context.Background(), Preview{Title: "'hi'"})
	if err != nil {
		t.Fatalf("Expand() error = %v, want nil", err)
	}
	if records != nil {
		t.Errorf("Expand() = %v, want nil", records)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("expected no round trips, got %d", len(fetcher.calls))
	}
}

func TestExpandSingleRoundTrip(t *testing.T) {
	fetcher := &mockFetcher{
		results: [][]cdp.PropertyDescriptor{{
			{Name: "a", Value: numberValue("1"), Enumerable: true, IsOwn: true, Writable: true},
			{Name: "b", Value: &cdp.RemoteObject{Type: "string", Value: json.RawMessage(`"x"`)}, Enumerable: true},
		}},
	}
	e := NewExpander(fetcher)

	records, err := e.Expand(context.Background(), Preview{ObjectID: "obj-1"})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	if len(fetcher.calls) != 1 {
		t.Fatalf("expected 1 round trip, got %d", len(fetcher.calls))
	}
	call := fetcher.calls[0]
	if call.ObjectID != "obj-1" || !call.OwnProperties || !call.GeneratePreview || call.AccessorPropertiesOnly {
		t.Errorf("unexpected args: %+v", call)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "a" || records[0].Preview.Title != "1" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if !records[0].Descriptor.Enumerable || !records[0].Descriptor.IsOwn || !records[0].Descriptor.Writable {
		t.Errorf("records[0] flags = %+v", records[0].Descriptor)
	}
	if records[1].Name != "b" || records[1].Preview.Title != "'x'" {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestExpandNodeIssuesAccessorRoundTrip(t *testing.T) {
	fetcher := &mockFetcher{
		results: [][]cdp.PropertyDescriptor{
			{{Name: "childElementCount", Value: numberValue("3"), Enumerable: true}},
			{{Name: "innerText", Value: &cdp.RemoteObject{Type: "string", Value: json.RawMessage(`"hello"`)}}},
		},
	}
	e := NewExpander(fetcher)

	records, err := e.Expand(context.Background(), Preview{ObjectID: "node-1", IsNode: true})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	if len(fetcher.calls) != 2 {
		t.Fatalf("expected 2 round trips for a node, got %d", len(fetcher.calls))
	}
	second := fetcher.calls[1]
	if !second.AccessorPropertiesOnly || !second.GeneratePreview {
		t.Errorf("accessor call args = %+v", second)
	}
	if second.OwnProperties {
		t.Error("accessor call must not request own properties")
	}

	if len(records) != 2 {
		t.Fatalf("expected combined records, got %d", len(records))
	}
	if records[1].Name != "innerText" || records[1].Preview.Title != "'hello'" {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestExpandDropsValuelessDescriptors(t *testing.T) {
	fetcher := &mockFetcher{
		results: [][]cdp.PropertyDescriptor{{
			{Name: "plain", Value: numberValue("1"), Enumerable: true},
			{Name: "getterOnly", Get: &cdp.RemoteObject{Type: "function"}},
			{Name: "setterOnly", Set: &cdp.RemoteObject{Type: "function"}},
		}},
	}
	e := NewExpander(fetcher)

	records, err := e.Expand(context.Background(), Preview{ObjectID: "obj-1"})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(records) != 1 || records[0].Name != "plain" {
		t.Errorf("expected only the materialized property, got %+v", records)
	}
}

func TestExpandPropagatesTransportFailure(t *testing.T) {
	transportErr := errors.New("session gone")
	fetcher := &mockFetcher{errs: []error{transportErr}}
	e := NewExpander(fetcher)

	_, err := e.Expand(context.Background(), Preview{ObjectID: "obj-1"})
	if !errors.Is(err, transportErr) {
		t.Errorf("Expand() error = %v, want %v", err, transportErr)
	}
}

func TestExpandNodeSecondTripFailure(t *testing.T) {
	transportErr := errors.New("session gone")
	fetcher := &mockFetcher{
		results: [][]cdp.PropertyDescriptor{{{Name: "a", Value: numberValue("1")}}},
		errs:    []error{nil, transportErr},
	}
	e := NewExpander(fetcher)

	_, err := e.Expand(context.Background(), Preview{ObjectID: "node-1", IsNode: true})
	if !errors.Is(err, transportErr) {
		t.Errorf("Expand() error = %v, want %v", err, transportErr)
	}
}
