package mirror

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cvasquez/conmirror/internal/cdp"
)

// Preview is the rendered, human-facing summary of a remote object plus
// enough identity to request further expansion later.
type Preview struct {
	// Title is the one-line rendered form.
	Title string

	// ObjectID is the session-scoped identifier, empty for plain literals.
	ObjectID string

	// IsNode is true when the object is DOM-node-like. Node properties are
	// mostly accessors, so expansion issues an extra accessor round trip.
	IsNode bool
}

// BuildPreview renders ref and wraps it with its expansion identity.
func BuildPreview(ref cdp.RemoteObject) Preview {
	return Preview{
		Title:    Render(ref),
		ObjectID: ref.ObjectID,
		IsNode:   ref.Subtype == "node",
	}
}

// Render converts one remote object reference into a display string. It is
// a pure function of its input: only the inline preview the session already
// returned is consulted, the object graph is never traversed.
func Render(ref cdp.RemoteObject) string {
	// Literals carry their value directly.
	if len(ref.Value) > 0 {
		return renderLiteral(gjson.ParseBytes(ref.Value))
	}

	// "Object" and "Function" say nothing the braces don't already say.
	classDescription := ""
	if ref.ClassName != "" && ref.ClassName != "Object" && ref.ClassName != "Function" {
		classDescription = ref.ClassName + ": "
	}

	switch {
	case ref.Type == "object" && ref.Subtype == "":
		return classDescription + "{ " + joinProperties(ref.Preview) + " }"

	case ref.Subtype == "array":
		return "[ " + joinElements(ref.Preview) + " ]"

	case ref.Subtype == "promise":
		state, result := promiseParts(ref.Preview)
		return ref.Description + ": { <" + state + ">: " + result + " }"

	case ref.Subtype == "map" || ref.Subtype == "set" ||
		ref.Subtype == "weakmap" || ref.Subtype == "weakset":
		return ref.Description + ": { " + joinEntries(ref.Preview) + " }"

	default:
		return classDescription + ref.Description
	}
}

// renderLiteral applies the quoting rule to a parsed literal: strings wrap
// in single quotes, everything else renders as its plain textual form.
func renderLiteral(value gjson.Result) string {
	if value.Type == gjson.String {
		return "'" + value.String() + "'"
	}
	return value.Raw
}

// renderProperty applies the quoting rule to an inline property's own
// type/value pair.
func renderProperty(prop cdp.PropertyPreview) string {
	if prop.Type == "string" {
		return "'" + prop.Value + "'"
	}
	return prop.Value
}

// renderEntrySide applies the quoting rule to a map/set entry key or value.
func renderEntrySide(p *cdp.ObjectPreview) string {
	if p.Type == "string" {
		return "'" + p.Description + "'"
	}
	return p.Description
}

// joinProperties renders the inline properties of a plain object.
func joinProperties(preview *cdp.ObjectPreview) string {
	if preview == nil {
		return ""
	}
	parts := make([]string, 0, len(preview.Properties))
	for _, prop := range preview.Properties {
		parts = append(parts, prop.Name+": "+renderProperty(prop))
	}
	return strings.Join(parts, ", ")
}

// joinElements renders the inline elements of an array.
func joinElements(preview *cdp.ObjectPreview) string {
	if preview == nil {
		return ""
	}
	parts := make([]string, 0, len(preview.Properties))
	for _, prop := range preview.Properties {
		parts = append(parts, renderProperty(prop))
	}
	return strings.Join(parts, ", ")
}

// promiseParts extracts the conventional (state, settled value) pair from a
// promise's inline preview. Index 0 is the state, index 1 the value.
func promiseParts(preview *cdp.ObjectPreview) (string, string) {
	state, result := "", ""
	if preview != nil && len(preview.Properties) > 0 {
		state = renderProperty(preview.Properties[0])
	}
	if preview != nil && len(preview.Properties) > 1 {
		result = renderProperty(preview.Properties[1])
	}
	return state, result
}

// joinEntries renders the inline entries of a map or set. An entry with
// both key and value renders "key => value", a value-only entry renders
// just the value, and an entry with no value is omitted.
func joinEntries(preview *cdp.ObjectPreview) string {
	if preview == nil {
		return ""
	}
	parts := make([]string, 0, len(preview.Entries))
	for _, entry := range preview.Entries {
		switch {
		case entry.Value == nil:
			continue
		case entry.Key != nil:
			parts = append(parts, renderEntrySide(entry.Key)+" => "+renderEntrySide(entry.Value))
		default:
			parts = append(parts, renderEntrySide(entry.Value))
		}
	}
	return strings.Join(parts, ", ")
}
