package mirror

import (
	"net/url"
	"strings"

	"github.com/cvasquez/conmirror/internal/cdp"
	"github.com/cvasquez/conmirror/internal/sourcemap"
)

// Position is a source location. Line and column are as reported: the
// session reports generated positions 0-based, the resolver returns
// original positions 1-based. Source is a filesystem-style path, empty
// when unresolved.
type Position struct {
	Line   int
	Column int
	Source string
}

// Record is the per-event value assembled from one console call. A call
// that carried no stack frames produces the zero Record, which is never
// forwarded to subscribers.
type Record struct {
	// Kind is the console method tag ("log", "warn", "error", ...).
	Kind string

	// Args are the raw argument references, session-scoped.
	Args []cdp.RemoteObject

	// Previews are the rendered argument summaries, index-aligned with
	// Args.
	Previews []Preview

	// Generated is the position reported by the runtime.
	Generated Position

	// Original is the position resolved through registered source maps.
	Original Position
}

// ExistsOnClient reports whether the record points at resolvable original
// source: it has arguments, a resolved source path, and a non-zero original
// line. An original line of 0 counts as absent.
func (r Record) ExistsOnClient() bool {
	return len(r.Args) > 0 && r.Original.Source != "" && r.Original.Line != 0
}

// BuildRecord constructs a Record from a console-call event, resolving the
// top frame's generated position through the resolver. The resolver is
// 1-based while the session reports 0-based, hence the +1 on both axes.
func BuildRecord(ev cdp.ConsoleAPICalledEvent, resolver sourcemap.Resolver) Record {
	if ev.StackTrace == nil || len(ev.StackTrace.CallFrames) == 0 {
		return Record{}
	}

	frame := ev.StackTrace.CallFrames[0]
	rec := Record{
		Kind: ev.Type,
		Args: ev.Args,
		Generated: Position{
			Line:   frame.LineNumber,
			Column: frame.ColumnNumber,
			Source: sourcePath(frame.URL),
		},
	}

	mapping, ok := resolver.Resolve(frame.URL, sourcemap.Position{
		Line:   frame.LineNumber + 1,
		Column: frame.ColumnNumber + 1,
	})
	if ok {
		rec.Original = Position{
			Line:   mapping.Line,
			Column: mapping.Column,
			Source: sourcePath(mapping.Source),
		}
	}

	rec.Previews = make([]Preview, 0, len(ev.Args))
	for _, arg := range ev.Args {
		rec.Previews = append(rec.Previews, BuildPreview(arg))
	}

	return rec
}

// sourcePath reduces a URL to its path component, stripped of scheme and
// host, with a leading slash enforced. Empty input stays empty.
func sourcePath(raw string) string {
	if raw == "" {
		return ""
	}

	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
		if p == "" {
			p = u.Opaque
		}
	}
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
