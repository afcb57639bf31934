package mirror

import (
	"context"
	"log"
	"sync"

	"github.com/cvasquez/conmirror/internal/cdp"
	"github.com/cvasquez/conmirror/internal/loader"
	"github.com/cvasquez/conmirror/internal/sourcemap"
)

// blockedReason is the interception abort reason for ignorable resources.
const blockedReason = "BlockedByClient"

// Session is the remote debugging surface the router consumes.
type Session interface {
	OnConsoleAPICalled(func(cdp.ConsoleAPICalledEvent))
	OnWebSocketFrameReceived(func(cdp.WebSocketFrameReceivedEvent))
	OnRequestPaused(func(cdp.RequestPausedEvent))
	ContinueRequest(ctx context.Context, requestID string) error
	FailRequest(ctx context.Context, requestID, reason string) error
}

// Notifier receives the router's output notifications.
type Notifier interface {
	PublishLog(Record)
	PublishUpdate(bool)
}

// Router orchestrates one mirroring session: console events become log
// records, intercepted script requests register their source maps, and
// transport-frame hash changes become update notifications.
type Router struct {
	session  Session
	resolver sourcemap.Resolver
	loader   loader.Loader
	notifier Notifier
	decoder  *ReloadDecoder

	mu     sync.RWMutex
	ignore map[string]bool
	kinds  map[string]bool

	wg sync.WaitGroup
}

// Option configures a Router.
type Option func(*Router)

// WithIgnoreResourceTypes sets resource types whose intercepted requests
// are aborted rather than allowed through.
func WithIgnoreResourceTypes(types []string) Option {
	return func(r *Router) {
		r.ignore = toSet(types)
	}
}

// WithKindFilter restricts forwarding to the given console kinds. An empty
// filter forwards every kind.
func WithKindFilter(kinds []string) Option {
	return func(r *Router) {
		r.kinds = toSet(kinds)
	}
}

// NewRouter creates a router over the given collaborators. Call Attach to
// start receiving events.
func NewRouter(session Session, resolver sourcemap.Resolver, ldr loader.Loader, notifier Notifier, opts ...Option) *Router {
	r := &Router{
		session:  session,
		resolver: resolver,
		loader:   ldr,
		notifier: notifier,
		decoder:  NewReloadDecoder(),
		ignore:   make(map[string]bool),
		kinds:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach registers the router's handlers on the session. Console and
// interception handlers run in their own goroutines so a suspended round
// trip never blocks unrelated events; frame decoding stays on the event
// timeline because baseline ordering matters.
func (r *Router) Attach(ctx context.Context) {
	r.session.OnConsoleAPICalled(func(ev cdp.ConsoleAPICalledEvent) {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.handleConsole(ev)
		}()
	})

	r.session.OnWebSocketFrameReceived(func(ev cdp.WebSocketFrameReceivedEvent) {
		r.handleFrame(ev)
	})

	r.session.OnRequestPaused(func(ev cdp.RequestPausedEvent) {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.handleRequest(ctx, ev)
		}()
	})
}

// Wait blocks until all in-flight handlers have finished. Used on
// shutdown.
func (r *Router) Wait() {
	r.wg.Wait()
}

// SetIgnoreResourceTypes replaces the ignored resource types at runtime.
func (r *Router) SetIgnoreResourceTypes(types []string) {
	r.mu.Lock()
	r.ignore = toSet(types)
	r.mu.Unlock()
}

// SetKindFilter replaces the console kind filter at runtime.
func (r *Router) SetKindFilter(kinds []string) {
	r.mu.Lock()
	r.kinds = toSet(kinds)
	r.mu.Unlock()
}

// handleConsole builds a record from one console call and forwards it when
// it points at resolvable original source.
func (r *Router) handleConsole(ev cdp.ConsoleAPICalledEvent) {
	rec := BuildRecord(ev, r.resolver)
	if !rec.ExistsOnClient() {
		return
	}

	r.mu.RLock()
	filtered := len(r.kinds) > 0 && !r.kinds[rec.Kind]
	r.mu.RUnlock()
	if filtered {
		return
	}

	r.notifier.PublishLog(rec)
}

// handleFrame feeds one observed frame to the reload decoder. Only a
// changed hash produces a notification; setting the baseline does not.
func (r *Router) handleFrame(ev cdp.WebSocketFrameReceivedEvent) {
	if r.decoder.Decode(ev.Response.PayloadData) == SignalChanged {
		r.notifier.PublishUpdate(true)
	}
}

// handleRequest resolves one intercepted request. Scripts trigger a side
// fetch of the adjacent map resource before proceeding unmodified;
// ignorable resource types are aborted; everything else continues
// untouched. Failures degrade to "no map for this script" and never abort
// the session.
func (r *Router) handleRequest(ctx context.Context, ev cdp.RequestPausedEvent) {
	r.mu.RLock()
	ignored := r.ignore[ev.ResourceType]
	r.mu.RUnlock()

	switch {
	case ev.ResourceType == "Script":
		r.registerMapFor(ctx, ev.Request.URL)
		if err := r.session.ContinueRequest(ctx, ev.RequestID); err != nil {
			log.Printf("mirror: continue %s: %v", ev.Request.URL, err)
		}

	case ignored:
		if err := r.session.FailRequest(ctx, ev.RequestID, blockedReason); err != nil {
			log.Printf("mirror: abort %s: %v", ev.Request.URL, err)
		}

	default:
		if err := r.session.ContinueRequest(ctx, ev.RequestID); err != nil {
			log.Printf("mirror: continue %s: %v", ev.Request.URL, err)
		}
	}
}

// registerMapFor fetches <scriptURL>.map and registers it with the
// resolver keyed by the script URL.
func (r *Router) registerMapFor(ctx context.Context, scriptURL string) {
	result, err := r.loader.Fetch(ctx, scriptURL+".map")
	if err != nil || !result.OK || result.Content == "" {
		return
	}
	if err := r.resolver.RegisterMap(scriptURL, result.Content); err != nil {
		log.Printf("mirror: register map for %s: %v", scriptURL, err)
	}
}

// toSet converts a list to a membership set.
func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
