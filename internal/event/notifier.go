// Package event provides the notification channel between the mirroring
// core and its subscribers.
//
// The topic set is closed: "log" carries a mirror.Record, "update" carries
// a bool that is always true when emitted. Subscribers register a handler
// per topic; delivery happens on the publisher's goroutine.
package event

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/cvasquez/conmirror/internal/mirror"
)

// Subscription identifies one registered handler.
type Subscription string

// Stats reports notifier activity counters.
type Stats struct {
	LogsPublished    uint64
	UpdatesPublished uint64
	Delivered        uint64
	Subscribers      int
}

// Notifier fans log and update notifications out to subscribers.
type Notifier struct {
	mu         sync.RWMutex
	logSubs    map[Subscription]func(mirror.Record)
	updateSubs map[Subscription]func(bool)

	logsPublished    atomic.Uint64
	updatesPublished atomic.Uint64
	delivered        atomic.Uint64
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		logSubs:    make(map[Subscription]func(mirror.Record)),
		updateSubs: make(map[Subscription]func(bool)),
	}
}

// SubscribeLog registers a handler for forwarded log records.
func (n *Notifier) SubscribeLog(fn func(mirror.Record)) Subscription {
	sub := Subscription(uuid.NewString())
	n.mu.Lock()
	n.logSubs[sub] = fn
	n.mu.Unlock()
	return sub
}

// SubscribeUpdate registers a handler for content-update notifications.
func (n *Notifier) SubscribeUpdate(fn func(bool)) Subscription {
	sub := Subscription(uuid.NewString())
	n.mu.Lock()
	n.updateSubs[sub] = fn
	n.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription from whichever topic holds it.
// Returns false when the subscription is unknown.
func (n *Notifier) Unsubscribe(sub Subscription) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.logSubs[sub]; ok {
		delete(n.logSubs, sub)
		return true
	}
	if _, ok := n.updateSubs[sub]; ok {
		delete(n.updateSubs, sub)
		return true
	}
	return false
}

// PublishLog delivers a record to all log subscribers.
func (n *Notifier) PublishLog(rec mirror.Record) {
	n.mu.RLock()
	handlers := make([]func(mirror.Record), 0, len(n.logSubs))
	for _, fn := range n.logSubs {
		handlers = append(handlers, fn)
	}
	n.mu.RUnlock()

	n.logsPublished.Add(1)
	for _, fn := range handlers {
		fn(rec)
		n.delivered.Add(1)
	}
}

// PublishUpdate delivers an update notification to all update subscribers.
func (n *Notifier) PublishUpdate(updated bool) {
	n.mu.RLock()
	handlers := make([]func(bool), 0, len(n.updateSubs))
	for _, fn := range n.updateSubs {
		handlers = append(handlers, fn)
	}
	n.mu.RUnlock()

	n.updatesPublished.Add(1)
	for _, fn := range handlers {
		fn(updated)
		n.delivered.Add(1)
	}
}

// Stats returns current activity counters.
func (n *Notifier) Stats() Stats {
	n.mu.RLock()
	subscribers := len(n.logSubs) + len(n.updateSubs)
	n.mu.RUnlock()

	return Stats{
		LogsPublished:    n.logsPublished.Load(),
		UpdatesPublished: n.updatesPublished.Load(),
		Delivered:        n.delivered.Load(),
		Subscribers:      subscribers,
	}
}
