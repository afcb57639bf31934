package event

import (
	"testing"

	"github.com/cvasquez/conmirror/internal/mirror"
)

func TestPublishLogFanOut(t *testing.T) {
	n := NewNotifier()

	var first, second []mirror.Record
	n.SubscribeLog(func(rec mirror.Record) { first = append(first, rec) })
	n.SubscribeLog(func(rec mirror.Record) { second = append(second, rec) })

	rec := mirror.Record{Kind: "log"}
	n.PublishLog(rec)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("fan-out counts = %d, %d, want 1, 1", len(first), len(second))
	}
	if first[0].Kind != "log" {
		t.Errorf("delivered record kind = %q", first[0].Kind)
	}
}

func TestPublishUpdate(t *testing.T) {
	n := NewNotifier()

	var updates []bool
	n.SubscribeUpdate(func(updated bool) { updates = append(updates, updated) })

	n.PublishUpdate(true)
	n.PublishUpdate(true)

	if len(updates) != 2 || !updates[0] || !updates[1] {
		t.Errorf("updates = %v, want [true true]", updates)
	}
}

func TestTopicsAreIndependent(t *testing.T) {
	n := NewNotifier()

	logs := 0
	updates := 0
	n.SubscribeLog(func(mirror.Record) { logs++ })
	n.SubscribeUpdate(func(bool) { updates++ })

	n.PublishLog(mirror.Record{Kind: "error"})

	if logs != 1 || updates != 0 {
		t.Errorf("logs = %d, updates = %d, want 1, 0", logs, updates)
	}
}

func TestUnsubscribe(t *testing.T) {
	n := NewNotifier()

	calls := 0
	sub := n.SubscribeLog(func(mirror.Record) { calls++ })

	if !n.Unsubscribe(sub) {
		t.Fatal("expected unsubscribe to succeed")
	}
	if n.Unsubscribe(sub) {
		t.Error("second unsubscribe should report unknown")
	}
	if n.Unsubscribe(Subscription("bogus")) {
		t.Error("unknown subscription should report false")
	}

	n.PublishLog(mirror.Record{})
	if calls != 0 {
		t.Errorf("handler called %d times after unsubscribe", calls)
	}
}

func TestUnsubscribeUpdateTopic(t *testing.T) {
	n := NewNotifier()

	calls := 0
	sub := n.SubscribeUpdate(func(bool) { calls++ })

	if !n.Unsubscribe(sub) {
		t.Fatal("expected unsubscribe to succeed")
	}

	n.PublishUpdate(true)
	if calls != 0 {
		t.Errorf("handler called %d times after unsubscribe", calls)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	n := NewNotifier()

	// Must not panic and still count publications.
	n.PublishLog(mirror.Record{})
	n.PublishUpdate(true)

	stats := n.Stats()
	if stats.LogsPublished != 1 || stats.UpdatesPublished != 1 {
		t.Errorf("published counters = %d, %d, want 1, 1",
			stats.LogsPublished, stats.UpdatesPublished)
	}
	if stats.Delivered != 0 {
		t.Errorf("delivered = %d, want 0", stats.Delivered)
	}
}

func TestStats(t *testing.T) {
	n := NewNotifier()

	n.SubscribeLog(func(mirror.Record) {})
	n.SubscribeLog(func(mirror.Record) {})
	n.SubscribeUpdate(func(bool) {})

	n.PublishLog(mirror.Record{})
	n.PublishUpdate(true)

	stats := n.Stats()
	if stats.Subscribers != 3 {
		t.Errorf("Subscribers = %d, want 3", stats.Subscribers)
	}
	if stats.LogsPublished != 1 || stats.UpdatesPublished != 1 {
		t.Errorf("published = %d, %d, want 1, 1",
			stats.LogsPublished, stats.UpdatesPublished)
	}
	if stats.Delivered != 3 {
		t.Errorf("Delivered = %d, want 3", stats.Delivered)
	}
}
