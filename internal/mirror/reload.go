package mirror

import (
	"sync"

	"github.com/tidwall/gjson"
)

// Signal is the outcome of decoding one transport frame.
type Signal int

const (
	// SignalNone means the frame carried no relevant change information.
	SignalNone Signal = iota

	// SignalBaselineSet means the first content hash was recorded. No
	// notification is due: the baseline is the reference point, not a
	// change.
	SignalBaselineSet

	// SignalChanged means the content hash differs from the baseline.
	SignalChanged
)

// String returns the signal name.
func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalBaselineSet:
		return "baseline-set"
	case SignalChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// ReloadDecoder extracts a content-change signal from SockJS frames
// observed on the page's dev-server WebSocket. Framing convention: the
// first byte is a type tag; only 'a' (array of messages) is meaningful, and
// its body is a JSON array of independently encoded message strings. A
// message whose kind is "hash" carries the content identity.
//
// The baseline lives for one decoder; a new session gets a new decoder.
type ReloadDecoder struct {
	mu       sync.Mutex
	baseline string
	seen     bool
}

// NewReloadDecoder creates a decoder with no recorded baseline.
func NewReloadDecoder() *ReloadDecoder {
	return &ReloadDecoder{}
}

// Decode processes one raw frame payload. Unknown tags and undecodable
// bodies yield SignalNone, never an error.
func (d *ReloadDecoder) Decode(payload string) Signal {
	if len(payload) < 2 || payload[0] != 'a' {
		return SignalNone
	}

	body := payload[1:]
	if !gjson.Valid(body) {
		return SignalNone
	}
	frame := gjson.Parse(body)
	if !frame.IsArray() {
		return SignalNone
	}

	signal := SignalNone
	for _, elem := range frame.Array() {
		if elem.Type != gjson.String {
			continue
		}
		encoded := elem.String()
		if !gjson.Valid(encoded) {
			continue
		}
		msg := gjson.Parse(encoded)
		if msg.Get("type").String() != "hash" {
			continue
		}
		signal = d.observe(msg.Get("data").String())
	}
	return signal
}

// observe applies one hash value to the baseline state.
func (d *ReloadDecoder) observe(hash string) Signal {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.seen {
		d.baseline = hash
		d.seen = true
		return SignalBaselineSet
	}
	if hash == d.baseline {
		return SignalNone
	}
	d.baseline = hash
	return SignalChanged
}
