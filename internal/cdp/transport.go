// Package cdp implements a Chrome DevTools Protocol client.
package cdp

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/gorilla/websocket"
)

// Transport represents a DevTools transport layer. One Send or Receive
// carries exactly one JSON protocol message.
type Transport interface {
	// Send sends a message to the browser.
	Send(msg []byte) error

	// Receive receives a message from the browser.
	Receive() ([]byte, error)

	// Close closes the transport.
	Close() error
}

// MaxMessageSize is the maximum allowed protocol message size (32MB).
// Runtime previews for large pages can run long; the browser itself caps
// messages well below this.
const MaxMessageSize = 32 * 1024 * 1024

// WebSocketTransport implements Transport over a WebSocket connection to a
// page's debugger URL.
type WebSocketTransport struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewWebSocketTransport dials the given ws:// debugger URL.
func NewWebSocketTransport(debuggerURL string) (*WebSocketTransport, error) {
	conn, _, err := websocket.DefaultDialer.Dial(debuggerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", debuggerURL, err)
	}
	conn.SetReadLimit(MaxMessageSize)

	return &WebSocketTransport{conn: conn}, nil
}

// NewWebSocketTransportFromConn creates a transport from an established
// connection.
func NewWebSocketTransportFromConn(conn *websocket.Conn) *WebSocketTransport {
	conn.SetReadLimit(MaxMessageSize)
	return &WebSocketTransport{conn: conn}
}

// Send sends one protocol message as a text frame.
func (t *WebSocketTransport) Send(msg []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Receive receives one protocol message.
func (t *WebSocketTransport) Receive() ([]byte, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}
	return data, nil
}

// Close closes the WebSocket connection.
func (t *WebSocketTransport) Close() error {
	return t.conn.Close()
}

// PipeTransport implements Transport over a ReadWriteCloser using the
// NUL-delimited framing of the browser's --remote-debugging-pipe mode.
type PipeTransport struct {
	rwc    io.ReadWriteCloser
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewPipeTransport creates a pipe transport from any ReadWriteCloser.
func NewPipeTransport(rwc io.ReadWriteCloser) *PipeTransport {
	return &PipeTransport{
		rwc:    rwc,
		reader: bufio.NewReader(rwc),
	}
}

// Send sends one NUL-terminated protocol message.
func (t *PipeTransport) Send(msg []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.rwc.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if _, err := t.rwc.Write([]byte{0}); err != nil {
		return fmt.Errorf("write delimiter: %w", err)
	}
	return nil
}

// Receive receives one NUL-terminated protocol message.
func (t *PipeTransport) Receive() ([]byte, error) {
	data, err := t.reader.ReadBytes(0)
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}
	return data[:len(data)-1], nil
}

// Close closes the underlying pipe.
func (t *PipeTransport) Close() error {
	return t.rwc.Close()
}
