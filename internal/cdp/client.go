package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
)

// Client is a DevTools client that communicates with one page target.
type Client struct {
	transport Transport
	seq       int64
	pending   map[int]*pendingCall
	pendingMu sync.RWMutex
	handlers  eventHandlers
	handlerMu sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	err       error
	errMu     sync.RWMutex
}

// pendingCall tracks a command awaiting its response.
type pendingCall struct {
	done      chan struct{}
	closeOnce sync.Once
	response  *Response
	err       error
}

// close safely closes the done channel.
func (p *pendingCall) close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}

// eventHandlers stores event handler functions.
type eventHandlers struct {
	onConsoleAPICalled       func(ConsoleAPICalledEvent)
	onWebSocketFrameReceived func(WebSocketFrameReceivedEvent)
	onRequestPaused          func(RequestPausedEvent)
	onAny                    func(Event)
}

// NewClient creates a new client with the given transport and starts its
// receive loop.
func NewClient(transport Transport) *Client {
	c := &Client{
		transport: transport,
		pending:   make(map[int]*pendingCall),
		done:      make(chan struct{}),
	}
	go c.receiveLoop()
	return c
}

// Close closes the client and underlying transport.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return c.transport.Close()
}

// Error returns any error that occurred during receive.
func (c *Client) Error() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()
	return c.err
}

// receiveLoop continuously receives messages from the transport.
func (c *Client) receiveLoop() {
	for {
		data, err := c.transport.Receive()
		if err != nil {
			// Check if we're shutting down
			select {
			case <-c.done:
				return
			default:
			}

			c.errMu.Lock()
			c.err = err
			c.errMu.Unlock()

			// Cancel all pending calls
			c.pendingMu.Lock()
			for _, call := range c.pending {
				call.err = err
				call.close()
			}
			c.pending = make(map[int]*pendingCall)
			c.pendingMu.Unlock()
			return
		}

		select {
		case <-c.done:
			return
		default:
		}

		c.handleMessage(data)
	}
}

// handleMessage classifies and dispatches one received message. Events
// carry a method name; responses carry the id of the originating command.
func (c *Client) handleMessage(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return
	}

	if env.Method != "" {
		c.handleEvent(Event{Method: env.Method, Params: env.Params})
		return
	}
	c.handleResponse(&Response{ID: env.ID, Result: env.Result, Error: env.Error})
}

// handleResponse completes the pending call for a response.
func (c *Client) handleResponse(resp *Response) {
	c.pendingMu.Lock()
	call, ok := c.pending[resp.ID]
	if ok {
		delete(c.pending, resp.ID)
	}
	c.pendingMu.Unlock()

	if ok {
		call.response = resp
		call.close()
	}
}

// handleEvent dispatches an event to the registered handler.
func (c *Client) handleEvent(evt Event) {
	c.handlerMu.RLock()
	handlers := c.handlers
	c.handlerMu.RUnlock()

	switch evt.Method {
	case "Runtime.consoleAPICalled":
		if handlers.onConsoleAPICalled != nil {
			var params ConsoleAPICalledEvent
			if err := json.Unmarshal(evt.Params, &params); err == nil {
				handlers.onConsoleAPICalled(params)
			}
		}
	case "Network.webSocketFrameReceived":
		if handlers.onWebSocketFrameReceived != nil {
			var params WebSocketFrameReceivedEvent
			if err := json.Unmarshal(evt.Params, &params); err == nil {
				handlers.onWebSocketFrameReceived(params)
			}
		}
	case "Fetch.requestPaused":
		if handlers.onRequestPaused != nil {
			var params RequestPausedEvent
			if err := json.Unmarshal(evt.Params, &params); err == nil {
				handlers.onRequestPaused(params)
			}
		}
	}

	// Always call onAny if set
	if handlers.onAny != nil {
		handlers.onAny(evt)
	}
}

// Call sends a command and waits for its response. The result, if non-nil,
// is unmarshalled from the response body. A failed command is reported to
// this caller only; the session stays usable.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	seq := int(atomic.AddInt64(&c.seq, 1))

	var paramsJSON json.RawMessage
	if params != nil {
		var err error
		paramsJSON, err = json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal params: %w", err)
		}
	}

	req := Request{
		ID:     seq,
		Method: method,
		Params: paramsJSON,
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	pending := &pendingCall{
		done: make(chan struct{}),
	}

	c.pendingMu.Lock()
	c.pending[seq] = pending
	c.pendingMu.Unlock()

	if err := c.transport.Send(data); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, seq)
		c.pendingMu.Unlock()
		return fmt.Errorf("send request: %w", err)
	}

	select {
	case <-ctx.Done():
		c.pendingMu.Lock()
		delete(c.pending, seq)
		c.pendingMu.Unlock()
		return ctx.Err()
	case <-pending.done:
	}

	if pending.err != nil {
		return pending.err
	}
	if pending.response.Error != nil {
		return fmt.Errorf("%s failed: %s", method, pending.response.Error.Message)
	}
	if result != nil && pending.response.Result != nil {
		if err := json.Unmarshal(pending.response.Result, result); err != nil {
			return fmt.Errorf("unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// Event handler setters

// OnConsoleAPICalled sets the handler for Runtime.consoleAPICalled.
func (c *Client) OnConsoleAPICalled(handler func(ConsoleAPICalledEvent)) {
	c.handlerMu.Lock()
	c.handlers.onConsoleAPICalled = handler
	c.handlerMu.Unlock()
}

// OnWebSocketFrameReceived sets the handler for
// Network.webSocketFrameReceived.
func (c *Client) OnWebSocketFrameReceived(handler func(WebSocketFrameReceivedEvent)) {
	c.handlerMu.Lock()
	c.handlers.onWebSocketFrameReceived = handler
	c.handlerMu.Unlock()
}

// OnRequestPaused sets the handler for Fetch.requestPaused.
func (c *Client) OnRequestPaused(handler func(RequestPausedEvent)) {
	c.handlerMu.Lock()
	c.handlers.onRequestPaused = handler
	c.handlerMu.Unlock()
}

// OnAnyEvent sets a handler for all events.
func (c *Client) OnAnyEvent(handler func(Event)) {
	c.handlerMu.Lock()
	c.handlers.onAny = handler
	c.handlerMu.Unlock()
}

// Protocol command methods

// RuntimeEnable enables Runtime domain events.
func (c *Client) RuntimeEnable(ctx context.Context) error {
	return c.Call(ctx, "Runtime.enable", nil, nil)
}

// NetworkEnable enables Network domain events.
func (c *Client) NetworkEnable(ctx context.Context) error {
	return c.Call(ctx, "Network.enable", nil, nil)
}

// PageEnable enables Page domain events.
func (c *Client) PageEnable(ctx context.Context) error {
	return c.Call(ctx, "Page.enable", nil, nil)
}

// FetchEnable enables request interception for the given patterns.
func (c *Client) FetchEnable(ctx context.Context, patterns []RequestPattern) error {
	return c.Call(ctx, "Fetch.enable", FetchEnableArgs{Patterns: patterns}, nil)
}

// ContinueRequest lets a paused request proceed unmodified.
func (c *Client) ContinueRequest(ctx context.Context, requestID string) error {
	return c.Call(ctx, "Fetch.continueRequest", ContinueRequestArgs{RequestID: requestID}, nil)
}

// FailRequest aborts a paused request with the given reason.
func (c *Client) FailRequest(ctx context.Context, requestID, reason string) error {
	return c.Call(ctx, "Fetch.failRequest", FailRequestArgs{RequestID: requestID, ErrorReason: reason}, nil)
}

// GetProperties fetches the properties of a remote object.
func (c *Client) GetProperties(ctx context.Context, args GetPropertiesArgs) ([]PropertyDescriptor, error) {
	var result GetPropertiesResult
	if err := c.Call(ctx, "Runtime.getProperties", args, &result); err != nil {
		return nil, err
	}
	return result.Result, nil
}
