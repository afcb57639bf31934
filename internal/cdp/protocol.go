package cdp

import (
	"encoding/json"
)

// Request represents a protocol command sent to the browser.
type Request struct {
	ID     int             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents a command response from the browser.
type Response struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ResponseError  `json:"error,omitempty"`
}

// ResponseError contains command failure details.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Event represents a protocol event from the browser.
type Event struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// envelope is the superset shape used to classify incoming messages.
// Events carry a method, responses carry an id.
type envelope struct {
	ID     int             `json:"id"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ResponseError  `json:"error,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// RemoteObject is a session-scoped reference to a value living inside the
// instrumented page. The object id is only valid while the session is alive.
type RemoteObject struct {
	Type        string          `json:"type"`
	Subtype     string          `json:"subtype,omitempty"`
	ClassName   string          `json:"className,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	Description string          `json:"description,omitempty"`
	ObjectID    string          `json:"objectId,omitempty"`
	Preview     *ObjectPreview  `json:"preview,omitempty"`
}

// ObjectPreview is the session-provided partial view of an object returned
// alongside the reference, without a further round trip.
type ObjectPreview struct {
	Type        string            `json:"type"`
	Subtype     string            `json:"subtype,omitempty"`
	Description string            `json:"description,omitempty"`
	Overflow    bool              `json:"overflow,omitempty"`
	Properties  []PropertyPreview `json:"properties"`
	Entries     []EntryPreview    `json:"entries,omitempty"`
}

// PropertyPreview is one inline property of an ObjectPreview.
type PropertyPreview struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Value   string `json:"value,omitempty"`
	Subtype string `json:"subtype,omitempty"`
}

// EntryPreview is one inline map/set entry of an ObjectPreview.
type EntryPreview struct {
	Key   *ObjectPreview `json:"key,omitempty"`
	Value *ObjectPreview `json:"value,omitempty"`
}

// PropertyDescriptor describes one property returned by
// Runtime.getProperties.
type PropertyDescriptor struct {
	Name         string        `json:"name"`
	Value        *RemoteObject `json:"value,omitempty"`
	Writable     bool          `json:"writable,omitempty"`
	Get          *RemoteObject `json:"get,omitempty"`
	Set          *RemoteObject `json:"set,omitempty"`
	Configurable bool          `json:"configurable"`
	Enumerable   bool          `json:"enumerable"`
	IsOwn        bool          `json:"isOwn,omitempty"`
}

// CallFrame is one entry of a captured call stack, carrying the originating
// script URL and 0-based generated line/column.
type CallFrame struct {
	FunctionName string `json:"functionName"`
	ScriptID     string `json:"scriptId"`
	URL          string `json:"url"`
	LineNumber   int    `json:"lineNumber"`
	ColumnNumber int    `json:"columnNumber"`
}

// StackTrace is the call stack captured for a console call.
type StackTrace struct {
	Description string      `json:"description,omitempty"`
	CallFrames  []CallFrame `json:"callFrames"`
}

// ConsoleAPICalledEvent is Runtime.consoleAPICalled.
type ConsoleAPICalledEvent struct {
	Type       string         `json:"type"`
	Args       []RemoteObject `json:"args"`
	Timestamp  float64        `json:"timestamp"`
	StackTrace *StackTrace    `json:"stackTrace,omitempty"`
}

// WebSocketFrame is the payload of a frame observed on a page WebSocket.
type WebSocketFrame struct {
	Opcode      float64 `json:"opcode"`
	Mask        bool    `json:"mask"`
	PayloadData string  `json:"payloadData"`
}

// WebSocketFrameReceivedEvent is Network.webSocketFrameReceived.
type WebSocketFrameReceivedEvent struct {
	RequestID string         `json:"requestId"`
	Timestamp float64        `json:"timestamp"`
	Response  WebSocketFrame `json:"response"`
}

// PausedRequest is the request portion of Fetch.requestPaused.
type PausedRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers,omitempty"`
}

// RequestPausedEvent is Fetch.requestPaused.
type RequestPausedEvent struct {
	RequestID    string        `json:"requestId"`
	Request      PausedRequest `json:"request"`
	FrameID      string        `json:"frameId"`
	ResourceType string        `json:"resourceType"`
}

// RequestPattern selects which requests Fetch.enable will pause.
type RequestPattern struct {
	URLPattern   string `json:"urlPattern,omitempty"`
	ResourceType string `json:"resourceType,omitempty"`
	RequestStage string `json:"requestStage,omitempty"`
}

// FetchEnableArgs are the arguments for Fetch.enable.
type FetchEnableArgs struct {
	Patterns []RequestPattern `json:"patterns,omitempty"`
}

// ContinueRequestArgs are the arguments for Fetch.continueRequest.
type ContinueRequestArgs struct {
	RequestID string `json:"requestId"`
}

// FailRequestArgs are the arguments for Fetch.failRequest.
type FailRequestArgs struct {
	RequestID   string `json:"requestId"`
	ErrorReason string `json:"errorReason"`
}

// GetPropertiesArgs are the arguments for Runtime.getProperties.
type GetPropertiesArgs struct {
	ObjectID               string `json:"objectId"`
	OwnProperties          bool   `json:"ownProperties,omitempty"`
	AccessorPropertiesOnly bool   `json:"accessorPropertiesOnly,omitempty"`
	GeneratePreview        bool   `json:"generatePreview,omitempty"`
}

// GetPropertiesResult is the result of Runtime.getProperties.
type GetPropertiesResult struct {
	Result           []PropertyDescriptor `json:"result"`
	ExceptionDetails json.RawMessage      `json:"exceptionDetails,omitempty"`
}
