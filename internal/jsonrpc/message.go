package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the JSON-RPC protocol version carried by every message.
const Version = "2.0"

// NullID is the id used in error responses when the request id could not be
// recovered from the incoming bytes.
var NullID = json.RawMessage("null")

// Error codes defined by JSON-RPC 2.0 and the LSP extensions.
const (
	ParseError     int = -32700
	InvalidRequest int = -32600
	MethodNotFound int = -32601
	InvalidParams  int = -32602
	InternalError  int = -32603

	ServerNotInitialized int = -32002
	UnknownErrorCode     int = -32001
	RequestFailed        int = -32802
	ServerCancelled      int = -32802
	ContentModified      int = -32801
	RequestCancelled     int = -32800
)

// Message is one of RequestMessage, ResponseMessage or NotificationMessage.
type Message interface {
	message()
}

// RequestMessage expects a reply carrying the same id.
// The id and params are kept raw: the id is echoed back verbatim and the
// params shape is only known to the handler the method resolves to.
type RequestMessage struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// ResponseMessage carries either a result or an error, never both.
type ResponseMessage struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// NotificationMessage expects no reply.
type NotificationMessage struct {
	Jsonrpc string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func (*RequestMessage) message()      {}
func (*ResponseMessage) message()     {}
func (*NotificationMessage) message() {}

// ResponseError is the error member of a response.
type ResponseError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewResponseError creates a ResponseError without data.
func NewResponseError(code int, message string) *ResponseError {
	return &ResponseError{Code: code, Message: message}
}

// NewResponse builds a success response for the given request id.
func NewResponse(id json.RawMessage, result json.RawMessage) *ResponseMessage {
	if id == nil {
		id = NullID
	}
	return &ResponseMessage{Jsonrpc: Version, ID: id, Result: result}
}

// NewErrorResponse builds an error response for the given request id.
func NewErrorResponse(id json.RawMessage, err *ResponseError) *ResponseMessage {
	if id == nil {
		id = NullID
	}
	return &ResponseMessage{Jsonrpc: Version, ID: id, Error: err}
}

// Classify parses JSON text and decides the message kind structurally:
// a method with an id is a request, a method without an id is a notification,
// no method at all is a response. The id check is on field presence, not
// value: "id": null still counts as present. Untagged first-match decoding
// cannot make this distinction deterministically, so the branching here is
// explicit.
func Classify(content []byte) (Message, error) {
	var probe struct {
		ID     json.RawMessage `json:"id"`
		Method *string         `json:"method"`
	}
	if err := json.Unmarshal(content, &probe); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	switch {
	case probe.Method != nil && probe.ID != nil:
		var msg RequestMessage
		if err := json.Unmarshal(content, &msg); err != nil {
			return nil, fmt.Errorf("parse request: %w", err)
		}
		return &msg, nil
	case probe.Method != nil:
		var msg NotificationMessage
		if err := json.Unmarshal(content, &msg); err != nil {
			return nil, fmt.Errorf("parse notification: %w", err)
		}
		return &msg, nil
	default:
		var msg ResponseMessage
		if err := json.Unmarshal(content, &msg); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		return &msg, nil
	}
}
