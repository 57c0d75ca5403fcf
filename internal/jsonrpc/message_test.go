package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Request(t *testing.T) {
	msg, err := Classify([]byte(`{"jsonrpc":"2.0","id":1,"method":"textDocument/hover","params":{"a":1}}`))
	require.NoError(t, err)

	req, ok := msg.(*RequestMessage)
	require.True(t, ok, "expected a request, got %T", msg)
	assert.Equal(t, "textDocument/hover", req.Method)
	assert.JSONEq(t, "1", string(req.ID))
	assert.JSONEq(t, `{"a":1}`, string(req.Params))
}

func TestClassify_RequestStringID(t *testing.T) {
	msg, err := Classify([]byte(`{"jsonrpc":"2.0","id":"abc","method":"m"}`))
	require.NoError(t, err)

	req, ok := msg.(*RequestMessage)
	require.True(t, ok)
	assert.JSONEq(t, `"abc"`, string(req.ID))
}

func TestClassify_RequestNullID(t *testing.T) {
	// "id": null is still an id: the discrimination is on field presence.
	msg, err := Classify([]byte(`{"jsonrpc":"2.0","id":null,"method":"m"}`))
	require.NoError(t, err)

	_, ok := msg.(*RequestMessage)
	assert.True(t, ok, "expected a request, got %T", msg)
}

func TestClassify_Notification(t *testing.T) {
	msg, err := Classify([]byte(`{"jsonrpc":"2.0","method":"initialized","params":{}}`))
	require.NoError(t, err)

	notif, ok := msg.(*NotificationMessage)
	require.True(t, ok, "expected a notification, got %T", msg)
	assert.Equal(t, "initialized", notif.Method)
}

func TestClassify_Response(t *testing.T) {
	msg, err := Classify([]byte(`{"jsonrpc":"2.0","id":3,"result":{"ok":true}}`))
	require.NoError(t, err)

	resp, ok := msg.(*ResponseMessage)
	require.True(t, ok, "expected a response, got %T", msg)
	assert.JSONEq(t, "3", string(resp.ID))
	assert.Nil(t, resp.Error)
}

func TestClassify_ErrorResponse(t *testing.T) {
	msg, err := Classify([]byte(`{"jsonrpc":"2.0","id":3,"error":{"code":-32601,"message":"nope"}}`))
	require.NoError(t, err)

	resp, ok := msg.(*ResponseMessage)
	require.True(t, ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, MethodNotFound, resp.Error.Code)
	assert.Equal(t, "nope", resp.Error.Message)
}

func TestClassify_ParseError(t *testing.T) {
	_, err := Classify([]byte(`{"jsonrpc":`))
	assert.Error(t, err)
}

func TestNewErrorResponse_NullID(t *testing.T) {
	resp := NewErrorResponse(nil, NewResponseError(ParseError, "bad input"))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"bad input"}}`, string(data))
}

func TestNewResponse_EchoesID(t *testing.T) {
	resp := NewResponse(json.RawMessage("7"), json.RawMessage(`"ok"`))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":7,"result":"ok"}`, string(data))
}

func TestResponseError_Error(t *testing.T) {
	err := NewResponseError(InternalError, "boom")
	assert.Contains(t, err.Error(), "-32603")
	assert.Contains(t, err.Error(), "boom")
}
