package jsonrpc

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestReadRawMessage(t *testing.T) {
	msg, err := ReadRawMessage(reader("Content-Length: 2\r\n\r\n{}"))
	require.NoError(t, err)
	assert.Equal(t, 2, msg.ContentLength)
	assert.Equal(t, "{}", msg.Content)
	assert.Empty(t, msg.ContentType)
}

func TestReadRawMessage_ContentType(t *testing.T) {
	input := "Content-Length: 4\r\nContent-Type: application/vscode-jsonrpc; charset=utf-8\r\n\r\nnull"
	msg, err := ReadRawMessage(reader(input))
	require.NoError(t, err)
	assert.Equal(t, "application/vscode-jsonrpc; charset=utf-8", msg.ContentType)
	assert.Equal(t, "null", msg.Content)
}

func TestReadRawMessage_LeadingBlankLine(t *testing.T) {
	msg, err := ReadRawMessage(reader("\r\nContent-Length: 2\r\n\r\n{}"))
	require.NoError(t, err)
	assert.Equal(t, "{}", msg.Content)
}

func TestReadRawMessage_HeaderOrder(t *testing.T) {
	// Headers may come in any order.
	input := "Content-Type: text/plain\r\nContent-Length: 3\r\n\r\nabc"
	msg, err := ReadRawMessage(reader(input))
	require.NoError(t, err)
	assert.Equal(t, "abc", msg.Content)
	assert.Equal(t, "text/plain", msg.ContentType)
}

func TestReadRawMessage_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "missing content length",
			input: "Content-Type: text/plain\r\n\r\n",
			want:  ErrMissingContentLength,
		},
		{
			name:  "unparseable content length",
			input: "Content-Length: twelve\r\n\r\n",
			want:  ErrInvalidContentLength,
		},
		{
			name:  "negative content length",
			input: "Content-Length: -1\r\n\r\n",
			want:  ErrInvalidContentLength,
		},
		{
			name:  "malformed header line",
			input: "Content-Length 2\r\n\r\n{}",
			want:  ErrHeaderSyntax,
		},
		{
			name:  "unexpected header field",
			input: "Content-Length: 2\r\nX-Custom: 1\r\n\r\n{}",
			want:  ErrUnexpectedHeader,
		},
		{
			name:  "invalid utf-8 content",
			input: "Content-Length: 2\r\n\r\n\xff\xfe",
			want:  ErrContentDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRawMessage(reader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadRawMessage_EOF(t *testing.T) {
	_, err := ReadRawMessage(reader(""))
	assert.Equal(t, io.EOF, err)
}

func TestReadRawMessage_TruncatedContent(t *testing.T) {
	_, err := ReadRawMessage(reader("Content-Length: 10\r\n\r\n{}"))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestWriteRawMessage(t *testing.T) {
	var buf bytes.Buffer
	msg := NewRawMessage([]byte(`{"jsonrpc":"2.0"}`))
	require.NoError(t, msg.Write(&buf))
	assert.Equal(t, "Content-Length: 17\r\n\r\n{\"jsonrpc\":\"2.0\"}", buf.String())
}

func TestWriteRawMessage_ContentType(t *testing.T) {
	var buf bytes.Buffer
	msg := NewRawMessage([]byte("{}"))
	msg.ContentType = "application/vscode-jsonrpc; charset=utf-8"
	require.NoError(t, msg.Write(&buf))
	assert.Equal(t,
		"Content-Length: 2\r\nContent-Type: application/vscode-jsonrpc; charset=utf-8\r\n\r\n{}",
		buf.String())
}

func TestRawMessage_RoundTrip(t *testing.T) {
	input := "Content-Length: 14\r\n\r\n{\"method\":\"m\"}"

	msg, err := ReadRawMessage(reader(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, msg.Write(&buf))

	echoed, err := ReadRawMessage(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, msg.Content, echoed.Content)
}
