// Package jsonrpc implements the LSP base protocol: Content-Length framing
// over a byte stream and the JSON-RPC 2.0 message envelopes.
package jsonrpc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Framing errors. All of them are recoverable at the loop boundary; only the
// underlying stream errors (io.EOF and friends) are fatal.
var (
	ErrMissingContentLength = errors.New("missing Content-Length header")
	ErrInvalidContentLength = errors.New("invalid Content-Length header")
	ErrHeaderSyntax         = errors.New("header field must be of the form \"Name: Value\"")
	ErrUnexpectedHeader     = errors.New("unexpected header field")
	ErrContentDecode        = errors.New("content is not valid UTF-8")
)

// RawMessage is a single framed base-protocol message:
//
//	Content-Length: 123\r\n
//	Content-Type: application/vscode-jsonrpc; charset=utf-8\r\n
//	\r\n
//	{ ... }
//
// Content-Type is optional and omitted when empty.
type RawMessage struct {
	ContentLength int
	ContentType   string
	Content       string
}

// NewRawMessage frames the given content.
func NewRawMessage(content []byte) *RawMessage {
	return &RawMessage{
		ContentLength: len(content),
		Content:       string(content),
	}
}

// ReadRawMessage reads one framed message from the stream. It consumes header
// lines until a blank line, then exactly Content-Length bytes of content.
// A blank line before the first header field is tolerated and skipped.
func ReadRawMessage(reader *bufio.Reader) (*RawMessage, error) {
	msg := &RawMessage{}
	readAny := false
	seenLength := false

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" && !readAny {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read header: %w", err)
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if readAny {
				break
			}
			// Blank line before any header field; skip it.
			continue
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrHeaderSyntax, line)
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		switch name {
		case "Content-Length":
			length, err := strconv.Atoi(value)
			if err != nil || length < 0 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidContentLength, value)
			}
			msg.ContentLength = length
			seenLength = true
		case "Content-Type":
			msg.ContentType = value
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedHeader, name)
		}
		readAny = true
	}

	if !seenLength {
		return nil, ErrMissingContentLength
	}

	content := make([]byte, msg.ContentLength)
	if _, err := io.ReadFull(reader, content); err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, ErrContentDecode
	}
	msg.Content = string(content)

	return msg, nil
}

// Write emits the framed message. The content bytes are written verbatim,
// with no trailing newline.
func (m *RawMessage) Write(writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Content-Length: %d\r\n", m.ContentLength); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if m.ContentType != "" {
		if _, err := fmt.Fprintf(writer, "Content-Type: %s\r\n", m.ContentType); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if _, err := io.WriteString(writer, "\r\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := io.WriteString(writer, m.Content); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	return nil
}
