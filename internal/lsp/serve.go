package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/descend-lang/descend-lsp/internal/jsonrpc"
	"github.com/descend-lang/descend-lsp/internal/server"
)

// Serve runs the synchronous request/response loop over the given byte
// stream: read one framed message to completion, classify, route, write the
// response, repeat. Framing and parse failures become error responses and the
// loop continues; only a closed stream or the exit notification ends it.
func (h *Handler) Serve(reader io.Reader, writer io.Writer) error {
	buffered := bufio.NewReader(reader)

	for {
		raw, err := jsonrpc.ReadRawMessage(buffered)
		if err != nil {
			if err == io.EOF {
				log.Infof("stream closed")
				return nil
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrClosedPipe) {
				return fmt.Errorf("stream closed: %w", err)
			}

			log.Errorf("framing: %s", err.Error())
			if err := h.writeResponse(writer, jsonrpc.NewErrorResponse(nil,
				jsonrpc.NewResponseError(jsonrpc.InternalError, err.Error()))); err != nil {
				return err
			}
			continue
		}

		msg, err := jsonrpc.Classify([]byte(raw.Content))
		if err != nil {
			log.Errorf("classify: %s", err.Error())
			if err := h.writeResponse(writer, jsonrpc.NewErrorResponse(nil,
				jsonrpc.NewResponseError(jsonrpc.ParseError, err.Error()))); err != nil {
				return err
			}
			continue
		}

		if response := h.Route(msg); response != nil {
			if err := h.writeResponse(writer, response); err != nil {
				return err
			}
		}

		if h.srv.State() == server.Exited {
			log.Infof("exited")
			return nil
		}
	}
}

func (h *Handler) writeResponse(writer io.Writer, response *jsonrpc.ResponseMessage) error {
	content, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	return jsonrpc.NewRawMessage(content).Write(writer)
}
