package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/descend-lang/descend-lsp/internal/jsonrpc"
	"github.com/descend-lang/descend-lsp/internal/server"
)

// Hover handles the textDocument/hover request. It returns the stored
// document's line tail at the requested position as plain text.
func Hover(srv *server.Server, params *protocol.HoverParams) (any, error) {
	uri := params.TextDocument.URI
	position := params.Position

	log.Debugf("hover request at %s line %d, character %d", uri, position.Line, position.Character)

	value, err := srv.Documents().ValueAt(uri, position)
	if err != nil {
		return nil, jsonrpc.NewResponseError(jsonrpc.RequestFailed, err.Error())
	}

	hover := &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: value,
		},
	}

	return hover, nil
}
