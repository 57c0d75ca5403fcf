package lsp

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/descend-lang/descend-lsp/internal/server"
)

// DidOpen handles the textDocument/didOpen notification.
// This is sent when a document is opened in the editor.
func DidOpen(srv *server.Server, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	srv.Documents().Open(uri, text)

	log.Infof("document opened: %s (version %d, language %s, %d bytes)",
		uri, params.TextDocument.Version, params.TextDocument.LanguageID, len(text))

	return nil
}

// DidChange handles the textDocument/didChange notification. The content
// changes are applied to the stored document in array order.
func DidChange(srv *server.Server, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	if err := srv.Documents().ApplyChanges(uri, params.ContentChanges); err != nil {
		return fmt.Errorf("didChange %s: %w", uri, err)
	}

	log.Debugf("document changed: %s (version %d, %d changes)",
		uri, params.TextDocument.Version, len(params.ContentChanges))

	return nil
}

// DidClose handles the textDocument/didClose notification.
// This is sent when a document is closed in the editor.
func DidClose(srv *server.Server, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	if err := srv.Documents().Close(uri); err != nil {
		return fmt.Errorf("didClose %s: %w", uri, err)
	}

	log.Infof("document closed: %s", uri)

	return nil
}
