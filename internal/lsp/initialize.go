package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/descend-lang/descend-lsp/internal/jsonrpc"
	"github.com/descend-lang/descend-lsp/internal/server"
)

const (
	// ServerName is reported to the client in the initialize result.
	ServerName = "descend-lsp"

	// ServerVersion is the server version reported to the client.
	ServerVersion = "0.1.0"
)

// Initialize handles the LSP initialize request. This is the first request
// sent by the client and establishes the server capabilities.
func Initialize(srv *server.Server, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		info := &server.ClientInfo{Name: params.ClientInfo.Name}
		if params.ClientInfo.Version != nil {
			info.Version = *params.ClientInfo.Version
		}
		srv.SetClientInfo(info)
		log.Infof("client: %s %s", info.Name, info.Version)
	}
	if params.Locale != nil {
		log.Debugf("client locale: %s", *params.Locale)
	}

	// Build server capabilities: open/close tracking, incremental text sync
	// and hover only.
	changeKind := protocol.TextDocumentSyncKindIncremental
	openClose := true

	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: &openClose,
			Change:    &changeKind,
		},
		HoverProvider: true,
	}

	srv.SetState(server.Initialized)

	serverVersion := ServerVersion

	result := protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &serverVersion,
		},
	}

	return result, nil
}

// Initialized handles the initialized notification from the client.
// This is sent after the initialize response, signaling that the client is
// ready.
func Initialized(srv *server.Server, params *protocol.InitializedParams) error {
	log.Infof("client ready")
	return nil
}

// Shutdown handles the shutdown request. The client asks the server to stop
// serving; the actual process exit follows on the exit notification.
func Shutdown(srv *server.Server) (any, *jsonrpc.ResponseError) {
	srv.SetState(server.ShuttingDown)
	log.Infof("shutting down")
	return nil, nil
}

// Exit handles the exit notification and ends the serve loop.
func Exit(srv *server.Server) error {
	srv.SetState(server.Exited)
	return nil
}
