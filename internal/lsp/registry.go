// Package lsp implements LSP protocol handlers and the method dispatch that
// routes decoded messages to them.
package lsp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/descend-lang/descend-lsp/internal/jsonrpc"
	"github.com/descend-lang/descend-lsp/internal/server"
)

var log = commonlog.GetLogger("descend-lsp.lsp")

// RequestFunc is a bound request handler: it deserializes the raw params,
// invokes the handler against the server context and reports a result or a
// response error.
type RequestFunc func(srv *server.Server, params json.RawMessage) (any, *jsonrpc.ResponseError)

// NotificationFunc is a bound notification handler. Its outcome never
// produces a response; errors are only logged.
type NotificationFunc func(srv *server.Server, params json.RawMessage) error

// Handler routes messages to their method handlers. The method tables are
// plain maps populated once by NewHandler, so the routing is inspectable as
// data rather than baked into a switch.
type Handler struct {
	srv           *server.Server
	requests      map[string]RequestFunc
	notifications map[string]NotificationFunc
}

// NewHandler builds the handler registry for the given server context.
func NewHandler(srv *server.Server) *Handler {
	h := &Handler{
		srv:           srv,
		requests:      make(map[string]RequestFunc),
		notifications: make(map[string]NotificationFunc),
	}

	h.registerRequest(protocol.MethodInitialize, request(Initialize))
	h.registerRequest(protocol.MethodShutdown, func(srv *server.Server, _ json.RawMessage) (any, *jsonrpc.ResponseError) {
		return Shutdown(srv)
	})
	h.registerRequest(protocol.MethodTextDocumentHover, request(Hover))

	h.registerNotification(protocol.MethodInitialized, notification(Initialized))
	h.registerNotification(protocol.MethodExit, func(srv *server.Server, _ json.RawMessage) error {
		return Exit(srv)
	})
	h.registerNotification(protocol.MethodTextDocumentDidOpen, notification(DidOpen))
	h.registerNotification(protocol.MethodTextDocumentDidChange, notification(DidChange))
	h.registerNotification(protocol.MethodTextDocumentDidClose, notification(DidClose))

	return h
}

func (h *Handler) registerRequest(method string, fn RequestFunc) {
	h.requests[method] = fn
}

func (h *Handler) registerNotification(method string, fn NotificationFunc) {
	h.notifications[method] = fn
}

// request adapts a typed request handler into a RequestFunc. Params that do
// not deserialize into P produce an InvalidParams response error; handler
// errors that are not already response errors are wrapped as InternalError.
func request[P any](handle func(srv *server.Server, params *P) (any, error)) RequestFunc {
	return func(srv *server.Server, raw json.RawMessage) (any, *jsonrpc.ResponseError) {
		var params P
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &params); err != nil {
				return nil, jsonrpc.NewResponseError(jsonrpc.InvalidParams, fmt.Sprintf("invalid params: %v", err))
			}
		}

		result, err := handle(srv, &params)
		if err != nil {
			var respErr *jsonrpc.ResponseError
			if errors.As(err, &respErr) {
				return nil, respErr
			}
			return nil, jsonrpc.NewResponseError(jsonrpc.InternalError, err.Error())
		}

		return result, nil
	}
}

// notification adapts a typed notification handler into a NotificationFunc.
func notification[P any](handle func(srv *server.Server, params *P) error) NotificationFunc {
	return func(srv *server.Server, raw json.RawMessage) error {
		var params P
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &params); err != nil {
				return fmt.Errorf("invalid params: %w", err)
			}
		}
		return handle(srv, &params)
	}
}

// Route dispatches a classified message. Requests yield a response message;
// notifications and responses yield nil.
func (h *Handler) Route(msg jsonrpc.Message) *jsonrpc.ResponseMessage {
	switch msg := msg.(type) {
	case *jsonrpc.RequestMessage:
		return h.routeRequest(msg)
	case *jsonrpc.NotificationMessage:
		h.routeNotification(msg)
		return nil
	case *jsonrpc.ResponseMessage:
		// A reply to a server-initiated request. The server does not send
		// requests yet; unrecognized response ids must not error.
		log.Debugf("ignoring response for id %s", string(msg.ID))
		return nil
	default:
		return nil
	}
}

func (h *Handler) routeRequest(req *jsonrpc.RequestMessage) *jsonrpc.ResponseMessage {
	if respErr := h.checkRequestState(req.Method); respErr != nil {
		return jsonrpc.NewErrorResponse(req.ID, respErr)
	}

	handle, ok := h.requests[req.Method]
	if !ok {
		message := fmt.Sprintf("Unhandled request %s!", req.Method)
		log.Warningf("%s", message)
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewResponseError(jsonrpc.MethodNotFound, message))
	}

	result, respErr := handle(h.srv, req.Params)
	if respErr != nil {
		return jsonrpc.NewErrorResponse(req.ID, respErr)
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewResponseError(jsonrpc.InternalError, fmt.Sprintf("marshal result: %v", err)))
	}

	return jsonrpc.NewResponse(req.ID, resultBytes)
}

func (h *Handler) routeNotification(notif *jsonrpc.NotificationMessage) {
	handle, ok := h.notifications[notif.Method]
	if !ok {
		log.Warningf("unhandled notification %q", notif.Method)
		return
	}

	if state := h.srv.State(); state == server.Created && notif.Method != protocol.MethodExit {
		log.Warningf("dropping notification %q: server not initialized", notif.Method)
		return
	}

	if err := handle(h.srv, notif.Params); err != nil {
		log.Errorf("notification %q: %s", notif.Method, err.Error())
	}
}

// checkRequestState gates requests against the lifecycle state: before
// initialize only initialize is served, and after shutdown nothing is.
func (h *Handler) checkRequestState(method string) *jsonrpc.ResponseError {
	switch h.srv.State() {
	case server.Created:
		if method != protocol.MethodInitialize {
			return jsonrpc.NewResponseError(jsonrpc.ServerNotInitialized, fmt.Sprintf("received %s before initialize", method))
		}
	case server.Initialized:
		if method == protocol.MethodInitialize {
			return jsonrpc.NewResponseError(jsonrpc.InvalidRequest, "server is already initialized")
		}
	case server.ShuttingDown, server.Exited:
		return jsonrpc.NewResponseError(jsonrpc.InvalidRequest, fmt.Sprintf("received %s while shutting down", method))
	}
	return nil
}
