// Package server provides the core LSP server state and management.
package server

import (
	"sync"
)

// State tracks where the server is in the protocol lifecycle.
type State int

const (
	// Created is the state before the initialize request has been handled.
	Created State = iota
	// Initialized is the normal operating state.
	Initialized
	// ShuttingDown is entered on the shutdown request; only exit is expected.
	ShuttingDown
	// Exited is entered on the exit notification and ends the serve loop.
	Exited
)

// ClientInfo identifies the connected client, as reported at initialize.
type ClientInfo struct {
	Name    string
	Version string
}

// Server holds the state of the LSP server. One instance is created by the
// main loop and passed by reference into every handler; it is not a global.
type Server struct {
	// documents stores all open documents
	documents *DocumentStore

	// clientInfo holds the client identity from the initialize request
	clientInfo *ClientInfo

	// state tracks the protocol lifecycle
	state State

	// mutex protects server state
	mu sync.RWMutex
}

// New creates a new LSP server instance.
func New() *Server {
	return &Server{
		documents: NewDocumentStore(),
		state:     Created,
	}
}

// Documents returns the document store.
func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState moves the server to the given lifecycle state.
func (s *Server) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// SetClientInfo records the client identity.
func (s *Server) SetClientInfo(info *ClientInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientInfo = info
}

// GetClientInfo returns the client identity, or nil if none was reported.
func (s *Server) GetClientInfo() *ClientInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientInfo
}
