package server

import (
	"errors"
	"fmt"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/descend-lang/descend-lsp/internal/document"
)

// ErrUnknownDocument reports an operation against a URI with no open document.
// It is always recoverable: the store is left unchanged.
var ErrUnknownDocument = errors.New("unknown document")

// DocumentStore manages all open documents, keyed by URI. It is the only
// component that creates and destroys text documents.
type DocumentStore struct {
	documents map[string]*document.TextDocument
	mu        sync.RWMutex
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*document.TextDocument),
	}
}

// Open creates the document for the given URI from its full text, replacing
// any document already open at that URI.
func (ds *DocumentStore) Open(uri string, text string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = document.New(text)
}

// ApplyChanges applies each content change to the document at the given URI,
// in array order; later changes see the effects of earlier ones. Changes are
// either incremental events carrying a range or whole-document replacements.
func (ds *DocumentStore) ApplyChanges(uri string, changes []any) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	doc, ok := ds.documents[uri]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDocument, uri)
	}

	for i, change := range changes {
		switch event := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if event.Range == nil {
				ds.documents[uri] = document.New(event.Text)
				doc = ds.documents[uri]
				continue
			}
			if err := doc.Edit(*event.Range, event.Text); err != nil {
				return fmt.Errorf("change %d: %w", i, err)
			}
		case protocol.TextDocumentContentChangeEventWhole:
			ds.documents[uri] = document.New(event.Text)
			doc = ds.documents[uri]
		default:
			return fmt.Errorf("change %d: unsupported content change type %T", i, change)
		}
	}

	return nil
}

// Close destroys the document at the given URI.
func (ds *DocumentStore) Close(uri string) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if _, ok := ds.documents[uri]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDocument, uri)
	}
	delete(ds.documents, uri)

	return nil
}

// ValueAt returns the addressed line's text from the given position to the
// end of the line.
func (ds *DocumentStore) ValueAt(uri string, pos protocol.Position) (string, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDocument, uri)
	}

	return doc.TailAt(pos)
}

// Get retrieves the document at the given URI.
func (ds *DocumentStore) Get(uri string) (*document.TextDocument, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]

	return doc, ok
}

// Len returns the number of open documents.
func (ds *DocumentStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	return len(ds.documents)
}

// List returns all open document URIs.
func (ds *DocumentStore) List() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	uris := make([]string, 0, len(ds.documents))
	for uri := range ds.documents {
		uris = append(uris, uri)
	}

	return uris
}
