package editor

import (
	"context"
	"fmt"
	"os"
	"sync"

	"repotabs/internal/domain"
	"repotabs/internal/logging"
	"repotabs/internal/ports"
)

// Bridge is an in-process EditorBridge used when no host editor is
// attached (CLI, TUI, SSH sessions). It owns the open-document list and
// view states itself. Open verifies the document still exists on disk,
// which is what lets the restore protocol skip stale entries.
type Bridge struct {
	mu     sync.Mutex
	active string
	open   []string
	views  map[string]domain.ViewState
}

// Verify interface compliance at compile time
var _ ports.EditorBridge = (*Bridge)(nil)

// NewBridge creates an empty in-process bridge
func NewBridge() *Bridge {
	return &Bridge{views: make(map[string]domain.ViewState)}
}

// ListOpenDocuments implements ports.DocumentLister.ListOpenDocuments
func (b *Bridge) ListOpenDocuments(ctx context.Context) ([]ports.OpenDocument, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	docs := make([]ports.OpenDocument, 0, len(b.open))
	for _, uri := range b.open {
		docs = append(docs, ports.OpenDocument{URI: uri, IsActive: uri == b.active})
	}
	return docs, nil
}

// CaptureViewState implements ports.ViewStateCapturer.CaptureViewState
func (b *Bridge) CaptureViewState(ctx context.Context, uri string) (*domain.ViewState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	view, ok := b.views[uri]
	if !ok {
		return nil, nil
	}
	return &view, nil
}

// CloseAll implements ports.DocumentController.CloseAll
func (b *Bridge) CloseAll(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.open = nil
	b.active = ""
	b.views = make(map[string]domain.ViewState)
	return nil
}

// Open implements ports.DocumentController.Open
func (b *Bridge) Open(ctx context.Context, uri string, preserveFocus bool) (ports.DocumentHandle, error) {
	path := domain.URIToPath(uri)
	if _, err := os.Stat(path); err != nil {
		return ports.DocumentHandle{}, fmt.Errorf("document %s no longer exists: %w", uri, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tracked := false
	for _, open := range b.open {
		if open == uri {
			tracked = true
			break
		}
	}
	if !tracked {
		b.open = append(b.open, uri)
	}
	if !preserveFocus {
		b.active = uri
	}
	return ports.DocumentHandle{URI: uri}, nil
}

// ApplyViewState implements ports.DocumentController.ApplyViewState
func (b *Bridge) ApplyViewState(ctx context.Context, handle ports.DocumentHandle, state domain.ViewState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.views[handle.URI] = state
	return nil
}

// RevealInExplorer implements ports.ExplorerRevealer.RevealInExplorer.
// There is no explorer to focus without a host; the call is logged so a
// real host bridge can be dropped in without changing the engine.
func (b *Bridge) RevealInExplorer(ctx context.Context, path string) error {
	logging.Logger.Debug("Explorer reveal requested", "path", path)
	return nil
}

// RecordView stores a view state for a document the way a host editor
// would as the user moves the cursor. Exposed for the TUI and tests.
func (b *Bridge) RecordView(uri string, state domain.ViewState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.views[uri] = state
}
