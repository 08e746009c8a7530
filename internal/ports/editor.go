package ports

import (
	"context"

	"repotabs/internal/domain"
)

// OpenDocument describes one document currently open in the host editor
type OpenDocument struct {
	IsActive bool
	URI      string
}

// DocumentHandle refers to a document opened through the bridge, used to
// apply view state after the open completes
type DocumentHandle struct {
	URI string
}

// DocumentLister enumerates what the host has open right now
type DocumentLister interface {
	ListOpenDocuments(ctx context.Context) ([]OpenDocument, error)
}

// ViewStateCapturer reads cursor and scroll position for an open document
type ViewStateCapturer interface {
	// CaptureViewState returns nil when the document has no recorded view
	CaptureViewState(ctx context.Context, uri string) (*domain.ViewState, error)
}

// DocumentController opens and closes documents in the host
type DocumentController interface {
	CloseAll(ctx context.Context) error
	Open(ctx context.Context, uri string, preserveFocus bool) (DocumentHandle, error)
	ApplyViewState(ctx context.Context, handle DocumentHandle, state domain.ViewState) error
}

// ExplorerRevealer focuses the host file explorer on a folder
type ExplorerRevealer interface {
	RevealInExplorer(ctx context.Context, path string) error
}

// EditorBridge is the composite interface: the only boundary through which
// the tab engine touches host editor behavior
type EditorBridge interface {
	DocumentController
	DocumentLister
	ExplorerRevealer
	ViewStateCapturer
}
