package ports

import (
	"context"

	"repotabs/internal/domain"
)

// TabStateLoader loads the persisted snapshot. A version mismatch or
// unreadable store yields an empty snapshot, never an error the caller
// has to branch on.
type TabStateLoader interface {
	LoadState(ctx context.Context) (*domain.PersistedState, error)
}

// TabStateSaver replaces the persisted snapshot
type TabStateSaver interface {
	SaveState(ctx context.Context, state *domain.PersistedState) error
}

// TabRepository is the composite interface for durable tab state
type TabRepository interface {
	TabStateLoader
	TabStateSaver
	Close() error
}
