package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repotabs/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestLoadState_EmptyStore(t *testing.T) {
	repo := newTestRepo(t)

	state, err := repo.LoadState(context.Background())

	require.NoError(t, err)
	assert.Empty(t, state.Tabs)
	assert.Empty(t, state.ActiveTabID)
	assert.Equal(t, domain.StateVersion, state.Version)
}

func TestSaveState_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	tabA := domain.NewRepoTab("/work/a", domain.IconGo)
	tabA.GitBranch = "main"
	tabA.GitDirty = true
	tabA.OpenEditors = []string{"file:///work/a/main.go", "file:///work/a/go.mod"}
	tabA.ActiveEditor = "file:///work/a/main.go"
	tabA.ViewStates["file:///work/a/main.go"] = domain.ViewState{CursorLine: 12, CursorColumn: 4, ScrollTopLine: 3}

	tabB := domain.NewRepoTab("/work/b", domain.IconNode)

	err := repo.SaveState(context.Background(), &domain.PersistedState{
		ActiveTabID: tabA.ID,
		Tabs:        []domain.RepoTab{tabA, tabB},
		Version:     domain.StateVersion,
	})
	require.NoError(t, err)

	state, err := repo.LoadState(context.Background())
	require.NoError(t, err)

	require.Len(t, state.Tabs, 2)
	assert.Equal(t, tabA.ID, state.ActiveTabID)

	got := state.Tabs[0]
	assert.Equal(t, tabA.ID, got.ID)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, "file:///work/a", got.FolderURI)
	assert.Equal(t, "main", got.GitBranch)
	assert.True(t, got.GitDirty)
	assert.Equal(t, domain.IconGo, got.Icon)
	assert.Equal(t, []string{"file:///work/a/main.go", "file:///work/a/go.mod"}, got.OpenEditors,
		"editor order survives the round trip")
	assert.Equal(t, "file:///work/a/main.go", got.ActiveEditor)
	assert.Equal(t, domain.ViewState{CursorLine: 12, CursorColumn: 4, ScrollTopLine: 3},
		got.ViewStates["file:///work/a/main.go"])
}

func TestSaveState_RemovesDroppedTabs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tabA := domain.NewRepoTab("/work/a", domain.IconGo)
	tabB := domain.NewRepoTab("/work/b", domain.IconNode)
	require.NoError(t, repo.SaveState(ctx, &domain.PersistedState{
		ActiveTabID: tabA.ID,
		Tabs:        []domain.RepoTab{tabA, tabB},
	}))

	require.NoError(t, repo.SaveState(ctx, &domain.PersistedState{
		ActiveTabID: tabB.ID,
		Tabs:        []domain.RepoTab{tabB},
	}))

	state, err := repo.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, state.Tabs, 1)
	assert.Equal(t, tabB.ID, state.Tabs[0].ID)
	assert.Equal(t, tabB.ID, state.ActiveTabID)
}

func TestLoadState_VersionMismatchResetsStore(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tab := domain.NewRepoTab("/work/a", domain.IconGit)
	require.NoError(t, repo.SaveState(ctx, &domain.PersistedState{
		ActiveTabID: tab.ID,
		Tabs:        []domain.RepoTab{tab},
	}))

	// Simulate a snapshot written by an older build
	require.NoError(t, repo.db.Exec("UPDATE store_meta SET schema_version = 0").Error)

	state, err := repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Tabs, "mismatched version discards all prior data")
	assert.Empty(t, state.ActiveTabID)

	// Subsequent loads see a clean current-version store
	state, err = repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StateVersion, state.Version)
	assert.Empty(t, state.Tabs)
}

func TestLoadState_DanglingActivePointerCleared(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tab := domain.NewRepoTab("/work/a", domain.IconGit)
	require.NoError(t, repo.SaveState(ctx, &domain.PersistedState{
		ActiveTabID: "no-such-tab",
		Tabs:        []domain.RepoTab{tab},
	}))

	state, err := repo.LoadState(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.ActiveTabID)
}

func TestLoadState_NormalizesPositions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tabA := domain.NewRepoTab("/work/a", domain.IconGit)
	tabB := domain.NewRepoTab("/work/b", domain.IconGit)
	require.NoError(t, repo.SaveState(ctx, &domain.PersistedState{
		Tabs: []domain.RepoTab{tabA, tabB},
	}))

	// Corrupt positions to holes and duplicates
	require.NoError(t, repo.db.Exec("UPDATE tabs SET position = 7").Error)

	state, err := repo.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, state.Tabs, 2)

	var positions []int
	for _, m := range []string{state.Tabs[0].ID, state.Tabs[1].ID} {
		var model TabModel
		require.NoError(t, repo.db.Where("id = ?", m).First(&model).Error)
		positions = append(positions, model.Position)
	}
	assert.ElementsMatch(t, []int{0, 1}, positions)
}
