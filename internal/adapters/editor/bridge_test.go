package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repotabs/internal/domain"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return domain.PathToURI(path)
}

func TestOpen_TracksOrderAndFocus(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := NewBridge()

	uriA := touch(t, dir, "a.go")
	uriB := touch(t, dir, "b.go")

	_, err := b.Open(ctx, uriA, false)
	require.NoError(t, err)
	_, err = b.Open(ctx, uriB, true)
	require.NoError(t, err)

	docs, err := b.ListOpenDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, uriA, docs[0].URI)
	assert.True(t, docs[0].IsActive, "preserveFocus keeps the first document active")
	assert.Equal(t, uriB, docs[1].URI)
	assert.False(t, docs[1].IsActive)
}

func TestOpen_MissingDocumentFails(t *testing.T) {
	b := NewBridge()

	_, err := b.Open(context.Background(), "file:///nowhere/gone.go", false)

	assert.Error(t, err)
}

func TestCloseAll_ResetsEverything(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := NewBridge()

	uri := touch(t, dir, "a.go")
	_, err := b.Open(ctx, uri, false)
	require.NoError(t, err)
	b.RecordView(uri, domain.ViewState{CursorLine: 3})

	require.NoError(t, b.CloseAll(ctx))

	docs, err := b.ListOpenDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	view, err := b.CaptureViewState(ctx, uri)
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestApplyViewState_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := NewBridge()

	uri := touch(t, dir, "a.go")
	handle, err := b.Open(ctx, uri, false)
	require.NoError(t, err)

	want := domain.ViewState{CursorLine: 10, CursorColumn: 2, ScrollTopLine: 5}
	require.NoError(t, b.ApplyViewState(ctx, handle, want))

	view, err := b.CaptureViewState(ctx, uri)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, want, *view)
}
