package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"facegate.io/infrastructure/file_upload/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "images")
	store := &LocalImageStore{Dir: dir}

	require.NoError(t, store.SaveFaceImage(ctx, "alice", []byte("first")))
	require.NoError(t, store.SaveFaceImage(ctx, "alice", []byte("second")))

	data, err := os.ReadFile(filepath.Join(dir, "alice.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	require.NoError(t, store.DeleteFaceImage(ctx, "alice"))
	_, err = os.Stat(filepath.Join(dir, "alice.jpg"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.DeleteFaceImage(ctx, "never-saved"))
}

func TestLocalImageStoreStaging(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "images")
	store := &LocalImageStore{Dir: dir}
	require.NoError(t, store.SaveFaceImage(ctx, "alice", []byte("old")))

	discarded, err := store.StageFaceImage(ctx, "alice", []byte("rejected"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(discarded, types.PendingPrefix))
	require.NoError(t, store.DiscardFaceImage(ctx, discarded))
	require.NoError(t, store.DiscardFaceImage(ctx, discarded))

	data, err := os.ReadFile(filepath.Join(dir, "alice.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	staged, err := store.StageFaceImage(ctx, "alice", []byte("new"))
	require.NoError(t, err)
	require.NoError(t, store.CommitFaceImage(ctx, staged, "alice"))

	data, err = os.ReadFile(filepath.Join(dir, "alice.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice.jpg", entries[0].Name())
}
