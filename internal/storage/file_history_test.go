package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHistory(t *testing.T, max int) *FileHistory {
	t.Helper()
	return NewFileHistory(filepath.Join(t.TempDir(), "sent_articles.json"), max)
}

func readLinks(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var links []string
	require.NoError(t, json.Unmarshal(data, &links))
	return links
}

func TestFileHistory_MissingFileIsEmpty(t *testing.T) {
	fh := tempHistory(t, 0)
	log, err := fh.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, log.Len())
}

func TestFileHistory_EmptyFileIsEmpty(t *testing.T) {
	fh := tempHistory(t, 0)
	require.NoError(t, os.WriteFile(fh.Path(), []byte("  \n"), 0o644))

	log, err := fh.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, log.Len())
}

func TestFileHistory_CorruptFileIsAnError(t *testing.T) {
	fh := tempHistory(t, 0)
	require.NoError(t, os.WriteFile(fh.Path(), []byte(`{"not":"an array"}`), 0o644))

	_, err := fh.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptHistory)

	err = fh.Commit(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrCorruptHistory)

	data, _ := os.ReadFile(fh.Path())
	assert.JSONEq(t, `{"not":"an array"}`, string(data), "corrupt file must be left alone")
}

func TestFileHistory_CommitRoundTrip(t *testing.T) {
	ctx := context.Background()
	fh := tempHistory(t, 0)

	require.NoError(t, fh.Commit(ctx, []string{"a", "b"}))
	require.NoError(t, fh.Commit(ctx, []string{"b", "c"}))

	assert.Equal(t, []string{"a", "b", "c"}, readLinks(t, fh.Path()))

	log, err := fh.Load(ctx)
	require.NoError(t, err)
	assert.True(t, log.Contains("a"))
	assert.True(t, log.Contains("c"))
	assert.False(t, log.Contains("d"))
}

func TestFileHistory_CapKeepsNewest(t *testing.T) {
	ctx := context.Background()
	fh := tempHistory(t, DefaultMaxEntries)

	var first []string
	for i := 0; i < DefaultMaxEntries; i++ {
		first = append(first, fmt.Sprintf("https://example.com/%d", i))
	}
	require.NoError(t, fh.Commit(ctx, first))
	require.NoError(t, fh.Commit(ctx, []string{"https://example.com/new-1", "https://example.com/new-2"}))

	links := readLinks(t, fh.Path())
	require.Len(t, links, DefaultMaxEntries)
	assert.Equal(t, "https://example.com/2", links[0])
	assert.Equal(t, "https://example.com/new-2", links[len(links)-1])
}

func TestFileHistory_CommitLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	fh := tempHistory(t, 0)
	require.NoError(t, fh.Commit(ctx, nil))
	assert.Equal(t, []string{}, readLinks(t, fh.Path()))

	entries, err := os.ReadDir(filepath.Dir(fh.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp or lock files may be left behind")
}

func TestFileHistory_LockedByAnotherRun(t *testing.T) {
	fh := tempHistory(t, 0)
	require.NoError(t, os.WriteFile(fh.Path()+".lock", []byte("123\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	err := fh.Commit(ctx, []string{"a"})
	assert.ErrorIs(t, err, ErrLocked)
	_, statErr := os.Stat(fh.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileHistory_StaleLockIsReclaimed(t *testing.T) {
	fh := tempHistory(t, 0)
	lockPath := fh.Path() + ".lock"
	require.NoError(t, os.WriteFile(lockPath, []byte("123\n"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(lockPath, old, old))

	require.NoError(t, fh.Commit(context.Background(), []string{"a"}))
	assert.Equal(t, []string{"a"}, readLinks(t, fh.Path()))
	_, err := os.Stat(lockPath)
	assert.True(t, os.IsNotExist(err))
}
