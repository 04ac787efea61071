package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/sdd-kit/internal/task"
)

func TestRead_MissingFileReturnsNil(t *testing.T) {
	store := NewStore(t.TempDir())

	st, err := store.Read()
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestRead_CorruptFileReturnsNil(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, StateDir), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	st, err := store.Read()
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestWriteThenRead_RoundTrips(t *testing.T) {
	store := NewStore(t.TempDir())

	written := &ProjectState{
		Metadata: Metadata{
			Name:        "demo",
			Domain:      "电商",
			Description: "desc",
			CreatedAt:   "2026-01-01T00:00:00Z",
		},
		ProgressHistory: []task.ProgressSnapshot{
			{Timestamp: "2026-01-02T00:00:00Z", Completed: 1, RemainingHours: 9, BurndownNotes: []string{"完成率 50%"}},
		},
	}
	require.NoError(t, store.Write(written))

	got, err := store.Read()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, written, got)
}

func TestWrite_CreatesParentDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "deep", "nested", "project")
	store := NewStore(root)

	require.NoError(t, store.Write(&ProjectState{ProgressHistory: []task.ProgressSnapshot{}}))

	_, err := os.Stat(filepath.Join(root, StateDir, StateFile))
	assert.NoError(t, err)
}

func TestWrite_FullyOverwrites(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Write(&ProjectState{
		Metadata:        Metadata{Name: "first"},
		ProgressHistory: []task.ProgressSnapshot{{Timestamp: "t1"}},
	}))
	require.NoError(t, store.Write(&ProjectState{
		Metadata:        Metadata{Name: "second"},
		ProgressHistory: []task.ProgressSnapshot{},
	}))

	got, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "second", got.Metadata.Name)
	assert.Empty(t, got.ProgressHistory)
}

func TestUpdate_ReceivesNilWhenAbsent(t *testing.T) {
	store := NewStore(t.TempDir())

	next, err := store.Update(func(current *ProjectState) *ProjectState {
		assert.Nil(t, current)
		return &ProjectState{Metadata: Metadata{Name: "created"}, ProgressHistory: []task.ProgressSnapshot{}}
	})
	require.NoError(t, err)
	assert.Equal(t, "created", next.Metadata.Name)

	got, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "created", got.Metadata.Name)
}

func TestUpdate_ChainsReadAndWrite(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Write(&ProjectState{
		Metadata:        Metadata{Name: "demo"},
		ProgressHistory: []task.ProgressSnapshot{},
	}))

	_, err := store.Update(func(current *ProjectState) *ProjectState {
		current.ProgressHistory = append(current.ProgressHistory, task.ProgressSnapshot{Timestamp: "t1"})
		return current
	})
	require.NoError(t, err)

	got, err := store.Read()
	require.NoError(t, err)
	require.Len(t, got.ProgressHistory, 1)
}
