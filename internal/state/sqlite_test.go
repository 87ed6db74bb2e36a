package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenMigrates(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Running migrations again is a no-op.
	require.NoError(t, store.Migrate())
}

func TestSQLiteStore_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "state.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	require.NoError(t, store.PutEntry(&Entry{Path: "a.js", Key: "k1", Code: "a;\n"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	e, err := reopened.GetEntry("a.js")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "a;\n", e.Code)
}

func TestSQLiteStore_NotOpen(t *testing.T) {
	store := NewSQLiteStore(nil)

	_, err := store.GetEntry("a.js")
	require.ErrorIs(t, err, errNotOpen)
	require.ErrorIs(t, store.PutEntry(&Entry{}), errNotOpen)
	_, err = store.CreateRun("transform")
	require.ErrorIs(t, err, errNotOpen)
	require.ErrorIs(t, store.Migrate(), errNotOpen)
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_Entries(t *testing.T) {
	tests := []struct {
		name   string
		puts   []*Entry
		path   string
		want   *Entry
		wantOK bool
	}{
		{
			name: "missing",
			path: "a.js",
		},
		{
			name: "stored",
			puts: []*Entry{
				{Path: "a.js", Key: "k1", Code: "x;\n", States: 1, Mutations: 2, Wrapped: 3, Effects: 4, Memos: 5},
			},
			path:   "a.js",
			want:   &Entry{Path: "a.js", Key: "k1", Code: "x;\n", States: 1, Mutations: 2, Wrapped: 3, Effects: 4, Memos: 5},
			wantOK: true,
		},
		{
			name: "replaced",
			puts: []*Entry{
				{Path: "a.js", Key: "k1", Code: "old;\n", States: 1},
				{Path: "a.js", Key: "k2", Code: "new;\n"},
			},
			path:   "a.js",
			want:   &Entry{Path: "a.js", Key: "k2", Code: "new;\n"},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			for _, e := range tt.puts {
				require.NoError(t, store.PutEntry(e))
			}

			got, err := store.GetEntry(tt.path)
			require.NoError(t, err)
			if !tt.wantOK {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.False(t, got.UpdatedAt.IsZero())
			got.UpdatedAt = tt.want.UpdatedAt
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLiteStore_DeleteAndClear(t *testing.T) {
	store := setupTestStore(t)
	for _, p := range []string{"a.js", "b.js", "c.js"} {
		require.NoError(t, store.PutEntry(&Entry{Path: p, Key: "k", Code: ""}))
	}

	n, err := store.CountEntries()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, store.DeleteEntry("b.js"))
	e, err := store.GetEntry("b.js")
	require.NoError(t, err)
	assert.Nil(t, e)

	cleared, err := store.ClearEntries()
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)

	n, err = store.CountEntries()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	store := setupTestStore(t)

	run, err := store.CreateRun("transform")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "transform", got.Command)
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, store.CompleteRun(run.ID, RunStatusFailed, 3, 1, "app.js: boom"))

	got, err = store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Equal(t, 3, got.Files)
	assert.Equal(t, 1, got.Cached)
	assert.Equal(t, "app.js: boom", got.Error)
	require.NotNil(t, got.CompletedAt)
	assert.False(t, got.CompletedAt.Before(got.StartedAt))
}

func TestSQLiteStore_RunErrors(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetRun("missing")
	require.EqualError(t, err, "run not found: missing")

	err = store.CompleteRun("missing", RunStatusCompleted, 0, 0, "")
	require.EqualError(t, err, "run not found: missing")
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)

	var ids []string
	for range 3 {
		run, err := store.CreateRun("transform")
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestKey(t *testing.T) {
	a := Key([]byte("ref: x = 1"), "opts-a")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Key([]byte("ref: x = 1"), "opts-a"))
	assert.NotEqual(t, a, Key([]byte("ref: x = 2"), "opts-a"))
	assert.NotEqual(t, a, Key([]byte("ref: x = 1"), "opts-b"))
}
