package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStorage(t *testing.T) *FileStorage {
	t.Helper()
	fs, err := NewFileStorage(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return fs
}

func TestStorageImplementations(t *testing.T) {
	impls := map[string]Storage{
		"memory": NewMemoryStorage(),
		"file":   newFileStorage(t),
	}

	for name, st := range impls {
		t.Run(name, func(t *testing.T) {
			_, ok, err := st.GetItem("atlanend-data")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, st.SetItem("atlanend-data", []byte(`{"a":1}`)))
			require.NoError(t, st.SetItem("atlanend-data", []byte(`{"a":2}`)))

			v, ok, err := st.GetItem("atlanend-data")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"a":2}`, string(v))

			require.NoError(t, st.RemoveItem("atlanend-data"))
			require.NoError(t, st.RemoveItem("atlanend-data"))
			_, ok, err = st.GetItem("atlanend-data")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.ErrorIs(t, st.SetItem("", nil), ErrEmptyKey)
			_, _, err = st.GetItem("")
			assert.ErrorIs(t, err, ErrEmptyKey)
		})
	}
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	st := NewMemoryStorage()
	buf := []byte("abc")
	require.NoError(t, st.SetItem("k", buf))
	buf[0] = 'x'

	v, _, err := st.GetItem("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}

func TestFileStorage_RejectsPathKeys(t *testing.T) {
	st := newFileStorage(t)
	assert.Error(t, st.SetItem("../escape", []byte("x")))
	assert.Error(t, st.SetItem("a/b", []byte("x")))
}

func TestFileStorage_WritesWithRestrictedPerms(t *testing.T) {
	st := newFileStorage(t)
	require.NoError(t, st.SetItem("atlanend-data", []byte("{}")))

	info, err := os.Stat(filepath.Join(st.Dir(), "atlanend-data.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(st.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStorage_BackupAndPrune(t *testing.T) {
	st := newFileStorage(t)
	require.NoError(t, st.SetItem("atlanend-data", []byte(`{"v":1}`)))
	backupDir := filepath.Join(t.TempDir(), "backup")

	base := time.Unix(1_700_000_000, 0)
	for i := 0; i < 4; i++ {
		written, err := st.Backup(backupDir, 2, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.Len(t, written, 1)
	}

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1700007200_atlanend-data.json.backup", entries[0].Name())
	assert.Equal(t, "1700010800_atlanend-data.json.backup", entries[1].Name())

	data, err := os.ReadFile(filepath.Join(backupDir, entries[1].Name()))
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(data))
}
