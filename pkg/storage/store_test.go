package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "state.json"))
	require.NoError(t, err)
	return s
}

func TestGetOnEmptyStore(t *testing.T) {
	s := newTestStore(t)

	v, ok, err := s.Get(KeyBaseURL)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSetGetDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetMany(map[string]string{
		KeySelectedProject:     "42",
		KeySelectedProjectName: "Backend hires",
	}))

	got, err := s.GetMany(KeySelectedProject, KeySelectedProjectName, KeyBaseURL)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		KeySelectedProject:     "42",
		KeySelectedProjectName: "Backend hires",
	}, got)

	require.NoError(t, s.Delete(KeySelectedProject, "missing"))
	_, ok, err := s.Get(KeySelectedProject)
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{KeySelectedProjectName}, keys)
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyBaseURL, "http://localhost:5000"))

	reopened, err := Open(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(KeyBaseURL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:5000", v)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s, err := Open(path)
	require.NoError(t, err)
	_, _, err = s.Get(KeyBaseURL)
	assert.Error(t, err)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
