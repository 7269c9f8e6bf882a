package panel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewFileStore(path)

	st, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, st.Token)

	want := State{Token: "abc", User: &StoredUser{ID: "u-1", Email: "s@test.com", Role: "seller"}}
	require.NoError(t, store.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unterminated"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestSessionInitDiscardsUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unterminated"), 0o600))

	c := New("http://127.0.0.1:0", NewFileStore(path))
	require.NoError(t, c.Session().Init(context.Background()))
	assert.False(t, c.Session().Authenticated())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
