package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOwnerOnly(t *testing.T) {
	ws, err := Create(t.TempDir())
	require.NoError(t, err)
	defer ws.Destroy()

	fi, err := os.Stat(ws.Path())
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	assert.Equal(t, os.FileMode(0o700), fi.Mode().Perm(), "workspace must be owner-only")
	assert.True(t, strings.Contains(filepath.Base(ws.Path()), "keystage-"))
}

func TestCreateUniqueNames(t *testing.T) {
	parent := t.TempDir()
	a, err := Create(parent)
	require.NoError(t, err)
	b, err := Create(parent)
	require.NoError(t, err)
	assert.NotEqual(t, a.Path(), b.Path())
}

func TestCreateMissingParent(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "no", "such", "dir"))
	assert.ErrorIs(t, err, ErrCreationFailed)
}

func TestDestroyRemovesTree(t *testing.T) {
	ws, err := Create(t.TempDir())
	require.NoError(t, err)
	dir := ws.Path()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secring.gpg"), []byte("x"), 0o600))

	require.NoError(t, ws.Destroy())
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDestroyIdempotent(t *testing.T) {
	ws, err := Create(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, ws.Destroy())
	require.NoError(t, ws.Destroy(), "destroying an already-absent workspace is a success")
	assert.Empty(t, ws.Path())
}

func TestDestroyNil(t *testing.T) {
	var ws *Workspace
	assert.NoError(t, ws.Destroy())
}
