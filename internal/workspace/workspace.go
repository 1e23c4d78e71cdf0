package workspace

import (
	"errors"
	"fmt"
	"os"
)

var ErrCreationFailed = errors.New("workspace creation failed")

// Workspace is the ephemeral directory that holds staged key material and the
// delegated tool's private state for the duration of one session. It is owned
// exclusively by the session; nothing else may create, rename, or relocate it.
type Workspace struct {
	path string
}

// Create allocates a uniquely named directory under runtimeDir and restricts
// it to the invoking user. Staging secrets outside an owner-only directory is
// unacceptable, so any permission problem is fatal.
func Create(runtimeDir string) (*Workspace, error) {
	dir, err := os.MkdirTemp(runtimeDir, "keystage-")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreationFailed, err)
	}
	if err := os.Chmod(dir, 0o700); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %v", ErrCreationFailed, err)
	}
	fi, err := os.Stat(dir)
	if err != nil || fi.Mode().Perm() != 0o700 {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: could not restrict %s to owner-only access", ErrCreationFailed, dir)
	}
	return &Workspace{path: dir}, nil
}

// Path returns the workspace directory, or "" after destruction.
func (w *Workspace) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

// Destroy removes the workspace tree. Destroying an already-absent workspace
// is a success, so Destroy can be called from every exit path.
func (w *Workspace) Destroy() error {
	if w == nil || w.path == "" {
		return nil
	}
	if err := os.RemoveAll(w.path); err != nil {
		return fmt.Errorf("destroying workspace %s: %v", w.path, err)
	}
	w.path = ""
	return nil
}
