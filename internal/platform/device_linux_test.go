//go:build linux
// +build linux

package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls   [][]string
	outputs map[string]string
}

func (r *fakeRunner) Run(name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil
}

func (r *fakeRunner) Output(name string, args ...string) (string, error) {
	call := append([]string{name}, args...)
	r.calls = append(r.calls, call)
	key := name
	for _, a := range args {
		key += " " + a
	}
	if out, ok := r.outputs[key]; ok {
		return out, nil
	}
	return "", errors.New("exit status 2")
}

func (r *fakeRunner) Interactive(name string, args ...string) (int, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return 0, nil
}

func blockDeviceMode(string) (os.FileMode, error) {
	return os.ModeDevice | 0o660, nil
}

func newTestResolver(r *fakeRunner, labelDir, uuidDir string) *linuxDeviceResolver {
	return &linuxDeviceResolver{
		runner:   r,
		labelDir: labelDir,
		uuidDir:  uuidDir,
		mode:     blockDeviceMode,
	}
}

func TestResolveExplicitPathBypassesLookup(t *testing.T) {
	fr := &fakeRunner{}
	dr := newTestResolver(fr, "/nonexistent/by-label", "/nonexistent/by-uuid")

	path, err := dr.Resolve(DeviceSpec{Path: "/dev/sdz1"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/sdz1", path)
	assert.Empty(t, fr.calls, "explicit path must not trigger label/uuid lookup")
}

func TestResolveEmptySpec(t *testing.T) {
	dr := newTestResolver(&fakeRunner{}, "/nonexistent", "/nonexistent")

	_, err := dr.Resolve(DeviceSpec{})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestResolveLabelViaSymlink(t *testing.T) {
	tmp := t.TempDir()
	device := filepath.Join(tmp, "sdz1")
	require.NoError(t, os.WriteFile(device, nil, 0o600))
	labelDir := filepath.Join(tmp, "by-label")
	require.NoError(t, os.Mkdir(labelDir, 0o755))
	require.NoError(t, os.Symlink(filepath.Join("..", "sdz1"), filepath.Join(labelDir, "SECURE_KEY_3Z")))

	fr := &fakeRunner{}
	dr := newTestResolver(fr, labelDir, filepath.Join(tmp, "by-uuid"))

	path, err := dr.Resolve(DeviceSpec{Label: "SECURE_KEY_3Z"})
	require.NoError(t, err)
	assert.Equal(t, device, path)
	assert.Empty(t, fr.calls, "symlink resolution should not shell out")
}

func TestResolveLabelFallsBackToBlkid(t *testing.T) {
	fr := &fakeRunner{outputs: map[string]string{
		"blkid -L SECURE_KEY_3Z": "/dev/sdz1",
	}}
	dr := newTestResolver(fr, "/nonexistent/by-label", "/nonexistent/by-uuid")

	path, err := dr.Resolve(DeviceSpec{Label: "SECURE_KEY_3Z"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/sdz1", path)
}

func TestResolveUUIDFallsBackToBlkid(t *testing.T) {
	fr := &fakeRunner{outputs: map[string]string{
		"blkid -U 2f1a-77be": "/dev/sdz1",
	}}
	dr := newTestResolver(fr, "/nonexistent/by-label", "/nonexistent/by-uuid")

	path, err := dr.Resolve(DeviceSpec{UUID: "2f1a-77be"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/sdz1", path)
}

func TestResolveUnknownLabel(t *testing.T) {
	dr := newTestResolver(&fakeRunner{}, "/nonexistent/by-label", "/nonexistent/by-uuid")

	_, err := dr.Resolve(DeviceSpec{Label: "NO_SUCH_VOLUME"})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestResolveRejectsNonBlockDevice(t *testing.T) {
	fr := &fakeRunner{}
	dr := newTestResolver(fr, "/nonexistent", "/nonexistent")
	dr.mode = func(string) (os.FileMode, error) {
		return 0o644, nil // regular file
	}

	_, err := dr.Resolve(DeviceSpec{Path: "/etc/hostname"})
	assert.ErrorIs(t, err, ErrNotBlockDevice)
}

func TestResolveMissingPath(t *testing.T) {
	fr := &fakeRunner{}
	dr := newTestResolver(fr, "/nonexistent", "/nonexistent")
	dr.mode = func(string) (os.FileMode, error) {
		return 0, os.ErrNotExist
	}

	_, err := dr.Resolve(DeviceSpec{Path: "/dev/gone"})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}
