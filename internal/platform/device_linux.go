//go:build linux
// +build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/keystage/keystage/internal/run"
)

type linuxDeviceResolver struct {
	runner   run.Runner
	labelDir string
	uuidDir  string
	mode     func(path string) (os.FileMode, error)
}

func newDeviceResolver(r run.Runner) DeviceResolver {
	return &linuxDeviceResolver{
		runner:   r,
		labelDir: "/dev/disk/by-label",
		uuidDir:  "/dev/disk/by-uuid",
		mode:     statMode,
	}
}

func statMode(path string) (os.FileMode, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Mode(), nil
}

func (dr *linuxDeviceResolver) Resolve(spec DeviceSpec) (string, error) {
	if spec.Empty() {
		return "", fmt.Errorf("%w: no device, label, or UUID given", ErrDeviceNotFound)
	}

	if spec.Path != "" {
		return dr.verify(spec.Path)
	}

	dir, flag, ident := dr.labelDir, "-L", spec.Label
	if ident == "" {
		dir, flag, ident = dr.uuidDir, "-U", spec.UUID
	}
	path := dr.lookup(dir, ident, flag)
	if path == "" {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, ident)
	}
	return dr.verify(path)
}

// lookup resolves a label or UUID through the /dev/disk symlink farm, with
// blkid as a fallback for filesystems udev has not picked up.
func (dr *linuxDeviceResolver) lookup(dir, name, blkidFlag string) string {
	link := filepath.Join(dir, name)
	if target, err := os.Readlink(link); err == nil {
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(link), target)
		}
		return filepath.Clean(target)
	}

	out, err := dr.runner.Output("blkid", blkidFlag, name)
	if err != nil {
		return ""
	}
	return out
}

func (dr *linuxDeviceResolver) verify(path string) (string, error) {
	mode, err := dr.mode(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, path)
	}
	if mode&os.ModeDevice == 0 || mode&os.ModeCharDevice != 0 {
		return "", fmt.Errorf("%w: %s", ErrNotBlockDevice, path)
	}
	return path, nil
}
