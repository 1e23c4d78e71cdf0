//go:build darwin
// +build darwin

package platform

import (
	"fmt"
	"os"

	"howett.net/plist"

	"github.com/keystage/keystage/internal/run"
)

type darwinDeviceResolver struct {
	runner run.Runner
}

func newDeviceResolver(r run.Runner) DeviceResolver {
	return &darwinDeviceResolver{runner: r}
}

type diskutilInfo struct {
	DeviceNode string `plist:"DeviceNode"`
	VolumeName string `plist:"VolumeName"`
	VolumeUUID string `plist:"VolumeUUID"`
}

func (dr *darwinDeviceResolver) Resolve(spec DeviceSpec) (string, error) {
	if spec.Empty() {
		return "", fmt.Errorf("%w: no device, label, or UUID given", ErrDeviceNotFound)
	}

	if spec.Path != "" {
		return dr.verify(spec.Path)
	}

	// diskutil accepts volume names and volume UUIDs interchangeably.
	ident := spec.Label
	if ident == "" {
		ident = spec.UUID
	}
	out, err := dr.runner.Output("diskutil", "info", "-plist", ident)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, ident)
	}

	var info diskutilInfo
	if _, err := plist.Unmarshal([]byte(out), &info); err != nil || info.DeviceNode == "" {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, ident)
	}
	return dr.verify(info.DeviceNode)
}

func (dr *darwinDeviceResolver) verify(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, path)
	}
	mode := fi.Mode()
	if mode&os.ModeDevice == 0 || mode&os.ModeCharDevice != 0 {
		return "", fmt.Errorf("%w: %s", ErrNotBlockDevice, path)
	}
	return path, nil
}
