package platform

import (
	"errors"

	"github.com/keystage/keystage/internal/run"
)

// DeviceSpec identifies the removable volume carrying the exported keys.
// At most one field needs to be set; an explicit path bypasses label and
// UUID lookup entirely.
type DeviceSpec struct {
	Path  string
	Label string
	UUID  string
}

// Empty reports whether no identifier was supplied at all.
func (s DeviceSpec) Empty() bool {
	return s.Path == "" && s.Label == "" && s.UUID == ""
}

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrNotBlockDevice = errors.New("not a block device")
)

// DeviceResolver turns a DeviceSpec into a verified block-device path.
// Resolution is a read-only query; nothing is mounted or modified.
type DeviceResolver interface {
	Resolve(spec DeviceSpec) (string, error)
}

// NewDeviceResolver creates a platform-specific device resolver.
func NewDeviceResolver(r run.Runner) DeviceResolver {
	return newDeviceResolver(r)
}
