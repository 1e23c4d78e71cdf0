package mount

import (
	"errors"
	"fmt"
	"os"

	log "github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/keystage/keystage/internal/run"
)

var ErrMountFailed = errors.New("mount failed")

// Manager mounts the key volume read-only and remembers whether this session
// performed the mount. A mount that predates the session is never undone.
type Manager struct {
	runner     run.Runner
	runtimeDir string
	partitions func(all bool) ([]disk.PartitionStat, error)

	mountPoint string
	ownMount   bool
	madeDir    bool
}

func NewManager(r run.Runner, runtimeDir string) *Manager {
	return &Manager{
		runner:     r,
		runtimeDir: runtimeDir,
		partitions: disk.Partitions,
	}
}

// Mount ensures devicePath is mounted and returns the mount point. If the
// device is already mounted the existing mount point is reused as-is.
func (m *Manager) Mount(devicePath string) (string, error) {
	if parts, err := m.partitions(true); err == nil {
		for _, p := range parts {
			if p.Device != devicePath || p.Mountpoint == "" {
				continue
			}
			if !hasOpt(p.Opts, "ro") {
				log.Warnf("%s is already mounted read-write at %s", devicePath, p.Mountpoint)
			}
			m.mountPoint = p.Mountpoint
			m.ownMount = false
			return p.Mountpoint, nil
		}
	}

	target, err := os.MkdirTemp(m.runtimeDir, "keystage-mnt-")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMountFailed, err)
	}
	argv := mountArgv(devicePath, target)
	if err := m.runner.Run(argv[0], argv[1:]...); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("%w: %v", ErrMountFailed, err)
	}
	m.mountPoint = target
	m.ownMount = true
	m.madeDir = true
	return target, nil
}

// MountPoint returns the current mount point, or "" when nothing is mounted.
func (m *Manager) MountPoint() string {
	return m.mountPoint
}

// MountedBySession reports whether this session performed the mount.
func (m *Manager) MountedBySession() bool {
	return m.ownMount
}

// Unmount undoes a mount performed by this session. It is a no-op for
// pre-existing mounts and safe to call repeatedly; a failed unmount is
// logged so cleanup can continue.
func (m *Manager) Unmount() {
	if !m.ownMount {
		return
	}
	argv := umountArgv(m.mountPoint)
	if err := m.runner.Run(argv[0], argv[1:]...); err != nil {
		log.Warnf("unmount %s: %v", m.mountPoint, err)
		return
	}
	if m.madeDir {
		if err := os.Remove(m.mountPoint); err != nil {
			log.Warnf("remove mount point %s: %v", m.mountPoint, err)
		}
	}
	m.mountPoint = ""
	m.ownMount = false
	m.madeDir = false
}

func hasOpt(opts []string, want string) bool {
	for _, opt := range opts {
		if opt == want {
			return true
		}
	}
	return false
}
