package session

import (
	"fmt"
	"path/filepath"

	log "github.com/charmbracelet/log"

	"github.com/keystage/keystage/internal/config"
	"github.com/keystage/keystage/internal/gpg"
	"github.com/keystage/keystage/internal/mount"
	"github.com/keystage/keystage/internal/platform"
	"github.com/keystage/keystage/internal/prompt"
	"github.com/keystage/keystage/internal/run"
	"github.com/keystage/keystage/internal/workspace"
)

// ExitError carries the delegated command's exit status so the process can
// propagate it as its own after cleanup has run.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("gpg exited with status %d", e.Code)
}

// Options configure a single session run.
type Options struct {
	Spec    platform.DeviceSpec
	KeyFile string
	Force   bool
	GPGArgs []string
}

// Orchestrator drives one session from device resolution through cleanup.
// Steps execute strictly sequentially, each blocking on its subprocess.
type Orchestrator struct {
	Resolver platform.DeviceResolver
	Mounter  *mount.Manager
	Runner   run.Runner
	Prompter prompt.Prompter
	Settings *config.Settings
}

// Run executes the session. Cleanup is registered before any state exists and
// runs no matter how this function returns.
func (o *Orchestrator) Run(opts Options) error {
	if len(opts.GPGArgs) == 0 && !opts.Force {
		ok, err := o.Prompter.Confirm("No gpg arguments given; gpg will do nothing beyond the import. Continue")
		if err != nil {
			return err
		}
		if !ok {
			return prompt.ErrDeclined
		}
	}

	ctx := &Context{}
	coord := NewCoordinator(ctx, o.Runner)
	coord.HandleSignals()
	defer coord.Cleanup()

	devicePath, err := o.Resolver.Resolve(opts.Spec)
	if err != nil {
		return err
	}
	ctx.DevicePath = devicePath
	log.Debugf("resolved device: %s", devicePath)

	mountPoint, err := o.Mounter.Mount(devicePath)
	if err != nil {
		return err
	}
	ctx.Mount = o.Mounter
	log.Debugf("key volume mounted at %s (mounted by session: %t)", mountPoint, o.Mounter.MountedBySession())

	ws, err := workspace.Create(o.Settings.RuntimeDir)
	if err != nil {
		return err
	}
	ctx.Workspace = ws
	log.Debugf("workspace: %s", ws.Path())

	keyFile := opts.KeyFile
	if keyFile == "" {
		keyFile = o.Settings.KeyFile
	}
	importer := &gpg.Importer{Runner: o.Runner, Prompter: o.Prompter, Unmounter: o.Mounter}
	if err := importer.Import(ws.Path(), mountPoint, keyFile); err != nil {
		return err
	}
	ctx.KeyFilePath = filepath.Join(mountPoint, keyFile)
	log.Debugf("keys staged from %s, volume released", ctx.KeyFilePath)

	invoker := &gpg.Invoker{Runner: o.Runner, Prompter: o.Prompter}
	code, err := invoker.Run(ws.Path(), o.Settings.Pubring(), opts.GPGArgs)
	if err != nil {
		return err
	}
	log.Debugf("delegated gpg exited with status %d", code)

	coord.Cleanup()
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
