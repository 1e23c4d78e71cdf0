package gpg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/charmbracelet/log"

	"github.com/keystage/keystage/internal/prompt"
	"github.com/keystage/keystage/internal/run"
)

var (
	ErrKeyFileNotFound = errors.New("key file not found")
	ErrImportFailed    = errors.New("key import failed")
)

// Unmounter releases the key volume once its contents are staged.
type Unmounter interface {
	Unmount()
}

// Importer stages the exported key file from the mounted volume into the
// workspace keyring.
type Importer struct {
	Runner    run.Runner
	Prompter  prompt.Prompter
	Unmounter Unmounter
}

// Import loads mountPoint/keyFile into the workspace. A non-zero gpg status
// is tolerated after explicit confirmation, since a file holding several keys
// may import only partially. Whatever the outcome of the import itself, the
// volume is unmounted as soon as it is no longer needed.
func (im *Importer) Import(workspaceDir, mountPoint, keyFile string) error {
	path := filepath.Join(mountPoint, keyFile)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrKeyFileNotFound, path)
	}

	ok, err := im.Prompter.Confirm(fmt.Sprintf("Import keys from %s into the session workspace", path))
	if err != nil {
		return err
	}
	if !ok {
		return prompt.ErrDeclined
	}

	code, err := im.Runner.Interactive("gpg", "--homedir", workspaceDir, "--import", path)
	if err != nil {
		return fmt.Errorf("running gpg --import: %w", err)
	}
	if code != 0 {
		log.Warnf("gpg --import exited with status %d; a multi-key file may have imported only partially", code)
		ok, err := im.Prompter.Confirm("Continue despite import errors")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: gpg exited with status %d", ErrImportFailed, code)
		}
	}

	// Keys are staged; minimize how long the offline medium stays mounted.
	im.Unmounter.Unmount()
	return nil
}
