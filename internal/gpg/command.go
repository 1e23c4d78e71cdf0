package gpg

import (
	"fmt"
	"strings"

	log "github.com/charmbracelet/log"

	"github.com/keystage/keystage/internal/prompt"
	"github.com/keystage/keystage/internal/run"
)

// Invoker runs the delegated gpg command against the staged workspace and the
// caller's regular public keyring.
type Invoker struct {
	Runner   run.Runner
	Prompter prompt.Prompter
}

// BuildArgs assembles the delegated argument vector: private state in the
// workspace, default public keyring disabled, the caller's keyring in its
// place, then the pass-through arguments verbatim.
func BuildArgs(workspaceDir, pubring string, extra []string) []string {
	args := []string{
		"--homedir", workspaceDir,
		"--no-default-keyring",
		"--keyring", pubring,
	}
	return append(args, extra...)
}

// Run executes gpg in the foreground, inheriting the controlling terminal so
// interactive key-editing sessions work, and returns gpg's exit code.
func (iv *Invoker) Run(workspaceDir, pubring string, extra []string) (int, error) {
	ok, err := iv.Prompter.Confirm(fmt.Sprintf("Run gpg %s", strings.Join(extra, " ")))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, prompt.ErrDeclined
	}

	args := BuildArgs(workspaceDir, pubring, extra)
	log.Debugf("running gpg %s", strings.Join(args, " "))
	return iv.Runner.Interactive("gpg", args...)
}
