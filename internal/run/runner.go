package run

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands. Every subprocess the tool spawns (mount,
// umount, blkid, gpg, gpgconf) goes through this interface so the lifecycle
// logic stays independent of process mechanics.
type Runner interface {
	// Run executes the command and captures its combined output, which is
	// folded into the returned error on failure.
	Run(name string, args ...string) error
	// Output executes the command and returns its trimmed stdout.
	Output(name string, args ...string) (string, error)
	// Interactive executes the command attached to the caller's terminal and
	// returns the command's exit code. A non-zero exit code is not an error.
	Interactive(name string, args ...string) (int, error)
}

type execRunner struct{}

// New returns a Runner backed by os/exec.
func New() Runner {
	return execRunner{}
}

func (execRunner) Run(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %v: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %v", name, err)
	}
	return nil
}

func (execRunner) Output(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %v", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (execRunner) Interactive(name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("%s: %v", name, err)
	}
	return 0, nil
}
