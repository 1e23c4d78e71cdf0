package prompt

import (
	"errors"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrDeclined is returned by callers when the user answers no at a
// confirmation point. Declining is an expected termination, not a crash.
var ErrDeclined = errors.New("declined by user")

// Prompter asks for confirmation before sensitive steps.
type Prompter interface {
	Confirm(label string) (bool, error)
}

// New returns the interactive prompter, or an auto-accepting one when force
// is set or stdin is not a terminal.
func New(force bool) Prompter {
	if force || !term.IsTerminal(int(os.Stdin.Fd())) {
		return autoConfirm{}
	}
	return ttyPrompter{}
}

type autoConfirm struct{}

func (autoConfirm) Confirm(string) (bool, error) { return true, nil }

type ttyPrompter struct{}

func (ttyPrompter) Confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := p.Run()
	if err != nil {
		// promptui reports "no", empty input, and interrupts as errors.
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
