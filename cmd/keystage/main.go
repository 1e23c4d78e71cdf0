package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/keystage/keystage/internal/config"
	"github.com/keystage/keystage/internal/mount"
	"github.com/keystage/keystage/internal/platform"
	"github.com/keystage/keystage/internal/prompt"
	"github.com/keystage/keystage/internal/run"
	"github.com/keystage/keystage/internal/session"
)

var (
	devicePath string
	label      string
	uuid       string
	keyFile    string
	force      bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "keystage [flags] [-- gpg-args...]",
	Short: "Stage offline GPG keys from removable storage into an ephemeral keyring",
	Long: `Keystage mounts a normally-offline key volume read-only, imports an exported
key file into a throwaway GNUPGHOME, runs gpg against it together with your
regular public keyring, and removes every trace when the session ends —
however it ends.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSession,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	f := rootCmd.Flags()
	f.StringVarP(&devicePath, "device", "d", "", "block device path of the key volume")
	f.StringVarP(&label, "label", "l", "", "filesystem label of the key volume")
	f.StringVarP(&uuid, "uuid", "u", "", "filesystem UUID of the key volume")
	f.StringVarP(&keyFile, "keyfile", "k", "", fmt.Sprintf("key file on the volume (default %q)", config.DefaultKeyFile))
	f.BoolVarP(&force, "force", "f", false, "skip confirmation prompts")
	f.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func runSession(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}
	if devicePath == "" && label == "" && uuid == "" {
		label = settings.Label
	}

	runner := run.New()
	orch := &session.Orchestrator{
		Resolver: platform.NewDeviceResolver(runner),
		Mounter:  mount.NewManager(runner, settings.RuntimeDir),
		Runner:   runner,
		Prompter: prompt.New(force),
		Settings: settings,
	}
	return orch.Run(session.Options{
		Spec:    platform.DeviceSpec{Path: devicePath, Label: label, UUID: uuid},
		KeyFile: keyFile,
		Force:   force,
		GPGArgs: args,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *session.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		if errors.Is(err, prompt.ErrDeclined) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
