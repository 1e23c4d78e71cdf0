package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultKeyFile is the filename looked up on the key volume when the caller
// does not name one.
const DefaultKeyFile = "private-keys.asc"

// Settings are resolved from the environment, an optional config file, and
// built-in defaults. The config file only supplies sticky defaults (device
// label, key filename); it never holds secrets.
type Settings struct {
	GNUPGHome  string
	RuntimeDir string
	KeyFile    string
	Label      string
}

// Load reads keystage.yaml from the user config directory if present and
// resolves the environment-dependent paths.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("keystage")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "keystage"))
	}
	v.SetEnvPrefix("KEYSTAGE")
	v.AutomaticEnv()
	v.SetDefault("keyfile", DefaultKeyFile)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	s := &Settings{
		KeyFile: v.GetString("keyfile"),
		Label:   v.GetString("label"),
	}
	s.GNUPGHome = os.Getenv("GNUPGHOME")
	if s.GNUPGHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		s.GNUPGHome = filepath.Join(home, ".gnupg")
	}
	s.RuntimeDir = os.Getenv("XDG_RUNTIME_DIR")
	if s.RuntimeDir == "" {
		s.RuntimeDir = os.TempDir()
	}
	return s, nil
}

// Pubring returns the caller's existing public keyring. Modern gpg keeps a
// keybox; fall back to the legacy keyring name when no keybox exists.
func (s *Settings) Pubring() string {
	kbx := filepath.Join(s.GNUPGHome, "pubring.kbx")
	if _, err := os.Stat(kbx); err == nil {
		return kbx
	}
	return filepath.Join(s.GNUPGHome, "pubring.gpg")
}
