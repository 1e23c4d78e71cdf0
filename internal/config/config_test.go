package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GNUPGHOME", "")
	t.Setenv("XDG_RUNTIME_DIR", "")
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyFile, s.KeyFile)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".gnupg"), s.GNUPGHome)
	assert.Equal(t, os.TempDir(), s.RuntimeDir)
	assert.Empty(t, s.Label)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolateEnv(t)
	gnupg := t.TempDir()
	runtime := t.TempDir()
	t.Setenv("GNUPGHOME", gnupg)
	t.Setenv("XDG_RUNTIME_DIR", runtime)

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, gnupg, s.GNUPGHome)
	assert.Equal(t, runtime, s.RuntimeDir)
}

func TestLoadConfigFile(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "keystage")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keystage.yaml"),
		[]byte("label: SECURE_KEY_3Z\nkeyfile: backup.asc\n"), 0o644))

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "SECURE_KEY_3Z", s.Label)
	assert.Equal(t, "backup.asc", s.KeyFile)
}

func TestPubringPrefersKeybox(t *testing.T) {
	home := t.TempDir()
	s := &Settings{GNUPGHome: home}

	assert.Equal(t, filepath.Join(home, "pubring.gpg"), s.Pubring(),
		"legacy keyring is the fallback when no keybox exists")

	require.NoError(t, os.WriteFile(filepath.Join(home, "pubring.kbx"), nil, 0o600))
	assert.Equal(t, filepath.Join(home, "pubring.kbx"), s.Pubring())
}
