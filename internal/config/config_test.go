package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/GuitarSoul/putty-sessions/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)

	if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
placeholders:
  name: "{{name}}"
output:
  dir: C:\Users\ops\sessions
import_command: [regedit, /s]
workers: 2
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "{{name}}", cfg.Placeholders.Name)
	assert.Equal(t, "%ADDR%", cfg.Placeholders.Address, "unset keys keep defaults")
	assert.Equal(t, `C:\Users\ops\sessions`, cfg.Output.Dir)
	assert.Empty(t, cfg.Output.Ext)
	assert.Equal(t, ".reg", cfg.FileExt(), "extension follows the default format")
	assert.Equal(t, []string{"regedit", "/s"}, cfg.ImportCommand)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(writeConfig(t, "placeholders: [unclosed"), nil)
	require.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "same placeholders", content: "placeholders:\n  name: X\n  address: X\n"},
		{name: "empty placeholder", content: "placeholders:\n  name: \"\"\n"},
		{name: "zero workers", content: "workers: 0\n"},
		{name: "unknown format", content: "format: telnet\n"},
		{name: "user placeholder reuses name", content: "placeholders:\n  user: \"%NAME%\"\n"},
		{name: "empty user placeholder", content: "placeholders:\n  user: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Load(writeConfig(t, tt.content), nil)
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "output:\n  dir: from-file\n  ext: .file\nworkers: 2\n")
	t.Setenv("PUTTY_SESSIONS_OUTPUT_DIR", "from-env")
	t.Setenv("PUTTY_SESSIONS_WORKERS", "3")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("outdir", "", "")
	fs.String("ext", "", "")
	fs.Int("workers", 0, "")
	require.NoError(t, fs.Parse([]string{"--outdir", "from-flag"}))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Output.Dir)
	assert.Equal(t, ".file", cfg.Output.Ext, "unchanged flag must not override the file")
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadFormatAndUsername(t *testing.T) {
	t.Setenv("PUTTY_SESSIONS_USERNAME", "from-env")

	path := writeConfig(t, "format: xshell\nusername: from-file\n")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "xshell", cfg.Format)
	assert.Equal(t, "from-env", cfg.Username)
	assert.Equal(t, ".xsh", cfg.FileExt())

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("format", "", "")
	fs.String("username", "", "")
	fs.String("ext", "", "")
	require.NoError(t, fs.Parse([]string{"--format", "securecrt", "--username", "from-flag"}))

	cfg, err = config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "securecrt", cfg.Format)
	assert.Equal(t, "from-flag", cfg.Username)
	assert.Equal(t, ".ini", cfg.FileExt())

	require.NoError(t, fs.Parse([]string{"--ext", ".session"}))
	cfg, err = config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, ".session", cfg.FileExt(), "an explicit extension wins over the format")
}

func TestPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "putty-sessions", "config.yaml"), config.Path())
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Workers = 7

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "import_command:")

	var decoded config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	if diff := cmp.Diff(cfg, &decoded); diff != "" {
		t.Errorf("YAML() round trip mismatch (-want +got):\n%s", diff)
	}
}
