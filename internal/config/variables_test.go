package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExpandVariables verifies each supported variable.
func TestExpandVariables(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Setenv("GDBMI_TEST_DIR", "/srv/gdb")

	tests := []struct {
		in   string
		want string
	}{
		{"plain/path", "plain/path"},
		{"~/.gdbmi_history", home + "/.gdbmi_history"},
		{"~", home},
		{"a~/b", "a~/b"},
		{"${userHome}/h", home + "/h"},
		{"${cwd}", cwd},
		{"${configDir}/gdbinit", "/etc/gdbmi/gdbinit"},
		{"${env:GDBMI_TEST_DIR}/bin/gdb", "/srv/gdb/bin/gdb"},
		{"${env:GDBMI_UNSET_VARIABLE}", ""},
		{"a${pathSeparator}b", "a" + string(os.PathSeparator) + "b"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ExpandVariables(tc.in, "/etc/gdbmi")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExpandVariables_Errors(t *testing.T) {
	got, err := ExpandVariables("${nope}/x", "")
	assert.Error(t, err)
	assert.Equal(t, "${nope}/x", got)

	_, err = ExpandVariables("${configDir}", "")
	assert.Error(t, err)
}

// TestLoadConfig_ExpandsPaths verifies path fields are expanded relative to the file.
func TestLoadConfig_ExpandsPaths(t *testing.T) {
	t.Setenv("GDBMI_TEST_GDB", "/usr/local/bin/gdb")
	path := writeFile(t, "gdbmi.yaml", `
historyFile: ${configDir}/history
gdb:
  path: ${env:GDBMI_TEST_GDB}
  args: ["-x", "${configDir}/init.gdb"]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, dir+"/history", cfg.HistoryFile)
	assert.Equal(t, "/usr/local/bin/gdb", cfg.GDB.Path)
	assert.Equal(t, []string{"-x", dir + "/init.gdb"}, cfg.GDB.Args)
}
