package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctagard/gdbmi/internal/config"
	"github.com/ctagard/gdbmi/pkg/types"
)

func run(t *testing.T, cfg *config.Config, input string) string {
	t.Helper()
	var out bytes.Buffer
	r, err := New(NewScannerEditor(strings.NewReader(input), &out), &out, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))
	return out.String()
}

// TestREPL_PrettyPrints verifies records are printed with prompts between them.
func TestREPL_PrettyPrints(t *testing.T) {
	out := run(t, config.DefaultConfig(), "^done,value=\"1\"\n(gdb)\n\n")

	assert.True(t, strings.HasPrefix(out, Prompt+"^done,\n"))
	assert.Contains(t, out, `  value = "1"`)
	assert.Equal(t, 4, strings.Count(out, Prompt))
}

// TestREPL_ShowsErrors verifies bad lines are reported inline without stopping.
func TestREPL_ShowsErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Format = types.FormatCompact
	out := run(t, cfg, "^done,\n%weird\n=thread-selected,id=\"1\"\n")

	assert.Equal(t, 2, strings.Count(out, "error: "))
	assert.Contains(t, out, "=thread-selected,id=\"1\"\n")
}

// TestREPL_Commands verifies format switching, state tracking and quit.
func TestREPL_Commands(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Semantic = true
	out := run(t, cfg, strings.Join([]string{
		".format compact",
		`=thread-created,id="1",group-id="i1"`,
		`*stopped,reason="breakpoint-hit",bkptno="2",thread-id="1"`,
		".state",
		".quit",
		`^done,never="printed"`,
	}, "\n"))

	assert.Contains(t, out, `*stopped,reason="breakpoint-hit",bkptno="2",thread-id="1"`+"\n")
	assert.Contains(t, out, `"state": "stopped"`)
	assert.Contains(t, out, `"breakpointNumber": "2"`)
	assert.NotContains(t, out, "never")
}

func TestREPL_CommandErrors(t *testing.T) {
	out := run(t, config.DefaultConfig(), ".format xml\n.semantic maybe\n.bogus\n.help\n")

	assert.Contains(t, out, `error: unknown format "xml"`)
	assert.Contains(t, out, "error: usage: .semantic on|off")
	assert.Contains(t, out, "error: unknown command .bogus")
	assert.Contains(t, out, ".format <name>")
}

// TestREPL_SemanticToggle verifies the tracker only sees mapped records.
func TestREPL_SemanticToggle(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Semantic = true
	out := run(t, cfg, ".semantic off\n*running,thread-id=\"all\"\n.format json\n.state\n.semantic on\n.reset\n*running,thread-id=\"all\"\n.state\n")

	assert.Contains(t, out, `"state": "unknown"`)
	assert.Contains(t, out, `"kind":"running"`)
	assert.Contains(t, out, `"state": "running"`)
}

func TestREPL_BadFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Format = "xml"
	_, err := New(NewScannerEditor(strings.NewReader(""), &bytes.Buffer{}), &bytes.Buffer{}, cfg, nil)
	assert.Error(t, err)
}

// TestREPL_DAPFormatMapsRecords verifies the dap format emits framed events
// even when semantic mapping is off in the configuration.
func TestREPL_DAPFormatMapsRecords(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Semantic = false
	cfg.Format = types.FormatDAP
	out := run(t, cfg, `*stopped,reason="breakpoint-hit",bkptno="1",thread-id="1"`+"\n")

	assert.Contains(t, out, "Content-Length: ")
	assert.Contains(t, out, `"event":"stopped"`)
}

// TestREPL_DAPFormatIgnoresSemanticOff verifies switching to dap turns
// mapping on and .semantic off does not turn it back off.
func TestREPL_DAPFormatIgnoresSemanticOff(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Semantic = false
	out := run(t, cfg, ".format dap\n.semantic off\n~\"hello\"\n.format compact\n*running,thread-id=\"all\"\n.state\n")

	assert.Equal(t, 1, strings.Count(out, "Content-Length: "))
	assert.Contains(t, out, `"category":"console"`)
	assert.Contains(t, out, `"output":"hello"`)

	// Leaving dap restores the requested setting.
	assert.Contains(t, out, `"state": "unknown"`)
}
