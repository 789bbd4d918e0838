package render

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	godap "github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctagard/gdbmi/internal/dap"
	"github.com/ctagard/gdbmi/internal/stream"
	"github.com/ctagard/gdbmi/pkg/types"
)

func entries(t *testing.T, lines ...string) []*stream.Entry {
	t.Helper()
	opts := stream.Options{Semantic: true}
	var out []*stream.Entry
	for i, l := range lines {
		e, ok := opts.Decode(i+1, l)
		require.True(t, ok, l)
		out = append(out, e)
	}
	return out
}

func writeAll(t *testing.T, format types.OutputFormat, es []*stream.Entry) string {
	t.Helper()
	var buf bytes.Buffer
	sink, err := New(format, &buf, "\t")
	require.NoError(t, err)
	for _, e := range es {
		require.NoError(t, sink.Write(e))
	}
	return buf.String()
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{}, "")
	assert.Error(t, err)
}

// TestCompactSink verifies the wire form is written and bad lines are skipped.
func TestCompactSink(t *testing.T) {
	es := entries(t, `1^done,value="x"`, `^done,`, `~"hi\n"`)
	assert.Equal(t, "1^done,value=\"x\"\n~\"hi\\n\"\n", writeAll(t, types.FormatCompact, es))
}

// TestPrettySink verifies the configured indent is used.
func TestPrettySink(t *testing.T) {
	out := writeAll(t, types.FormatPretty, entries(t, `^done,value="x"`))
	assert.Contains(t, out, "^done,\n")
	assert.Contains(t, out, "\tvalue = \"x\"")
}

// TestJSONSink verifies one JSON view per line, errors included.
func TestJSONSink(t *testing.T) {
	out := writeAll(t, types.FormatJSON, entries(t, `=thread-selected,id="2"`, `^done,`))

	dec := json.NewDecoder(bytes.NewBufferString(out))
	var first, second map[string]interface{}
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "thread-selected", first["kind"])
	assert.Equal(t, map[string]interface{}{"threadId": "2"}, first["object"])
	assert.Contains(t, second, "error")
	assert.NotContains(t, second, "object")
}

// TestDAPSink verifies framed events with a running sequence.
func TestDAPSink(t *testing.T) {
	out := writeAll(t, types.FormatDAP, entries(t,
		`^done,value="1"`,
		`*running,thread-id="all"`,
		`~"hello\n"`,
	))

	r := bufio.NewReader(bytes.NewBufferString(out))
	msg, err := dap.Receive(r)
	require.NoError(t, err)
	cont, ok := msg.(*godap.ContinuedEvent)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, 1, cont.Seq)
	assert.True(t, cont.Body.AllThreadsContinued)

	msg, err = dap.Receive(r)
	require.NoError(t, err)
	output, ok := msg.(*godap.OutputEvent)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, 2, output.Seq)
	assert.Equal(t, "hello\n", output.Body.Output)

	_, err = dap.Receive(r)
	assert.Error(t, err)
}
