package dap

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctagard/gdbmi/pkg/mi/records"
)

func translateLine(t *testing.T, tr *Translator, line string) []dap.Message {
	t.Helper()
	obj, err := records.Parse(line)
	require.NoError(t, err)
	return tr.Translate(obj)
}

// TestTranslate_Stopped verifies stop reasons map onto DAP stopped events.
func TestTranslate_Stopped(t *testing.T) {
	tests := []struct {
		line        string
		reason      string
		description string
		threadID    int
		all         bool
		hits        []int
	}{
		{
			line:   `*stopped,reason="breakpoint-hit",bkptno="2",frame={func="main"},thread-id="1",stopped-threads="all"`,
			reason: "breakpoint", description: "Breakpoint hit", threadID: 1, all: true, hits: []int{2},
		},
		{
			line:   `*stopped,reason="access-watchpoint-trigger",thread-id="3",stopped-threads=["3"]`,
			reason: "data breakpoint", description: "Watchpoint triggered", threadID: 3,
		},
		{
			line:   `*stopped,reason="end-stepping-range",thread-id="1"`,
			reason: "step", description: "end-stepping-range", threadID: 1,
		},
		{
			line:   `*stopped,reason="signal-received",signal-name="SIGSEGV",thread-id="2"`,
			reason: "exception", description: "SIGSEGV", threadID: 2,
		},
		{
			line:   `*stopped,reason="signal-received",signal-name="SIGINT",thread-id="2"`,
			reason: "pause", description: "SIGINT", threadID: 2,
		},
		{
			line:   `*stopped,reason="solib-event"`,
			reason: "pause", description: "solib-event",
		},
		{
			line:   `*stopped,thread-id="1"`,
			reason: "pause", threadID: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			msgs := translateLine(t, NewTranslator(), tc.line)
			require.Len(t, msgs, 1)
			ev, ok := msgs[0].(*dap.StoppedEvent)
			require.True(t, ok, "got %T", msgs[0])

			assert.Equal(t, "event", ev.Type)
			assert.Equal(t, "stopped", ev.Event.Event)
			assert.Equal(t, tc.reason, ev.Body.Reason)
			assert.Equal(t, tc.description, ev.Body.Description)
			assert.Equal(t, tc.threadID, ev.Body.ThreadId)
			assert.Equal(t, tc.all, ev.Body.AllThreadsStopped)
			assert.Equal(t, tc.hits, ev.Body.HitBreakpointIds)
		})
	}
}

func TestTranslate_StoppedFrameText(t *testing.T) {
	msgs := translateLine(t, NewTranslator(), `*stopped,reason="function-finished",frame={addr="0x1",func="compute"}`)
	require.Len(t, msgs, 1)
	assert.Equal(t, "compute", msgs[0].(*dap.StoppedEvent).Body.Text)
}

// TestTranslate_Exited verifies exit codes are decoded from octal.
func TestTranslate_Exited(t *testing.T) {
	tr := NewTranslator()

	msgs := translateLine(t, tr, `*stopped,reason="exited",exit-code="011"`)
	require.Len(t, msgs, 1)
	assert.Equal(t, 9, msgs[0].(*dap.ExitedEvent).Body.ExitCode)

	msgs = translateLine(t, tr, `*stopped,reason="exited-normally"`)
	require.Len(t, msgs, 1)
	assert.Equal(t, 0, msgs[0].(*dap.ExitedEvent).Body.ExitCode)

	msgs = translateLine(t, tr, `=thread-group-exited,id="i1",exit-code="03"`)
	require.Len(t, msgs, 2)
	assert.Equal(t, 3, msgs[0].(*dap.ExitedEvent).Body.ExitCode)
	_, ok := msgs[1].(*dap.TerminatedEvent)
	assert.True(t, ok)
}

func TestTranslate_ExecAndThreads(t *testing.T) {
	tr := NewTranslator()

	msgs := translateLine(t, tr, `*running,thread-id="all"`)
	require.Len(t, msgs, 1)
	cont := msgs[0].(*dap.ContinuedEvent)
	assert.True(t, cont.Body.AllThreadsContinued)
	assert.Equal(t, 0, cont.Body.ThreadId)

	msgs = translateLine(t, tr, `*running,thread-id="4"`)
	cont = msgs[0].(*dap.ContinuedEvent)
	assert.False(t, cont.Body.AllThreadsContinued)
	assert.Equal(t, 4, cont.Body.ThreadId)

	msgs = translateLine(t, tr, `=thread-created,id="4",group-id="i1"`)
	assert.Equal(t, dap.ThreadEventBody{Reason: "started", ThreadId: 4}, msgs[0].(*dap.ThreadEvent).Body)

	msgs = translateLine(t, tr, `=thread-exited,id="4",group-id="i1"`)
	assert.Equal(t, dap.ThreadEventBody{Reason: "exited", ThreadId: 4}, msgs[0].(*dap.ThreadEvent).Body)

	msgs = translateLine(t, tr, `=thread-group-started,id="i1",pid="4242"`)
	proc := msgs[0].(*dap.ProcessEvent)
	assert.Equal(t, "i1", proc.Body.Name)
	assert.Equal(t, 4242, proc.Body.SystemProcessId)
}

func TestTranslate_Output(t *testing.T) {
	tests := []struct {
		line     string
		category string
		output   string
	}{
		{`~"Breakpoint 1 at 0x1139\n"`, "console", "Breakpoint 1 at 0x1139\n"},
		{`@"hello\n"`, "stdout", "hello\n"},
		{`&"warning: x\n"`, "stderr", "warning: x\n"},
		{`^error,msg="No symbol table is loaded."`, "important", "No symbol table is loaded.\n"},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			msgs := translateLine(t, NewTranslator(), tc.line)
			require.Len(t, msgs, 1)
			out := msgs[0].(*dap.OutputEvent)
			assert.Equal(t, tc.category, out.Body.Category)
			assert.Equal(t, tc.output, out.Body.Output)
		})
	}
}

func TestTranslate_NoCounterpart(t *testing.T) {
	tr := NewTranslator()
	for _, line := range []string{"^done", `=thread-selected,id="1"`, `=cmd-param-changed,param="a",value="b"`} {
		assert.Nil(t, translateLine(t, tr, line), line)
	}
	// Nothing was emitted, so no sequence numbers were used.
	assert.Equal(t, 1, tr.NextSeq())
}

// TestTranslator_Sequence verifies every emitted message gets the next seq.
func TestTranslator_Sequence(t *testing.T) {
	tr := NewTranslator()
	var seqs []int
	for _, line := range []string{`~"a"`, `=thread-group-exited,id="i1"`, `*running,thread-id="1"`} {
		for _, m := range translateLine(t, tr, line) {
			seqs = append(seqs, m.GetSeq())
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4}, seqs)
}

// TestWriter_RoundTrip verifies framed events can be read back.
func TestWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	tr := NewTranslator()
	require.NoError(t, w.SendAll(translateLine(t, tr, `*stopped,reason="breakpoint-hit",bkptno="1",thread-id="1",stopped-threads="all"`)))
	require.NoError(t, w.SendAll(translateLine(t, tr, `@"out"`)))
	assert.Contains(t, buf.String(), "Content-Length: ")

	r := bufio.NewReader(&buf)
	msg, err := Receive(r)
	require.NoError(t, err)
	stopped, ok := msg.(*dap.StoppedEvent)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "breakpoint", stopped.Body.Reason)
	assert.Equal(t, 1, stopped.Seq)

	msg, err = Receive(r)
	require.NoError(t, err)
	assert.Equal(t, "out", msg.(*dap.OutputEvent).Body.Output)

	_, err = Receive(r)
	assert.Error(t, err)
}
