// Package dap exports GDB/MI semantic records as Debug Adapter Protocol events.
//
// This package provides:
//   - Translator: maps records.Object values onto DAP events
//   - Writer: frames and writes DAP messages to a stream
//
// Only events are produced; MI has no notion of DAP requests.
// The protocol is described at: https://microsoft.github.io/debug-adapter-protocol/
package dap

import (
	"strconv"
	"sync"

	"github.com/google/go-dap"

	"github.com/ctagard/gdbmi/pkg/mi/records"
)

// Translator converts semantic records into DAP events with increasing
// sequence numbers. It is safe for concurrent use.
type Translator struct {
	mu  sync.Mutex
	seq int
}

// NewTranslator creates a translator whose first message has seq 1
func NewTranslator() *Translator {
	return &Translator{seq: 1}
}

// NextSeq returns the next sequence number
func (t *Translator) NextSeq() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	seq := t.seq
	t.seq++
	return seq
}

func (t *Translator) event(name string) dap.Event {
	return dap.Event{
		ProtocolMessage: dap.ProtocolMessage{Seq: t.NextSeq(), Type: "event"},
		Event:           name,
	}
}

// Translate returns the DAP events for obj. Records with no DAP
// counterpart yield nil.
func (t *Translator) Translate(obj records.Object) []dap.Message {
	switch o := obj.(type) {
	case *records.StoppedAsyncOutput:
		return t.stopped(o)

	case *records.RunningAsyncOutput:
		return []dap.Message{&dap.ContinuedEvent{
			Event: t.event("continued"),
			Body: dap.ContinuedEventBody{
				ThreadId:            threadID(o.ThreadID),
				AllThreadsContinued: o.AllThreadsRunning(),
			},
		}}

	case *records.ThreadCreatedAsyncOutput:
		return []dap.Message{t.thread("started", o.ThreadID)}

	case *records.ThreadExitedAsyncOutput:
		return []dap.Message{t.thread("exited", o.ThreadID)}

	case *records.ThreadGroupStartedAsyncOutput:
		pid, _ := strconv.Atoi(o.PID)
		return []dap.Message{&dap.ProcessEvent{
			Event: t.event("process"),
			Body: dap.ProcessEventBody{
				Name:            o.ThreadGroupID,
				SystemProcessId: pid,
				IsLocalProcess:  true,
				StartMethod:     "launch",
			},
		}}

	case *records.ThreadGroupExitedAsyncOutput:
		code := 0
		if o.ExitCode != nil {
			code = exitCode(*o.ExitCode)
		}
		return []dap.Message{
			t.exited(code),
			&dap.TerminatedEvent{Event: t.event("terminated")},
		}

	case *records.ConsoleOutput:
		return []dap.Message{t.output("console", o.Text)}

	case *records.TargetOutput:
		return []dap.Message{t.output("stdout", o.Text)}

	case *records.LogOutput:
		return []dap.Message{t.output("stderr", o.Text)}

	case *records.ErrorResultRecord:
		msg := "error"
		if o.Msg != nil {
			msg = *o.Msg
		}
		return []dap.Message{t.output("important", msg+"\n")}
	}
	return nil
}

func (t *Translator) stopped(o *records.StoppedAsyncOutput) []dap.Message {
	if o.Reason != nil && o.Reason.Exited() {
		code := 0
		if o.ExitCode != nil {
			code = exitCode(*o.ExitCode)
		}
		return []dap.Message{t.exited(code)}
	}

	body := dap.StoppedEventBody{
		Reason:            "pause",
		AllThreadsStopped: o.AllThreadsStopped(),
	}
	if o.ThreadID != nil {
		body.ThreadId = threadID(*o.ThreadID)
	}
	if o.Reason != nil {
		body.Reason, body.Description = stopReason(*o.Reason, o.SignalName)
	}
	if o.BreakpointNumber != nil {
		if n, err := strconv.Atoi(*o.BreakpointNumber); err == nil {
			body.HitBreakpointIds = []int{n}
		}
	}
	if fn, ok := records.LookupString(o.Frame, "func"); ok {
		body.Text = fn
	}

	return []dap.Message{&dap.StoppedEvent{Event: t.event("stopped"), Body: body}}
}

// stopReason maps a stop reason onto a DAP stopped-event reason and a
// human readable description.
func stopReason(r records.StopReason, signal *string) (string, string) {
	switch r {
	case records.ReasonBreakpointHit:
		return "breakpoint", "Breakpoint hit"
	case records.ReasonWatchpointTrigger, records.ReasonReadWatchpointTrigger, records.ReasonAccessWatchpointTrigger:
		return "data breakpoint", "Watchpoint triggered"
	case records.ReasonEndSteppingRange, records.ReasonFunctionFinished, records.ReasonLocationReached:
		return "step", r.String()
	case records.ReasonSignalReceived:
		name := "signal"
		if signal != nil {
			name = *signal
		}
		if name == "SIGINT" || name == "SIGTRAP" {
			return "pause", name
		}
		return "exception", name
	}
	return "pause", r.String()
}

func (t *Translator) thread(reason, id string) dap.Message {
	return &dap.ThreadEvent{
		Event: t.event("thread"),
		Body:  dap.ThreadEventBody{Reason: reason, ThreadId: threadID(id)},
	}
}

func (t *Translator) exited(code int) dap.Message {
	return &dap.ExitedEvent{
		Event: t.event("exited"),
		Body:  dap.ExitedEventBody{ExitCode: code},
	}
}

func (t *Translator) output(category, text string) dap.Message {
	return &dap.OutputEvent{
		Event: t.event("output"),
		Body:  dap.OutputEventBody{Category: category, Output: text},
	}
}

// threadID converts an MI thread id. "all" and non-numeric ids become 0.
func threadID(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	return n
}

// exitCode decodes an MI exit code, which GDB prints in octal.
func exitCode(s string) int {
	n, err := strconv.ParseInt(s, 8, 32)
	if err != nil {
		return 0
	}
	return int(n)
}
