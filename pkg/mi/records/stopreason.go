package records

import (
	"fmt"

	"github.com/ctagard/gdbmi/pkg/errors"
)

// StopReason is why the inferior stopped, decoded from the "reason" field
// of a *stopped record.
type StopReason int

const (
	ReasonBreakpointHit StopReason = iota
	ReasonWatchpointTrigger
	ReasonReadWatchpointTrigger
	ReasonAccessWatchpointTrigger
	ReasonFunctionFinished
	ReasonLocationReached
	ReasonWatchpointScope
	ReasonEndSteppingRange
	ReasonExitedSignalled
	ReasonExited
	ReasonExitedNormally
	ReasonSignalReceived
	ReasonSolibEvent
	ReasonFork
	ReasonVfork
	ReasonSyscallEntry
	ReasonSyscallReturn
	ReasonExec
)

// stopReasonNames holds the wire string for each reason, indexed by value.
var stopReasonNames = [...]string{
	ReasonBreakpointHit:           "breakpoint-hit",
	ReasonWatchpointTrigger:       "watchpoint-trigger",
	ReasonReadWatchpointTrigger:   "read-watchpoint-trigger",
	ReasonAccessWatchpointTrigger: "access-watchpoint-trigger",
	ReasonFunctionFinished:        "function-finished",
	ReasonLocationReached:         "location-reached",
	ReasonWatchpointScope:         "watchpoint-scope",
	ReasonEndSteppingRange:        "end-stepping-range",
	ReasonExitedSignalled:         "exited-signalled",
	ReasonExited:                  "exited",
	ReasonExitedNormally:          "exited-normally",
	ReasonSignalReceived:          "signal-received",
	ReasonSolibEvent:              "solib-event",
	ReasonFork:                    "fork",
	ReasonVfork:                   "vfork",
	ReasonSyscallEntry:            "syscall-entry",
	ReasonSyscallReturn:           "syscall-return",
	ReasonExec:                    "exec",
}

var stopReasonByName = func() map[string]StopReason {
	m := make(map[string]StopReason, len(stopReasonNames))
	for r, name := range stopReasonNames {
		m[name] = StopReason(r)
	}
	return m
}()

// StopReasons returns every known reason in declaration order.
func StopReasons() []StopReason {
	out := make([]StopReason, len(stopReasonNames))
	for i := range stopReasonNames {
		out[i] = StopReason(i)
	}
	return out
}

// ParseStopReason maps a wire string to its reason. There is no fallback:
// an unlisted string fails with UNKNOWN_STOP_REASON.
func ParseStopReason(s string) (StopReason, error) {
	r, ok := stopReasonByName[s]
	if !ok {
		return 0, errors.UnknownStopReason(s)
	}
	return r, nil
}

// String returns the wire string.
func (r StopReason) String() string {
	if r < 0 || int(r) >= len(stopReasonNames) {
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
	return stopReasonNames[r]
}

// Exited reports whether the reason means the inferior is gone.
func (r StopReason) Exited() bool {
	return r == ReasonExited || r == ReasonExitedNormally || r == ReasonExitedSignalled
}

// MarshalText encodes the reason as its wire string.
func (r StopReason) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(stopReasonNames) {
		return nil, fmt.Errorf("invalid stop reason %d", int(r))
	}
	return []byte(stopReasonNames[r]), nil
}

// UnmarshalText decodes a wire string.
func (r *StopReason) UnmarshalText(b []byte) error {
	v, err := ParseStopReason(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
