// Package records maps GDB/MI syntax trees onto semantic objects.
//
// Objects are fully detached from the syntax tree they were built from:
// they hold plain strings and copies, never mi nodes. Optional wire fields
// are pointers and stay nil when the key is absent.
package records

import "encoding/json"

// Object is a semantic record. Kind returns the record's discriminator,
// which for async records is the class keyword.
type Object interface {
	Kind() string
}

// ResultRecord is the semantic form of a "^" line.
type ResultRecord interface {
	Object
	resultRecord()
}

// ExecAsyncOutput is the semantic form of a "*" line.
type ExecAsyncOutput interface {
	Object
	execAsync()
}

// NotifyAsyncOutput is the semantic form of a "=" line.
type NotifyAsyncOutput interface {
	Object
	notifyAsync()
}

// StatusAsyncOutput is the semantic form of a "+" line.
type StatusAsyncOutput interface {
	Object
	statusAsync()
}

// StreamRecord is the semantic form of a "~", "@" or "&" line.
type StreamRecord interface {
	Object
	streamRecord()
}

// --- Result records ---

// DoneResultRecord reports success. Class is "done" or "running".
type DoneResultRecord struct {
	Token   *uint64 `json:"token,omitempty"`
	Class   string  `json:"class"`
	Results []Field `json:"results,omitempty"`
}

// ConnectedResultRecord reports a connection to a remote target.
type ConnectedResultRecord struct {
	Token *uint64 `json:"token,omitempty"`
}

// ErrorResultRecord reports a failed command.
type ErrorResultRecord struct {
	Token *uint64 `json:"token,omitempty"`
	Msg   *string `json:"msg,omitempty"`
	Code  *string `json:"code,omitempty"`
}

// ExitResultRecord reports that the debugger is exiting.
type ExitResultRecord struct {
	Token *uint64 `json:"token,omitempty"`
}

func (*DoneResultRecord) Kind() string      { return "done" }
func (*ConnectedResultRecord) Kind() string { return "connected" }
func (*ErrorResultRecord) Kind() string     { return "error" }
func (*ExitResultRecord) Kind() string      { return "exit" }

func (*DoneResultRecord) resultRecord()      {}
func (*ConnectedResultRecord) resultRecord() {}
func (*ErrorResultRecord) resultRecord()     {}
func (*ExitResultRecord) resultRecord()      {}

// --- Exec async output ---

// RunningAsyncOutput reports resumed execution. ThreadID may be "all".
type RunningAsyncOutput struct {
	ThreadID string `json:"threadId"`
}

// AllThreadsRunning reports whether every thread resumed.
func (r *RunningAsyncOutput) AllThreadsRunning() bool {
	return r.ThreadID == allThreads
}

// StoppedAsyncOutput reports that the inferior stopped.
type StoppedAsyncOutput struct {
	Reason           *StopReason `json:"reason,omitempty"`
	ThreadID         *string     `json:"threadId,omitempty"`
	StoppedThreads   *ThreadSet  `json:"stoppedThreads,omitempty"`
	Core             *string     `json:"core,omitempty"`
	BreakpointNumber *string     `json:"breakpointNumber,omitempty"`
	SignalName       *string     `json:"signalName,omitempty"`
	ExitCode         *string     `json:"exitCode,omitempty"`
	Frame            []Field     `json:"frame,omitempty"`
}

// AllThreadsStopped reports whether stopped-threads was the "all" sentinel.
// It is false for any explicit set, including an empty one, and when the
// field was absent.
func (s *StoppedAsyncOutput) AllThreadsStopped() bool {
	return s.StoppedThreads != nil && s.StoppedThreads.All()
}

func (*RunningAsyncOutput) Kind() string { return "running" }
func (*StoppedAsyncOutput) Kind() string { return "stopped" }

func (*RunningAsyncOutput) execAsync() {}
func (*StoppedAsyncOutput) execAsync() {}

// --- Notify async output ---

type ThreadGroupAddedAsyncOutput struct {
	ThreadGroupID string `json:"threadGroupId"`
}

type ThreadGroupRemovedAsyncOutput struct {
	ThreadGroupID string `json:"threadGroupId"`
}

type ThreadGroupStartedAsyncOutput struct {
	ThreadGroupID string `json:"threadGroupId"`
	PID           string `json:"pid"`
}

// ThreadGroupExitedAsyncOutput carries the exit code when the debugger knows it.
type ThreadGroupExitedAsyncOutput struct {
	ThreadGroupID string  `json:"threadGroupId"`
	ExitCode      *string `json:"exitCode,omitempty"`
}

type ThreadCreatedAsyncOutput struct {
	ThreadID      string `json:"threadId"`
	ThreadGroupID string `json:"threadGroupId"`
}

type ThreadExitedAsyncOutput struct {
	ThreadID      string `json:"threadId"`
	ThreadGroupID string `json:"threadGroupId"`
}

type ThreadSelectedAsyncOutput struct {
	ThreadID string `json:"threadId"`
}

type RecordStartedAsyncOutput struct {
	ThreadGroupID string  `json:"threadGroupId"`
	Method        *string `json:"method,omitempty"`
	Format        *string `json:"format,omitempty"`
}

type RecordStoppedAsyncOutput struct {
	ThreadGroupID string `json:"threadGroupId"`
}

// CmdParamChangedAsyncOutput reports a "set" command changing a parameter.
type CmdParamChangedAsyncOutput struct {
	Param string `json:"param"`
	Value string `json:"value"`
}

func (*ThreadGroupAddedAsyncOutput) Kind() string   { return "thread-group-added" }
func (*ThreadGroupRemovedAsyncOutput) Kind() string { return "thread-group-removed" }
func (*ThreadGroupStartedAsyncOutput) Kind() string { return "thread-group-started" }
func (*ThreadGroupExitedAsyncOutput) Kind() string  { return "thread-group-exited" }
func (*ThreadCreatedAsyncOutput) Kind() string      { return "thread-created" }
func (*ThreadExitedAsyncOutput) Kind() string       { return "thread-exited" }
func (*ThreadSelectedAsyncOutput) Kind() string     { return "thread-selected" }
func (*RecordStartedAsyncOutput) Kind() string      { return "record-started" }
func (*RecordStoppedAsyncOutput) Kind() string      { return "record-stopped" }
func (*CmdParamChangedAsyncOutput) Kind() string    { return "cmd-param-changed" }

func (*ThreadGroupAddedAsyncOutput) notifyAsync()   {}
func (*ThreadGroupRemovedAsyncOutput) notifyAsync() {}
func (*ThreadGroupStartedAsyncOutput) notifyAsync() {}
func (*ThreadGroupExitedAsyncOutput) notifyAsync()  {}
func (*ThreadCreatedAsyncOutput) notifyAsync()      {}
func (*ThreadExitedAsyncOutput) notifyAsync()       {}
func (*ThreadSelectedAsyncOutput) notifyAsync()     {}
func (*RecordStartedAsyncOutput) notifyAsync()      {}
func (*RecordStoppedAsyncOutput) notifyAsync()      {}
func (*CmdParamChangedAsyncOutput) notifyAsync()    {}

// --- Status records ---

// StatusOutput carries progress of a slow operation such as a download.
// Every status class maps to it; Class keeps the keyword.
type StatusOutput struct {
	Token   *uint64 `json:"token,omitempty"`
	Class   string  `json:"class"`
	Results []Field `json:"results,omitempty"`
}

func (o *StatusOutput) Kind() string { return o.Class }

func (*StatusOutput) statusAsync() {}

// --- Stream records ---

type ConsoleOutput struct {
	Text string `json:"text"`
}

type TargetOutput struct {
	Text string `json:"text"`
}

type LogOutput struct {
	Text string `json:"text"`
}

func (*ConsoleOutput) Kind() string { return "console" }
func (*TargetOutput) Kind() string  { return "target" }
func (*LogOutput) Kind() string     { return "log" }

func (*ConsoleOutput) streamRecord() {}
func (*TargetOutput) streamRecord()  {}
func (*LogOutput) streamRecord()     {}

// --- Thread sets ---

const allThreads = "all"

// ThreadSet is either the "all" sentinel or an explicit list of thread ids.
// The two are never collapsed: an empty explicit list is not "all".
type ThreadSet struct {
	all bool
	ids []string
}

// AllThreads returns the "all" sentinel set.
func AllThreads() ThreadSet {
	return ThreadSet{all: true}
}

// Threads returns an explicit set. Order is preserved.
func Threads(ids ...string) ThreadSet {
	if ids == nil {
		ids = []string{}
	}
	return ThreadSet{ids: ids}
}

// All reports whether the set is the "all" sentinel.
func (s ThreadSet) All() bool {
	return s.all
}

// IDs returns the explicit ids; nil for the sentinel.
func (s ThreadSet) IDs() []string {
	if s.all {
		return nil
	}
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// MarshalJSON encodes the sentinel as "all" and explicit sets as an array.
func (s ThreadSet) MarshalJSON() ([]byte, error) {
	if s.all {
		return json.Marshal(allThreads)
	}
	return json.Marshal(s.IDs())
}

// UnmarshalJSON accepts "all" or an array of ids.
func (s *ThreadSet) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		if str == allThreads {
			*s = AllThreads()
		} else {
			*s = Threads(str)
		}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = Threads(ids...)
	return nil
}
