package session

import (
	"github.com/ctagard/gdbmi/pkg/mi/records"
	"github.com/ctagard/gdbmi/pkg/types"
)

// Tracker folds semantic records into a picture of the inferior: its
// thread groups, threads, execution state and most recent stop.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	state     types.ExecState
	groups    []*types.ThreadGroupInfo
	threads   []*types.ThreadInfo
	selected  string
	lastStop  *types.StopInfo
	lastError string
	params    map[string]string
}

// NewTracker creates a tracker in the unknown state
func NewTracker() *Tracker {
	return &Tracker{
		state:  types.ExecStateUnknown,
		params: make(map[string]string),
	}
}

// State returns the current execution state
func (t *Tracker) State() types.ExecState {
	return t.state
}

// Apply updates the tracked state from one record. Records that carry no
// state are ignored.
func (t *Tracker) Apply(obj records.Object) {
	switch o := obj.(type) {
	case *records.ThreadGroupAddedAsyncOutput:
		t.group(o.ThreadGroupID)

	case *records.ThreadGroupRemovedAsyncOutput:
		for i, g := range t.groups {
			if g.ID == o.ThreadGroupID {
				t.groups = append(t.groups[:i], t.groups[i+1:]...)
				break
			}
		}

	case *records.ThreadGroupStartedAsyncOutput:
		g := t.group(o.ThreadGroupID)
		g.PID = o.PID
		g.Started = true
		g.ExitCode = ""

	case *records.ThreadGroupExitedAsyncOutput:
		g := t.group(o.ThreadGroupID)
		g.Started = false
		g.PID = ""
		if o.ExitCode != nil {
			g.ExitCode = *o.ExitCode
		}
		t.dropThreads(func(th *types.ThreadInfo) bool { return th.ThreadGroupID == o.ThreadGroupID })
		if !t.anyStarted() {
			t.state = types.ExecStateExited
		}

	case *records.ThreadCreatedAsyncOutput:
		if t.thread(o.ThreadID) == nil {
			t.threads = append(t.threads, &types.ThreadInfo{ID: o.ThreadID, ThreadGroupID: o.ThreadGroupID})
		}

	case *records.ThreadExitedAsyncOutput:
		t.dropThreads(func(th *types.ThreadInfo) bool { return th.ID == o.ThreadID })
		if t.selected == o.ThreadID {
			t.selected = ""
		}

	case *records.ThreadSelectedAsyncOutput:
		t.selected = o.ThreadID

	case *records.RunningAsyncOutput:
		t.state = types.ExecStateRunning
		t.setRunning(o.AllThreadsRunning(), []string{o.ThreadID}, true)

	case *records.StoppedAsyncOutput:
		t.stopped(o)

	case *records.ErrorResultRecord:
		if o.Msg != nil {
			t.lastError = *o.Msg
		} else {
			t.lastError = "error"
		}

	case *records.CmdParamChangedAsyncOutput:
		t.params[o.Param] = o.Value
	}
}

func (t *Tracker) stopped(o *records.StoppedAsyncOutput) {
	info := &types.StopInfo{AllThreads: o.AllThreadsStopped()}
	if o.Reason != nil {
		info.Reason = o.Reason.String()
	}
	if o.ThreadID != nil {
		info.ThreadID = *o.ThreadID
		t.selected = *o.ThreadID
	}
	if o.BreakpointNumber != nil {
		info.BreakpointNumber = *o.BreakpointNumber
	}
	if o.SignalName != nil {
		info.SignalName = *o.SignalName
	}
	info.Function, _ = records.LookupString(o.Frame, "func")
	info.File, _ = records.LookupString(o.Frame, "file")
	info.Line, _ = records.LookupString(o.Frame, "line")
	t.lastStop = info

	if o.Reason != nil && o.Reason.Exited() {
		t.state = types.ExecStateExited
		t.threads = nil
		return
	}
	t.state = types.ExecStateStopped

	// Without stopped-threads the debugger is in all-stop mode.
	switch {
	case o.StoppedThreads == nil, o.StoppedThreads.All():
		t.setRunning(true, nil, false)
	default:
		t.setRunning(false, o.StoppedThreads.IDs(), false)
	}
}

func (t *Tracker) setRunning(all bool, ids []string, running bool) {
	for _, th := range t.threads {
		if all {
			th.Running = running
			continue
		}
		for _, id := range ids {
			if th.ID == id {
				th.Running = running
			}
		}
	}
}

func (t *Tracker) group(id string) *types.ThreadGroupInfo {
	for _, g := range t.groups {
		if g.ID == id {
			return g
		}
	}
	g := &types.ThreadGroupInfo{ID: id}
	t.groups = append(t.groups, g)
	return g
}

func (t *Tracker) thread(id string) *types.ThreadInfo {
	for _, th := range t.threads {
		if th.ID == id {
			return th
		}
	}
	return nil
}

func (t *Tracker) dropThreads(match func(*types.ThreadInfo) bool) {
	kept := t.threads[:0]
	for _, th := range t.threads {
		if !match(th) {
			kept = append(kept, th)
		}
	}
	t.threads = kept
}

func (t *Tracker) anyStarted() bool {
	for _, g := range t.groups {
		if g.Started {
			return true
		}
	}
	return false
}

// Fill copies the tracked state into s. Slices and maps are fresh copies.
func (t *Tracker) Fill(s *types.SessionState) {
	s.State = t.state
	s.SelectedThread = t.selected
	s.LastError = t.lastError

	s.ThreadGroups = make([]types.ThreadGroupInfo, len(t.groups))
	for i, g := range t.groups {
		s.ThreadGroups[i] = *g
	}
	s.Threads = make([]types.ThreadInfo, len(t.threads))
	for i, th := range t.threads {
		s.Threads[i] = *th
	}
	if t.lastStop != nil {
		stop := *t.lastStop
		s.LastStop = &stop
	}
	if len(t.params) > 0 {
		s.Params = make(map[string]string, len(t.params))
		for k, v := range t.params {
			s.Params[k] = v
		}
	}
}
