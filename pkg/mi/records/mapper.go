package records

import (
	"github.com/ctagard/gdbmi/pkg/errors"
	"github.com/ctagard/gdbmi/pkg/mi"
)

// Parse parses one line and maps it to a semantic object.
func Parse(line string) (Object, error) {
	rec, err := mi.ParseLine(line)
	if err != nil {
		return nil, err
	}
	return Map(rec)
}

// Map converts a syntax tree record into its semantic object. The record
// is not modified and the result shares no memory with it, so mapping the
// same record twice yields equal objects.
func Map(rec mi.Record) (Object, error) {
	switch r := rec.(type) {
	case *mi.ResultRecord:
		return mapResult(r)
	case *mi.AsyncRecord:
		switch r.Kind {
		case mi.ExecAsync:
			return mapExec(r)
		case mi.NotifyAsync:
			return mapNotify(r)
		case mi.StatusAsync:
			return mapStatus(r), nil
		}
		return nil, errors.NoSemanticMapping(r.Indicator(), r.Class)
	case *mi.StreamRecord:
		return mapStream(r), nil
	}
	return nil, errors.InvalidParameter("record", rec, "*mi.ResultRecord, *mi.AsyncRecord or *mi.StreamRecord")
}

func copyToken(t *uint64) *uint64 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func mapStatus(r *mi.AsyncRecord) *StatusOutput {
	return &StatusOutput{
		Token:   copyToken(r.Token),
		Class:   r.Class,
		Results: detachResults(r.Results),
	}
}

func mapResult(r *mi.ResultRecord) (Object, error) {
	f := fieldReader{class: "^" + r.Class, results: r.Results}
	switch r.Class {
	case "done", "running":
		return &DoneResultRecord{
			Token:   copyToken(r.Token),
			Class:   r.Class,
			Results: detachResults(r.Results),
		}, nil
	case "connected":
		return &ConnectedResultRecord{Token: copyToken(r.Token)}, nil
	case "error":
		msg, err := f.optString("msg")
		if err != nil {
			return nil, err
		}
		code, err := f.optString("code")
		if err != nil {
			return nil, err
		}
		return &ErrorResultRecord{Token: copyToken(r.Token), Msg: msg, Code: code}, nil
	case "exit":
		return &ExitResultRecord{Token: copyToken(r.Token)}, nil
	}
	return nil, errors.NoSemanticMapping(mi.IndicatorResult, r.Class)
}

func mapExec(r *mi.AsyncRecord) (Object, error) {
	f := fieldReader{class: "*" + r.Class, results: r.Results}
	switch r.Class {
	case "running":
		id, err := f.reqString("thread-id")
		if err != nil {
			return nil, err
		}
		return &RunningAsyncOutput{ThreadID: id}, nil
	case "stopped":
		return mapStopped(f)
	}
	return nil, errors.NoSemanticMapping(mi.IndicatorExec, r.Class)
}

func mapStopped(f fieldReader) (*StoppedAsyncOutput, error) {
	out := &StoppedAsyncOutput{}

	reason, err := f.optString("reason")
	if err != nil {
		return nil, err
	}
	if reason != nil {
		sr, err := ParseStopReason(*reason)
		if err != nil {
			return nil, err
		}
		out.Reason = &sr
	}

	strs := []struct {
		key string
		dst **string
	}{
		{"thread-id", &out.ThreadID},
		{"core", &out.Core},
		{"bkptno", &out.BreakpointNumber},
		{"signal-name", &out.SignalName},
		{"exit-code", &out.ExitCode},
	}
	for _, s := range strs {
		if *s.dst, err = f.optString(s.key); err != nil {
			return nil, err
		}
	}

	if out.StoppedThreads, err = f.optThreadSet("stopped-threads"); err != nil {
		return nil, err
	}
	if out.Frame, err = f.optTuple("frame"); err != nil {
		return nil, err
	}
	return out, nil
}

func mapNotify(r *mi.AsyncRecord) (Object, error) {
	f := fieldReader{class: "=" + r.Class, results: r.Results}
	var err error
	switch r.Class {
	case "thread-group-added":
		o := &ThreadGroupAddedAsyncOutput{}
		o.ThreadGroupID, err = f.reqString("id")
		return orErr(o, err)
	case "thread-group-removed":
		o := &ThreadGroupRemovedAsyncOutput{}
		o.ThreadGroupID, err = f.reqString("id")
		return orErr(o, err)
	case "thread-group-started":
		o := &ThreadGroupStartedAsyncOutput{}
		if o.ThreadGroupID, err = f.reqString("id"); err != nil {
			return nil, err
		}
		o.PID, err = f.reqString("pid")
		return orErr(o, err)
	case "thread-group-exited":
		o := &ThreadGroupExitedAsyncOutput{}
		if o.ThreadGroupID, err = f.reqString("id"); err != nil {
			return nil, err
		}
		o.ExitCode, err = f.optString("exit-code")
		return orErr(o, err)
	case "thread-created":
		o := &ThreadCreatedAsyncOutput{}
		if o.ThreadID, err = f.reqString("id"); err != nil {
			return nil, err
		}
		o.ThreadGroupID, err = f.reqString("group-id")
		return orErr(o, err)
	case "thread-exited":
		o := &ThreadExitedAsyncOutput{}
		if o.ThreadID, err = f.reqString("id"); err != nil {
			return nil, err
		}
		o.ThreadGroupID, err = f.reqString("group-id")
		return orErr(o, err)
	case "thread-selected":
		o := &ThreadSelectedAsyncOutput{}
		o.ThreadID, err = f.reqString("id")
		return orErr(o, err)
	case "record-started":
		o := &RecordStartedAsyncOutput{}
		if o.ThreadGroupID, err = f.reqString("thread-group"); err != nil {
			return nil, err
		}
		if o.Method, err = f.optString("method"); err != nil {
			return nil, err
		}
		o.Format, err = f.optString("format")
		return orErr(o, err)
	case "record-stopped":
		o := &RecordStoppedAsyncOutput{}
		o.ThreadGroupID, err = f.reqString("thread-group")
		return orErr(o, err)
	case "cmd-param-changed":
		o := &CmdParamChangedAsyncOutput{}
		if o.Param, err = f.reqString("param"); err != nil {
			return nil, err
		}
		o.Value, err = f.reqString("value")
		return orErr(o, err)
	}
	return nil, errors.NoSemanticMapping(mi.IndicatorNotify, r.Class)
}

// orErr avoids returning a non-nil Object alongside an error.
func orErr(o Object, err error) (Object, error) {
	if err != nil {
		return nil, err
	}
	return o, nil
}

func mapStream(r *mi.StreamRecord) Object {
	switch r.Kind {
	case mi.TargetStream:
		return &TargetOutput{Text: r.Text}
	case mi.LogStream:
		return &LogOutput{Text: r.Text}
	}
	return &ConsoleOutput{Text: r.Text}
}
