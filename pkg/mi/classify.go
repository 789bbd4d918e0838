package mi

import (
	"github.com/ctagard/gdbmi/pkg/errors"
)

// knownClasses lists the documented class keywords per indicator.
var knownClasses = map[byte]map[string]bool{
	IndicatorResult: set("done", "running", "connected", "error", "exit"),
	IndicatorExec:   set("running", "stopped"),
	IndicatorStatus: set("download"),
	IndicatorNotify: set(
		"thread-group-added", "thread-group-removed", "thread-group-started", "thread-group-exited",
		"thread-created", "thread-exited", "thread-selected",
		"record-started", "record-stopped",
		"cmd-param-changed",
		"library-loaded", "library-unloaded",
		"traceframe-changed", "tsv-created", "tsv-deleted", "tsv-modified",
		"breakpoint-created", "breakpoint-modified", "breakpoint-deleted",
		"memory-changed",
	),
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// KnownClass reports whether class is a documented keyword for indicator.
// Stream indicators take no class and always report false.
func KnownClass(indicator byte, class string) bool {
	return knownClasses[indicator][class]
}

// Classify builds the top-level node for a result or async record from its
// indicator, class keyword and parsed results. An indicator/class pair
// outside the documented set fails with UNKNOWN_RECORD_CLASS.
func Classify(indicator byte, class string, token *uint64, results []*Result) (Record, error) {
	return classify(header{token: token, indicator: indicator, class: class}, results)
}

func classify(h header, results []*Result) (Record, error) {
	if !KnownClass(h.indicator, h.class) {
		return nil, errors.UnknownRecordClass(h.indicator, h.class)
	}

	switch h.indicator {
	case IndicatorResult:
		return &ResultRecord{Token: h.token, Class: h.class, Results: results}, nil
	case IndicatorExec:
		return &AsyncRecord{Token: h.token, Kind: ExecAsync, Class: h.class, Results: results}, nil
	case IndicatorStatus:
		return &AsyncRecord{Token: h.token, Kind: StatusAsync, Class: h.class, Results: results}, nil
	default:
		return &AsyncRecord{Token: h.token, Kind: NotifyAsync, Class: h.class, Results: results}, nil
	}
}

func classifyStream(h header, text string) *StreamRecord {
	r := &StreamRecord{Token: h.token, Text: text}
	switch h.indicator {
	case IndicatorTarget:
		r.Kind = TargetStream
	case IndicatorLog:
		r.Kind = LogStream
	default:
		r.Kind = ConsoleStream
	}
	return r
}
