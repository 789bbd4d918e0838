// Package mi parses GDB/MI output lines into a syntax tree.
//
// A line is one of three record shapes:
//   - ResultRecord: "^" result-class ( "," result )*
//   - AsyncRecord: one of "*", "+", "=" followed by async-class ( "," result )*
//   - StreamRecord: one of "~", "@", "&" followed by a c-string
//
// Any record may be preceded by a numeric token. Result payloads are built
// from four node kinds: CString, List, Tuple and Result. The node set is
// closed; Visit dispatches on it with a type switch.
//
// Output syntax: https://sourceware.org/gdb/current/onlinedocs/gdb.html/GDB_002fMI-Output-Syntax.html
package mi

// Record type indicators.
const (
	IndicatorResult  byte = '^'
	IndicatorExec    byte = '*'
	IndicatorStatus  byte = '+'
	IndicatorNotify  byte = '='
	IndicatorConsole byte = '~'
	IndicatorTarget  byte = '@'
	IndicatorLog     byte = '&'
)

// Node is any syntax tree node. Only types in this package implement it.
type Node interface {
	node()
}

// Element is an item of a List: either a Value or a *Result.
type Element interface {
	Node
	element()
}

// Value is a c-string, list or tuple. Every Value is also an Element.
type Value interface {
	Element
	value()
}

var (
	_ Value   = (*CString)(nil)
	_ Value   = (*List)(nil)
	_ Value   = (*Tuple)(nil)
	_ Element = (*Result)(nil)
)

// Record is a top-level node produced from one line.
type Record interface {
	Node
	// Indicator returns the leading type indicator character.
	Indicator() byte
	// TokenValue returns the numeric token, if the line carried one.
	TokenValue() (uint64, bool)
}

// CString holds a decoded quoted string.
type CString struct {
	Value string
}

// Result is a variable=value pair. Names are not unique within a container.
type Result struct {
	Variable string
	Value    Value
}

// List is an ordered sequence of bare values and/or results.
type List struct {
	Elements []Element
}

// Tuple is an ordered sequence of results. Duplicate names are retained.
type Tuple struct {
	Results []*Result
}

// ResultRecord reports the outcome of a command.
type ResultRecord struct {
	Token   *uint64
	Class   string
	Results []*Result
}

// AsyncKind is the category of an async record.
type AsyncKind int

const (
	ExecAsync AsyncKind = iota
	StatusAsync
	NotifyAsync
)

// String returns the category name.
func (k AsyncKind) String() string {
	switch k {
	case ExecAsync:
		return "exec"
	case StatusAsync:
		return "status"
	case NotifyAsync:
		return "notify"
	}
	return "unknown"
}

// AsyncRecord reports an asynchronous event.
type AsyncRecord struct {
	Token   *uint64
	Kind    AsyncKind
	Class   string
	Results []*Result
}

// StreamKind is the category of a stream record.
type StreamKind int

const (
	ConsoleStream StreamKind = iota
	TargetStream
	LogStream
)

// String returns the category name.
func (k StreamKind) String() string {
	switch k {
	case ConsoleStream:
		return "console"
	case TargetStream:
		return "target"
	case LogStream:
		return "log"
	}
	return "unknown"
}

// StreamRecord carries decoded console, target or log text.
type StreamRecord struct {
	Token *uint64
	Kind  StreamKind
	Text  string
}

func (*CString) node()      {}
func (*Result) node()       {}
func (*List) node()         {}
func (*Tuple) node()        {}
func (*ResultRecord) node() {}
func (*AsyncRecord) node()  {}
func (*StreamRecord) node() {}

func (*CString) value() {}
func (*List) value()    {}
func (*Tuple) value()   {}

func (*CString) element() {}
func (*List) element()    {}
func (*Tuple) element()   {}
func (*Result) element()  {}

// Indicator implements Record.
func (*ResultRecord) Indicator() byte { return IndicatorResult }

// Indicator implements Record.
func (r *AsyncRecord) Indicator() byte {
	switch r.Kind {
	case StatusAsync:
		return IndicatorStatus
	case NotifyAsync:
		return IndicatorNotify
	}
	return IndicatorExec
}

// Indicator implements Record.
func (r *StreamRecord) Indicator() byte {
	switch r.Kind {
	case TargetStream:
		return IndicatorTarget
	case LogStream:
		return IndicatorLog
	}
	return IndicatorConsole
}

// TokenValue implements Record.
func (r *ResultRecord) TokenValue() (uint64, bool) { return derefToken(r.Token) }

// TokenValue implements Record.
func (r *AsyncRecord) TokenValue() (uint64, bool) { return derefToken(r.Token) }

// TokenValue implements Record.
func (r *StreamRecord) TokenValue() (uint64, bool) { return derefToken(r.Token) }

func derefToken(t *uint64) (uint64, bool) {
	if t == nil {
		return 0, false
	}
	return *t, true
}

// Get returns the value of the first result named name.
func (t *Tuple) Get(name string) (Value, bool) {
	return lookup(t.Results, name)
}

// GetAll returns the values of every result named name, in order.
func (t *Tuple) GetAll(name string) []Value {
	var out []Value
	for _, r := range t.Results {
		if r.Variable == name {
			out = append(out, r.Value)
		}
	}
	return out
}

// Get returns the value of the first result named name.
func (r *ResultRecord) Get(name string) (Value, bool) {
	return lookup(r.Results, name)
}

// Get returns the value of the first result named name.
func (r *AsyncRecord) Get(name string) (Value, bool) {
	return lookup(r.Results, name)
}

func lookup(results []*Result, name string) (Value, bool) {
	for _, r := range results {
		if r.Variable == name {
			return r.Value, true
		}
	}
	return nil, false
}
