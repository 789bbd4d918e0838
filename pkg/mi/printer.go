package mi

import (
	"io"
	"strings"
)

// DefaultIndent is one level of pretty-printer indentation.
const DefaultIndent = "  "

// Printer writes an indented, human-readable rendering of a syntax tree.
// It tracks indentation in a per-instance counter, so a Printer must not be
// shared by concurrent traversals.
//
//	^done,
//	  bkpt = {
//	    number = "1",
//	    type = "breakpoint"
//	  }
type Printer struct {
	w      io.Writer
	indent string
	depth  int
	err    error
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithIndent sets the string written once per nesting level.
func WithIndent(indent string) PrinterOption {
	return func(p *Printer) {
		p.indent = indent
	}
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{w: w, indent: DefaultIndent}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fprint pretty-prints n to w with default settings.
func Fprint(w io.Writer, n Node) error {
	return NewPrinter(w).Print(n)
}

// Sprint returns the pretty-printed form of n.
func Sprint(n Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, n)
	return sb.String()
}

// Print writes n and returns the first write error, if any. Records end
// with a newline; bare values do not.
func (p *Printer) Print(n Node) error {
	p.depth = 0
	p.err = nil
	Visit(p, n)
	return p.err
}

// nested runs f one indentation level deeper and restores the level on
// every exit path, including a panic unwinding through f.
func (p *Printer) nested(f func()) {
	p.depth++
	defer func() { p.depth-- }()
	f()
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *Printer) writeIndent() {
	p.write(strings.Repeat(p.indent, p.depth))
}

func (p *Printer) writeToken(r Record) {
	if tok, ok := r.TokenValue(); ok {
		p.write(formatToken(tok))
	}
}

// VisitResultRecord implements Visitor.
func (p *Printer) VisitResultRecord(r *ResultRecord) {
	p.writeToken(r)
	p.recordHeader(IndicatorResult, r.Class, r.Results)
}

// VisitAsyncRecord implements Visitor.
func (p *Printer) VisitAsyncRecord(r *AsyncRecord) {
	p.writeToken(r)
	p.recordHeader(r.Indicator(), r.Class, r.Results)
}

func (p *Printer) recordHeader(indicator byte, class string, results []*Result) {
	p.write(string(indicator) + class)
	if len(results) > 0 {
		p.write(",")
	}
	p.write("\n")

	p.nested(func() {
		for i, r := range results {
			Visit(p, r)
			p.separator(i, len(results))
		}
	})
}

// VisitStreamRecord implements Visitor.
func (p *Printer) VisitStreamRecord(r *StreamRecord) {
	p.writeToken(r)
	p.write(string(r.Indicator()))
	p.write(Quote(r.Text))
	p.write("\n")
}

// VisitResult implements Visitor.
func (p *Printer) VisitResult(r *Result) {
	p.writeIndent()
	p.write(r.Variable + " = ")
	Visit(p, r.Value)
}

// VisitCString implements Visitor.
func (p *Printer) VisitCString(c *CString) {
	p.write(Quote(c.Value))
}

// VisitList implements Visitor.
func (p *Printer) VisitList(l *List) {
	if len(l.Elements) == 0 {
		p.write("[]")
		return
	}

	p.write("[\n")
	p.nested(func() {
		for i, el := range l.Elements {
			if _, ok := el.(*Result); !ok {
				p.writeIndent()
			}
			Visit(p, el)
			p.separator(i, len(l.Elements))
		}
	})
	p.writeIndent()
	p.write("]")
}

// VisitTuple implements Visitor.
func (p *Printer) VisitTuple(t *Tuple) {
	if len(t.Results) == 0 {
		p.write("{}")
		return
	}

	p.write("{\n")
	p.nested(func() {
		for i, r := range t.Results {
			Visit(p, r)
			p.separator(i, len(t.Results))
		}
	})
	p.writeIndent()
	p.write("}")
}

// separator ends element i of n: a comma on all but the last.
func (p *Printer) separator(i, n int) {
	if i == n-1 {
		p.write("\n")
	} else {
		p.write(",\n")
	}
}
