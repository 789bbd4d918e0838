// Package stream decodes a sequence of GDB/MI output lines.
//
// A Decoder reads newline-terminated lines from an io.Reader, drops "(gdb)"
// prompts and blank lines, and parses each remaining line into an Entry.
// A bad line never stops the stream: its error travels in Entry.Err, or the
// line is dropped when the options say so.
package stream

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ctagard/gdbmi/pkg/errors"
	"github.com/ctagard/gdbmi/pkg/mi"
	"github.com/ctagard/gdbmi/pkg/mi/records"
)

// Entry is one decoded line.
type Entry struct {
	Seq    int
	Raw    string
	Record mi.Record
	// Object is set when semantic mapping is enabled and succeeded.
	Object records.Object
	// Err is the line's parse error, or its mapping error under
	// strict semantics.
	Err error
}

// Options controls per-line decoding.
type Options struct {
	// Semantic maps each record to a records.Object.
	Semantic bool
	// SkipUnknownClasses drops lines failing with UNKNOWN_RECORD_CLASS
	// instead of reporting them.
	SkipUnknownClasses bool
	// StrictSemantic reports mapping failures in Entry.Err. Otherwise the
	// entry keeps its syntax tree and Object stays nil.
	StrictSemantic bool
	Logger         *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Decode processes one raw line. It returns false for lines that produce
// no entry: prompts, blank lines and skipped unknown classes.
func (o Options) Decode(seq int, raw string) (*Entry, bool) {
	line := strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(line) == "" || mi.IsPrompt(line) {
		return nil, false
	}

	e := &Entry{Seq: seq, Raw: line}
	rec, err := mi.ParseLine(line)
	if err != nil {
		if o.SkipUnknownClasses && errors.HasCode(err, errors.CodeUnknownRecordClass) {
			o.logger().Debug("skipping unknown record class", "seq", seq, "line", line)
			return nil, false
		}
		o.logger().Warn("failed to parse line", "seq", seq, "line", line, "error", err)
		e.Err = err
		return e, true
	}
	e.Record = rec

	if !o.Semantic {
		return e, true
	}
	obj, err := records.Map(rec)
	if err != nil {
		if o.StrictSemantic {
			o.logger().Warn("failed to map record", "seq", seq, "line", line, "error", err)
			e.Err = err
		} else {
			o.logger().Debug("no semantic object for record", "seq", seq, "line", line, "error", err)
		}
		return e, true
	}
	e.Object = obj
	return e, true
}

// Decoder reads entries from a line source.
type Decoder struct {
	reader *bufio.Reader
	opts   Options
	seq    int
	done   bool
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader, opts Options) *Decoder {
	return &Decoder{
		reader: bufio.NewReader(r),
		opts:   opts,
	}
}

// Next returns the next entry. It returns io.EOF once the source is
// exhausted and any other error only for read failures.
func (d *Decoder) Next() (*Entry, error) {
	for !d.done {
		raw, err := d.reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			d.done = true
			if raw == "" {
				break
			}
		}

		d.seq++
		if e, ok := d.opts.Decode(d.seq, raw); ok {
			return e, nil
		}
	}
	return nil, io.EOF
}

// Run feeds every entry to handle until the source is exhausted, ctx is
// cancelled or handle fails. Reaching the end of the source is not an error.
func (d *Decoder) Run(ctx context.Context, handle func(*Entry) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := d.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handle(e); err != nil {
			return err
		}
	}
}

// Lines returns the number of raw lines read so far, including skipped ones.
func (d *Decoder) Lines() int {
	return d.seq
}

// View is the JSON form of an Entry.
type View struct {
	Seq       int                `json:"seq"`
	Raw       string             `json:"raw"`
	Indicator string             `json:"indicator,omitempty"`
	Compact   string             `json:"compact,omitempty"`
	Kind      string             `json:"kind,omitempty"`
	Object    records.Object     `json:"object,omitempty"`
	Error     *errors.DebugError `json:"error,omitempty"`
}

// View renders the entry for JSON output. Compact holds the record's
// canonical wire form.
func (e *Entry) View() View {
	v := View{Seq: e.Seq, Raw: e.Raw}
	if e.Record != nil {
		v.Indicator = string(e.Record.Indicator())
		v.Compact = mi.Compact(e.Record)
	}
	if e.Object != nil {
		v.Kind = e.Object.Kind()
		v.Object = e.Object
	}
	if e.Err != nil {
		v.Error = errors.FromError(e.Err)
	}
	return v
}
