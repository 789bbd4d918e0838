// Package render writes decoded entries in one of the output formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ctagard/gdbmi/internal/dap"
	"github.com/ctagard/gdbmi/internal/stream"
	"github.com/ctagard/gdbmi/pkg/mi"
	"github.com/ctagard/gdbmi/pkg/types"
)

// Sink consumes decoded entries
type Sink interface {
	Write(e *stream.Entry) error
}

// New returns the sink for format. indent is the pretty-printer's
// indentation unit and is ignored by the other formats.
func New(format types.OutputFormat, w io.Writer, indent string) (Sink, error) {
	switch format {
	case types.FormatPretty:
		return &prettySink{printer: mi.NewPrinter(w, mi.WithIndent(indent))}, nil
	case types.FormatCompact:
		return &compactSink{w: w}, nil
	case types.FormatJSON:
		return &jsonSink{enc: json.NewEncoder(w)}, nil
	case types.FormatDAP:
		return &dapSink{translator: dap.NewTranslator(), writer: dap.NewWriter(w)}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// Lines without a syntax tree are skipped by the text sinks; the decoder
// has already logged them.

type prettySink struct {
	printer *mi.Printer
}

func (s *prettySink) Write(e *stream.Entry) error {
	if e.Record == nil {
		return nil
	}
	return s.printer.Print(e.Record)
}

type compactSink struct {
	w io.Writer
}

func (s *compactSink) Write(e *stream.Entry) error {
	if e.Record == nil {
		return nil
	}
	_, err := fmt.Fprintln(s.w, mi.Compact(e.Record))
	return err
}

type jsonSink struct {
	enc *json.Encoder
}

func (s *jsonSink) Write(e *stream.Entry) error {
	return s.enc.Encode(e.View())
}

// dapSink emits events only for entries with a semantic object.
type dapSink struct {
	translator *dap.Translator
	writer     *dap.Writer
}

func (s *dapSink) Write(e *stream.Entry) error {
	if e.Object == nil {
		return nil
	}
	return s.writer.SendAll(s.translator.Translate(e.Object))
}
