// Package repl implements an interactive parse-and-print loop for GDB/MI
// output. Each line typed or pasted is parsed, mapped and rendered in the
// current output format, and folded into a tracked inferior state.
//
// Lines starting with a dot are commands:
//
//	.help                   list commands
//	.format <name>          switch output format (pretty, compact, json, dap)
//	.semantic on|off        toggle semantic mapping (always on for dap)
//	.state                  print the tracked inferior state
//	.reset                  forget the tracked state
//	.quit                   leave
package repl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ctagard/gdbmi/internal/config"
	"github.com/ctagard/gdbmi/internal/render"
	"github.com/ctagard/gdbmi/internal/session"
	"github.com/ctagard/gdbmi/internal/stream"
	"github.com/ctagard/gdbmi/pkg/types"
)

// Prompt is shown before every input line
const Prompt = "mi> "

const helpText = `Paste or type GDB/MI output lines. Commands:
  .help                   show this help
  .format <name>          output format: pretty, compact, json, dap
  .semantic on|off        map records to semantic objects (always on for dap)
  .state                  show the tracked inferior state
  .reset                  forget the tracked state
  .quit                   exit
`

// REPL is one interactive session
type REPL struct {
	editor  *LineEditor
	out     io.Writer
	logger  *slog.Logger
	opts    stream.Options
	mapping bool
	format  types.OutputFormat
	indent  string
	sink    render.Sink
	tracker *session.Tracker
	seq     int
}

// New creates a REPL reading from editor and writing to out. Per-line
// failures are shown inline, so decoding itself does not log.
func New(editor *LineEditor, out io.Writer, cfg *config.Config, logger *slog.Logger) (*REPL, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &REPL{
		editor: editor,
		out:    out,
		logger: logger,
		opts: stream.Options{
			SkipUnknownClasses: cfg.SkipUnknownClasses,
			StrictSemantic:     cfg.StrictSemantic,
			Logger:             slog.New(slog.DiscardHandler),
		},
		mapping: cfg.Semantic,
		indent:  cfg.Indent,
		tracker: session.NewTracker(),
	}
	if err := r.setFormat(cfg.Format); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *REPL) setFormat(format types.OutputFormat) error {
	sink, err := render.New(format, r.out, r.indent)
	if err != nil {
		return err
	}
	r.format = format
	r.sink = sink
	r.applySemantic()
	return nil
}

// applySemantic enables mapping when asked for or when the format needs
// semantic objects to produce anything.
func (r *REPL) applySemantic() {
	r.opts.Semantic = r.mapping || r.format == types.FormatDAP
}

// Run reads lines until end of input, .quit or cancellation of ctx
func (r *REPL) Run(ctx context.Context) error {
	if r.editor.IsInteractive() {
		fmt.Fprint(r.out, "gdbmi interactive parser. Type .help for commands.\n")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.editor.GetLine(Prompt)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ".") {
			quit, err := r.command(trimmed)
			if err != nil {
				fmt.Fprintf(r.out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		if err := r.handleLine(line); err != nil {
			return err
		}
	}
}

func (r *REPL) handleLine(line string) error {
	r.seq++
	e, ok := r.opts.Decode(r.seq, line)
	if !ok {
		return nil
	}
	if e.Object != nil {
		r.tracker.Apply(e.Object)
	}

	if err := r.sink.Write(e); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if e.Err != nil && r.format != types.FormatJSON {
		fmt.Fprintf(r.out, "error: %v\n", e.Err)
	}
	return nil
}

// command runs a dot command and reports whether the loop should end
func (r *REPL) command(line string) (bool, error) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case ".quit", ".exit":
		return true, nil

	case ".help":
		fmt.Fprint(r.out, helpText)

	case ".format":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: .format pretty|compact|json|dap")
		}
		format := types.OutputFormat(args[0])
		if !format.Valid() {
			return false, fmt.Errorf("unknown format %q", args[0])
		}
		if err := r.setFormat(format); err != nil {
			return false, err
		}
		r.logger.Debug("output format changed", "format", format)

	case ".semantic":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return false, fmt.Errorf("usage: .semantic on|off")
		}
		r.mapping = args[0] == "on"
		r.applySemantic()

	case ".state":
		var st types.SessionState
		r.tracker.Fill(&st)
		data, err := json.MarshalIndent(st, "", r.indent)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, string(data))

	case ".reset":
		r.tracker = session.NewTracker()

	default:
		return false, fmt.Errorf("unknown command %s (try .help)", name)
	}
	return false, nil
}
