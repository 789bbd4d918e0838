package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ctagard/gdbmi/internal/config"
	"github.com/ctagard/gdbmi/internal/gdb"
	"github.com/ctagard/gdbmi/internal/mcp"
	"github.com/ctagard/gdbmi/internal/render"
	"github.com/ctagard/gdbmi/internal/repl"
	"github.com/ctagard/gdbmi/internal/stream"
	"github.com/ctagard/gdbmi/internal/version"
	"github.com/ctagard/gdbmi/pkg/types"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (.json, .yaml, .yml, .toml)")
	format := flag.String("format", "", "Output format: pretty, compact, json or dap")
	indent := flag.String("indent", "", "Indentation unit for pretty output")
	input := flag.String("input", "", "Read MI output from this file instead of stdin")
	semantic := flag.Bool("semantic", false, "Map records to semantic objects")
	skipUnknown := flag.Bool("skip-unknown", false, "Drop lines with unknown record classes")
	strict := flag.Bool("strict", false, "Report semantic mapping failures as line errors")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error")
	serveMCP := flag.Bool("mcp", false, "Serve MCP tools over stdio")
	interactive := flag.Bool("repl", false, "Start the interactive parser")
	program := flag.String("gdb", "", "Run gdb on this program, forwarding stdin as MI commands")
	showVersion := flag.Bool("version", false, "Show version and exit")
	help := flag.Bool("help", false, "Show help and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("gdbmi version %s\n", version.GetVersion())
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags override file values, but only when given
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = types.OutputFormat(*format)
		case "indent":
			cfg.Indent = *indent
		case "semantic":
			cfg.Semantic = *semantic
		case "skip-unknown":
			cfg.SkipUnknownClasses = *skipUnknown
		case "strict":
			cfg.StrictSemantic = *strict
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *serveMCP:
		err = runMCP(cfg, logger)
	case *interactive:
		err = runREPL(ctx, cfg, logger)
	case *program != "":
		err = runGDB(ctx, cfg, logger, *program, flag.Args())
	default:
		err = runStream(ctx, cfg, logger, *input)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("gdbmi failed", "error", err)
		os.Exit(1)
	}
}

func runMCP(cfg *config.Config, logger *slog.Logger) error {
	server := mcp.NewServer(cfg, logger)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down")
		server.Close()
		os.Exit(0)
	}()

	logger.Info("gdbmi MCP server starting", "version", version.Version)
	defer server.Close()
	return server.ServeStdio()
}

func runREPL(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	editor := repl.NewLineEditor(cfg.HistoryFile)
	defer editor.Close()

	r, err := repl.New(editor, os.Stdout, cfg, logger)
	if err != nil {
		return err
	}
	return r.Run(ctx)
}

func decodeOptions(cfg *config.Config, logger *slog.Logger) stream.Options {
	return stream.Options{
		// DAP events are built from semantic objects
		Semantic:           cfg.Semantic || cfg.Format == types.FormatDAP,
		SkipUnknownClasses: cfg.SkipUnknownClasses,
		StrictSemantic:     cfg.StrictSemantic,
		Logger:             logger,
	}
}

// renderStream decodes r into the configured sink until r is exhausted
func renderStream(ctx context.Context, cfg *config.Config, logger *slog.Logger, r io.Reader) error {
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	sink, err := render.New(cfg.Format, out, cfg.Indent)
	if err != nil {
		return err
	}

	dec := stream.NewDecoder(r, decodeOptions(cfg, logger))
	failed := 0
	err = dec.Run(ctx, func(e *stream.Entry) error {
		if e.Err != nil {
			failed++
		}
		if err := sink.Write(e); err != nil {
			return err
		}
		return out.Flush()
	})
	logger.Debug("stream finished", "lines", dec.Lines(), "errors", failed)
	return err
}

func runStream(ctx context.Context, cfg *config.Config, logger *slog.Logger, input string) error {
	var r io.Reader = os.Stdin
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return renderStream(ctx, cfg, logger, r)
}

func runGDB(ctx context.Context, cfg *config.Config, logger *slog.Logger, program string, args []string) error {
	proc, err := gdb.Start(ctx, cfg.GDB, program, args, logger)
	if err != nil {
		return err
	}
	defer proc.Close()

	// Forward stdin commands; gdb exits once its input closes.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if _, err := proc.Send(line); err != nil {
				logger.Warn("failed to send command", "command", line, "error", err)
			}
		}
		proc.CloseInput()
	}()

	if err := renderStream(ctx, cfg, logger, proc.Output()); err != nil {
		proc.Stop()
		return err
	}
	if err := proc.Wait(); err != nil {
		logger.Debug("gdb exited", "error", err)
	}
	return nil
}

func printHelp() {
	fmt.Println(`gdbmi: GDB/MI output parser

Parses GDB Machine Interface output into records, maps them to typed
semantic objects and renders them as indented text, canonical wire form,
JSON or Debug Adapter Protocol events.

USAGE:
    gdbmi [OPTIONS]                  parse MI output from stdin or -input
    gdbmi -repl [OPTIONS]            interactive parser
    gdbmi -mcp [OPTIONS]             serve MCP tools over stdio
    gdbmi -gdb <program> [-- args]   run gdb, stdin lines are MI commands

OPTIONS:
    -config <path>       Configuration file (.json, .yaml, .yml, .toml)
    -format <format>     pretty, compact, json or dap (default: pretty)
    -indent <string>     Indentation unit for pretty output (default: two spaces)
    -input <path>        Read MI output from a file
    -semantic            Map records to semantic objects
    -skip-unknown        Drop lines with unknown record classes
    -strict              Report semantic mapping failures as line errors
    -log-level <level>   debug, info, warn or error (default: info)
    -mcp                 Serve MCP tools over stdio
    -repl                Start the interactive parser
    -gdb <program>       Run gdb on program
    -version             Show version and exit
    -help                Show this help message

A malformed line is logged and skipped; it never stops the stream.

CONFIGURATION:
    {
        "format": "json",
        "semantic": true,
        "skipUnknownClasses": false,
        "strictSemantic": false,
        "logLevel": "info",
        "logFormat": "text",
        "maxSessions": 10,
        "sessionTimeout": "30m",
        "gdb": {
            "path": "gdb",
            "interpreter": "",
            "args": ["-nx"]
        }
    }

MCP TOOLS:
    mi_parse             Parse MI output lines
    mi_session_open      Start tracking an MI stream
    mi_session_feed      Feed output to a session
    mi_session_state     Get the tracked inferior state
    mi_session_close     Stop tracking a session
    mi_list_sessions     List tracked sessions`)
}
