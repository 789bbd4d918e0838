// Package gdb spawns a GDB process speaking the machine interface.
//
// The process's stdout is the MI output stream and is meant to be fed to a
// stream.Decoder. Commands written with Send are prefixed with a numeric
// token so their result records can be matched.
package gdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	"github.com/ctagard/gdbmi/internal/config"
	"github.com/ctagard/gdbmi/internal/version"
	"github.com/ctagard/gdbmi/pkg/errors"
)

// mi3MinVersion is the first GDB release with the mi3 interpreter
const mi3MinVersion = "9.1"

var versionPattern = regexp.MustCompile(`GNU gdb .*?(\d+\.\d+(?:\.\d+)?)`)

// ParseVersion extracts the version number from `gdb --version` output
func ParseVersion(banner string) (string, bool) {
	first, _, _ := strings.Cut(banner, "\n")
	m := versionPattern.FindStringSubmatch(first)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// InterpreterFor picks the newest MI interpreter a GDB version supports
func InterpreterFor(gdbVersion string) string {
	if version.Compare(gdbVersion, mi3MinVersion) >= 0 {
		return "mi3"
	}
	return "mi2"
}

// DetectInterpreter runs `gdb --version` and chooses an interpreter
func DetectInterpreter(ctx context.Context, path string) (string, error) {
	//nolint:gosec // G204: the debugger path comes from configuration
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to run %s --version: %w", path, err)
	}
	v, ok := ParseVersion(string(out))
	if !ok {
		return "", fmt.Errorf("unrecognized %s --version output", path)
	}
	return InterpreterFor(v), nil
}

// BuildArgs builds the gdb command line
func BuildArgs(cfg config.GDBConfig, interpreter string, program string, programArgs []string) []string {
	args := []string{"--interpreter=" + interpreter, "--quiet"}
	args = append(args, cfg.Args...)
	if program != "" {
		args = append(args, "--args", program)
		args = append(args, programArgs...)
	}
	return args
}

// Process is a running gdb
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	logger *slog.Logger

	mu     sync.Mutex
	token  uint64
	closed bool
	killed bool

	waitOnce sync.Once
	waitErr  error
}

// Start launches gdb on program. An empty cfg.Interpreter is resolved
// from the installed gdb's version.
func Start(ctx context.Context, cfg config.GDBConfig, program string, programArgs []string, logger *slog.Logger) (*Process, error) {
	path := cfg.Path
	if path == "" {
		path = "gdb"
	}
	if logger == nil {
		logger = slog.Default()
	}

	interpreter := cfg.Interpreter
	if interpreter == "" {
		detected, err := DetectInterpreter(ctx, path)
		if err != nil {
			return nil, err
		}
		interpreter = detected
	}

	args := BuildArgs(cfg, interpreter, program, programArgs)
	//nolint:gosec // G204: spawning the configured debugger is the point
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = os.Environ()
	setProcAttr(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		return nil, fmt.Errorf("failed to start gdb: %w", err)
	}

	logger.Info("gdb started", "path", path, "interpreter", interpreter, "pid", cmd.Process.Pid)

	return &Process{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		logger: logger,
	}, nil
}

// Output returns gdb's MI output stream
func (p *Process) Output() io.Reader {
	return p.stdout
}

// Send writes one command prefixed with the next token and returns the
// token. The matching result record carries the same token.
func (p *Process) Send(command string) (uint64, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return 0, errors.MissingParameter("command", "Provide an MI command such as -exec-run or -break-insert main.")
	}
	if strings.ContainsAny(command, "\r\n") {
		return 0, errors.InvalidParameter("command", command, "a single line")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, fmt.Errorf("gdb process is closed")
	}
	p.token++
	if _, err := fmt.Fprintf(p.stdin, "%d%s\n", p.token, command); err != nil {
		return 0, fmt.Errorf("failed to send command: %w", err)
	}
	p.logger.Debug("sent command", "token", p.token, "command", command)
	return p.token, nil
}

// Wait waits for gdb to exit. Later calls return the first result.
func (p *Process) Wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
	})
	return p.waitErr
}

// CloseInput asks gdb to exit and closes its stdin. Output already
// produced can still be read.
func (p *Process) CloseInput() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeInputLocked()
}

func (p *Process) closeInputLocked() {
	if p.closed {
		return
	}
	p.closed = true
	fmt.Fprintln(p.stdin, "-gdb-exit")
	p.stdin.Close()
}

// Close closes gdb's input, then kills its process group
func (p *Process) Close() error {
	p.mu.Lock()
	p.closeInputLocked()
	killed := p.killed
	p.killed = true
	p.mu.Unlock()

	if killed {
		return nil
	}
	if err := killProcessGroup(p.cmd); err != nil {
		p.logger.Warn("failed to kill gdb process group", "pid", p.cmd.Process.Pid, "error", err)
		return err
	}
	return nil
}

// Stop kills gdb and reaps it. The exit status of the killed process is
// only logged.
func (p *Process) Stop() {
	if err := p.Close(); err != nil {
		return
	}
	if err := p.Wait(); err != nil {
		p.logger.Debug("gdb stopped", "error", err)
	}
}
