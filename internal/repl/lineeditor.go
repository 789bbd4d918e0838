package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	historyFileName = ".gdbmi_history"
	historySize     = 500
)

// LineEditor reads input lines. On a terminal it uses readline with
// persistent history; otherwise it scans the input line by line.
type LineEditor struct {
	interactive bool
	rl          *readline.Instance

	scanner *bufio.Scanner
	out     io.Writer
}

// NewLineEditor creates an editor on stdin. historyFile defaults to
// ~/.gdbmi_history when empty.
func NewLineEditor(historyFile string) *LineEditor {
	isInteractive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""
	if !isInteractive {
		return NewScannerEditor(os.Stdin, os.Stdout)
	}

	if historyFile == "" {
		historyFile = defaultHistoryFile()
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyFile,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return NewScannerEditor(os.Stdin, os.Stdout)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

// NewScannerEditor creates a non-interactive editor reading from in and
// writing prompts to out.
func NewScannerEditor(in io.Reader, out io.Writer) *LineEditor {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &LineEditor{
		scanner: scanner,
		out:     out,
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFileName
	}
	return filepath.Join(home, historyFileName)
}

// GetLine reads one line. Ctrl-C and Ctrl-D both end input with io.EOF.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close saves history and releases the terminal. It is safe to call twice.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether the editor is attached to a terminal
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
