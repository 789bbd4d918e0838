package dap

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/google/go-dap"
)

// Writer frames DAP messages onto a stream
type Writer struct {
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewWriter creates a writer over w
func NewWriter(w io.Writer) *Writer {
	return &Writer{writer: bufio.NewWriter(w)}
}

// Send writes a DAP message with its Content-Length header
func (w *Writer) Send(msg dap.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := dap.WriteProtocolMessage(w.writer, msg); err != nil {
		return fmt.Errorf("failed to write DAP message: %w", err)
	}

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush DAP message: %w", err)
	}

	return nil
}

// SendAll writes msgs in order, stopping at the first failure
func (w *Writer) SendAll(msgs []dap.Message) error {
	for _, msg := range msgs {
		if err := w.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// Receive reads one framed DAP message from r
func Receive(r *bufio.Reader) (dap.Message, error) {
	msg, err := dap.ReadProtocolMessage(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read DAP message: %w", err)
	}
	return msg, nil
}
