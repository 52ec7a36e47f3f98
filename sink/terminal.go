package sink

import (
	"io"
	"os"
	"sync"

	"github.com/philipp01105/logsink/core"
)

// TerminalSink writes rendered lines synchronously to standard output,
// routing Error level and above to standard error.
type TerminalSink struct {
	out    io.Writer
	errOut io.Writer
	mu     sync.Mutex
}

// TerminalConfig holds configuration for the terminal sink
type TerminalConfig struct {
	// Out receives lines below ErrorLevel (default: os.Stdout)
	Out io.Writer
	// Err receives ErrorLevel lines (default: os.Stderr)
	Err io.Writer
}

// NewTerminalSink creates a new terminal sink
func NewTerminalSink(cfg TerminalConfig) *TerminalSink {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	return &TerminalSink{out: cfg.Out, errOut: cfg.Err}
}

// Write delivers one rendered line
func (s *TerminalSink) Write(level core.Level, line []byte) error {
	w := s.out
	if level >= core.ErrorLevel {
		w = s.errOut
	}

	s.mu.Lock()
	_, err := w.Write(line)
	s.mu.Unlock()

	if err != nil {
		return wrapErr("terminal", "write", err)
	}
	return nil
}

// Flush is a no-op; terminal output is line-buffered
func (s *TerminalSink) Flush() error {
	return nil
}

// Close is a no-op; the sink does not own stdout/stderr
func (s *TerminalSink) Close() error {
	return nil
}
