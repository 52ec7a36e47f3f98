package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/philipp01105/logsink/core"
)

// Sink defines the interface for log destinations. Write receives a
// fully rendered line together with the record's level, which sinks
// may use for routing (the terminal sink splits stdout/stderr on it).
type Sink interface {
	// Write delivers one rendered line to the destination
	Write(level core.Level, line []byte) error

	// Flush forces buffered output to the destination
	Flush() error

	// Close flushes and releases resources
	Close() error
}

// ErrorKind classifies sink failures
type ErrorKind int

const (
	// Transient failures may succeed on retry
	Transient ErrorKind = iota
	// Permanent failures will not succeed on retry
	Permanent
)

// String returns the string representation of the kind
func (k ErrorKind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Permanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// SinkError wraps a write or flush failure with the sink name, the
// failed operation, and a retry classification.
type SinkError struct {
	Sink string
	Op   string
	Kind ErrorKind
	Err  error
}

// Error implements the error interface
func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %s: %s: %v", e.Sink, e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *SinkError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err is a SinkError classified Permanent
func IsPermanent(err error) bool {
	var se *SinkError
	return errors.As(err, &se) && se.Kind == Permanent
}

// wrapErr builds a SinkError, classifying the cause. Permission and
// invalid-argument failures cannot be fixed by retrying; everything
// else (disk full, network trouble) is treated as transient.
func wrapErr(name, op string, err error) *SinkError {
	kind := Transient
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrInvalid) || errors.Is(err, os.ErrClosed) {
		kind = Permanent
	}
	return &SinkError{Sink: name, Op: op, Kind: kind, Err: err}
}
