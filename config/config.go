package config

import (
	"fmt"
	"time"

	"github.com/philipp01105/logsink/core"
)

// Kind identifies a sink destination type
type Kind string

const (
	// KindTerminal writes to stdout/stderr
	KindTerminal Kind = "terminal"
	// KindFile appends to a local file
	KindFile Kind = "file"
	// KindRemote uploads batches to an object store
	KindRemote Kind = "remote"
)

// Style identifies the rendering format of a sink
type Style string

const (
	// StyleLine renders one text line per record (default)
	StyleLine Style = "line"
	// StyleJSON renders one JSON object per record
	StyleJSON Style = "json"
	// StyleTable accumulates records and renders an aligned table on flush
	StyleTable Style = "table"
)

// Policy controls how a second Init call behaves
type Policy int

const (
	// Lenient makes re-initialization a no-op keeping the first
	// configuration (default)
	Lenient Policy = iota
	// Strict makes re-initialization fail with AlreadyInitialized
	Strict
)

// String returns the string representation of the policy
func (p Policy) String() string {
	switch p {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// NoOverride marks a sink that defers entirely to the global minimum level
const NoOverride core.Level = -1

// RemoteOptions describes one remote object-store destination
type RemoteOptions struct {
	// Endpoint is the object store base URL
	Endpoint string
	// Bucket is the target bucket name
	Bucket string
	// KeyPrefix is prepended to every object key
	KeyPrefix string
	// CredentialsEnv names the environment variable holding the bearer
	// token; the value itself never appears in configuration
	CredentialsEnv string
	// BatchSize triggers an upload at this many buffered lines
	BatchSize int
	// FlushInterval triggers an upload of a partial batch
	FlushInterval time.Duration
	// QueueSize bounds the in-memory buffer
	QueueSize int
	// MaxAttempts bounds upload retries per batch
	MaxAttempts int
	// AttemptTimeout bounds each individual upload attempt
	AttemptTimeout time.Duration
	// Compress gzips batch payloads
	Compress bool
	// FallbackPath receives batches that exhausted their retries
	FallbackPath string
}

// SinkConfig describes one active destination. It is resolved once at
// initialization and immutable for the process lifetime.
type SinkConfig struct {
	// Kind selects the destination type
	Kind Kind
	// MinLevel overrides the global minimum for this sink (NoOverride
	// defers to the global minimum)
	MinLevel core.Level
	// Style selects the rendering format (default: line, or table when
	// Options.TableMode is set)
	Style Style
	// Path is the file sink's target (file kind only)
	Path string
	// Remote configures the object store destination (remote kind only)
	Remote *RemoteOptions
}

// Options holds the full engine configuration resolved at Init
type Options struct {
	// MinLevel is the global minimum level
	MinLevel core.Level
	// Sinks is the ordered set of destinations
	Sinks []SinkConfig
	// Policy controls duplicate initialization (default: lenient)
	Policy Policy
	// TableMode makes table the default style for sinks without one
	TableMode bool
}

// ConfigError reports invalid or duplicate initialization
type ConfigError struct {
	Field string
	Err   error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func errf(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// Validate checks the options and returns the first problem found.
// Misconfiguration must fail fast at Init, before the application
// starts relying on broken observability.
func (o *Options) Validate() error {
	if o.MinLevel < core.TraceLevel || o.MinLevel > core.ErrorLevel {
		return errf("min_level", "level %d out of range", o.MinLevel)
	}
	if len(o.Sinks) == 0 {
		return errf("sinks", "at least one sink is required")
	}

	paths := make(map[string]bool)
	for i, sc := range o.Sinks {
		field := fmt.Sprintf("sinks[%d]", i)

		switch sc.Kind {
		case KindTerminal:
		case KindFile:
			if sc.Path == "" {
				return errf(field+".path", "file sink requires a path")
			}
			if paths[sc.Path] {
				return errf(field+".path", "duplicate file sink path %q", sc.Path)
			}
			paths[sc.Path] = true
		case KindRemote:
			if sc.Remote == nil {
				return errf(field+".remote", "remote sink requires remote options")
			}
			if sc.Remote.Endpoint == "" {
				return errf(field+".remote.endpoint", "remote sink requires an endpoint")
			}
			if sc.Remote.Bucket == "" {
				return errf(field+".remote.bucket", "remote sink requires a bucket")
			}
		default:
			return errf(field+".kind", "unknown sink kind %q", sc.Kind)
		}

		switch sc.Style {
		case "", StyleLine, StyleJSON, StyleTable:
		default:
			return errf(field+".style", "unknown style %q", sc.Style)
		}

		if sc.MinLevel != NoOverride && (sc.MinLevel < core.TraceLevel || sc.MinLevel > core.ErrorLevel) {
			return errf(field+".min_level", "level %d out of range", sc.MinLevel)
		}
	}

	return nil
}

// EffectiveStyle resolves a sink's style against the table-mode default
func (o *Options) EffectiveStyle(sc SinkConfig) Style {
	if sc.Style != "" {
		return sc.Style
	}
	if o.TableMode {
		return StyleTable
	}
	return StyleLine
}
