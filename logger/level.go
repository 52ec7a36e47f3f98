package logger

import "github.com/philipp01105/logsink/core"

// Level is re-exported so callers rarely need to import core directly
type Level = core.Level

const (
	TraceLevel = core.TraceLevel
	DebugLevel = core.DebugLevel
	InfoLevel  = core.InfoLevel
	WarnLevel  = core.WarnLevel
	ErrorLevel = core.ErrorLevel
)

// ParseLevel converts a level name to a Level. Unknown names default
// to InfoLevel.
func ParseLevel(s string) Level {
	return core.ParseLevel(s)
}
