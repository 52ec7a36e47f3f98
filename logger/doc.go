// Package logger is the public API of logsink. Most users only need
// to import this package.
//
// The engine is configured exactly once per process:
//
//	err := logger.Init(config.Options{
//	    MinLevel: logger.InfoLevel,
//	    Sinks:    []config.SinkConfig{{Kind: config.KindTerminal, MinLevel: config.NoOverride}},
//	})
//
// Records logged before Init are held in a small bounded buffer and
// replayed once the engine is ready; when the buffer overflows, the
// oldest records are discarded and the loss is reported after Init.
// A second Init call is resolved by the configured policy: lenient
// keeps the first configuration, strict returns ErrAlreadyInitialized.
//
// Logging calls never return errors. Sink failures are isolated per
// sink and surfaced through a rate-limited self-error channel, so a
// broken destination cannot take the application down with it.
//
// Child loggers with extra fields are created via With, which returns
// a new Logger carrying additional default fields:
//
//	reqLog := logger.With(logger.String("request_id", id))
//
// Shutdown (or the signal hook installed by RegisterExitHook) flushes
// and closes every sink before the process exits.
package logger
