package logger

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/philipp01105/logsink/config"
	"github.com/philipp01105/logsink/core"
	"github.com/philipp01105/logsink/dispatch"
	"github.com/philipp01105/logsink/formatter"
	"github.com/philipp01105/logsink/sink"
)

// ErrAlreadyInitialized is returned by Init under the strict policy
// when the engine has already been configured.
var ErrAlreadyInitialized = errors.New("logger already initialized")

// osExit is a variable to allow overriding os.Exit in tests
var osExit = os.Exit

const (
	// preInitBufferSize bounds how many records are held before Init
	preInitBufferSize = 256
	// reportWindow is the self-error rate limit window
	reportWindow = 10 * time.Second
)

// registry is the process-wide engine state. Configuration is resolved
// exactly once: the first successful Init builds the dispatcher and
// every later call is resolved by the active policy. Records logged
// before Init are held in a bounded ring and replayed on Init.
type registry struct {
	mu       sync.Mutex
	disp     atomic.Pointer[dispatch.Dispatcher]
	closed   bool
	opts     config.Options
	reporter *sink.Reporter
	ring     []*core.Record
	dropped  uint64
	hookOnce sync.Once
}

var global = &registry{}

// Init configures the engine from the given options. The first
// successful call moves the engine to ready and replays buffered
// records; what a second call does is decided by the active policy
// (lenient keeps the first configuration, strict fails).
func Init(opts config.Options) error {
	return global.init(opts)
}

// InitFromFile loads a YAML configuration file and initializes from it
func InitFromFile(path string) error {
	opts, err := config.Load(path)
	if err != nil {
		return err
	}
	return Init(opts)
}

// Initialized reports whether the engine is ready
func Initialized() bool {
	return global.dispatcher() != nil
}

// PreInitDropped returns how many records the pre-init buffer discarded
func PreInitDropped() uint64 {
	global.mu.Lock()
	defer global.mu.Unlock()
	return global.dropped
}

// Flush forces every sink to persist its buffered output
func Flush() {
	if d := global.dispatcher(); d != nil {
		d.Flush()
	}
}

// Shutdown flushes and closes every sink. It is idempotent; records
// logged after shutdown are discarded.
func Shutdown() {
	global.shutdown()
}

// RegisterExitHook installs a signal handler that flushes and closes
// every sink on SIGINT or SIGTERM before the process exits.
func RegisterExitHook() {
	global.hookOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-ch
			signal.Stop(ch)
			Shutdown()
			code := 1
			if s, ok := sig.(syscall.Signal); ok {
				code = 128 + int(s)
			}
			osExit(code)
		}()
	})
}

func (r *registry) dispatcher() *dispatch.Dispatcher {
	return r.disp.Load()
}

// buffer holds one record until Init. The ring is bounded; when full,
// the oldest record is discarded and counted. A dispatcher appearing
// while we wait for the lock means Init just ran, so the record is
// delivered instead of buffered.
func (r *registry) buffer(rec *core.Record) {
	r.mu.Lock()
	if d := r.disp.Load(); d != nil {
		r.mu.Unlock()
		d.Dispatch(rec)
		core.PutRecord(rec)
		return
	}
	if r.closed {
		r.mu.Unlock()
		core.PutRecord(rec)
		return
	}
	if len(r.ring) >= preInitBufferSize {
		old := r.ring[0]
		copy(r.ring, r.ring[1:])
		r.ring[len(r.ring)-1] = rec
		r.dropped++
		core.PutRecord(old)
	} else {
		r.ring = append(r.ring, rec)
	}
	r.mu.Unlock()
}

func (r *registry) init(opts config.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disp.Load() != nil || r.closed {
		if r.opts.Policy == config.Strict {
			return &config.ConfigError{Field: "init", Err: ErrAlreadyInitialized}
		}
		return nil
	}

	// The reporter targets its own terminal sink so a failing
	// configured sink can always be reported somewhere.
	reporter := sink.NewReporter(sink.NewTerminalSink(sink.TerminalConfig{}), reportWindow)

	bindings, err := buildBindings(opts, reporter)
	if err != nil {
		for _, b := range bindings {
			_ = b.Sink.Close()
		}
		return err
	}

	d := dispatch.New(opts.MinLevel, reporter, bindings...)
	r.opts = opts
	r.reporter = reporter
	r.disp.Store(d)

	if r.dropped > 0 {
		rec := core.GetRecord()
		rec.Level = core.WarnLevel
		rec.Message = fmt.Sprintf("logsink: %d early records dropped before initialization", r.dropped)
		d.Dispatch(rec)
		core.PutRecord(rec)
	}
	for _, rec := range r.ring {
		d.Dispatch(rec)
		core.PutRecord(rec)
	}
	r.ring = nil

	return nil
}

// buildBindings constructs one sink and formatter per configured
// destination. On error the bindings built so far are returned for
// cleanup by the caller.
func buildBindings(opts config.Options, reporter *sink.Reporter) ([]dispatch.Binding, error) {
	var bindings []dispatch.Binding

	for i, sc := range opts.Sinks {
		var (
			s   sink.Sink
			err error
		)

		switch sc.Kind {
		case config.KindTerminal:
			s = sink.NewTerminalSink(sink.TerminalConfig{})

		case config.KindFile:
			s, err = sink.NewFileSink(sink.FileConfig{Filename: sc.Path})

		case config.KindRemote:
			ro := sc.Remote
			var token string
			if ro.CredentialsEnv != "" {
				token = os.Getenv(ro.CredentialsEnv)
			}
			var client *sink.HTTPObjectStore
			client, err = sink.NewHTTPObjectStore(sink.HTTPObjectStoreConfig{
				Endpoint: ro.Endpoint,
				Bucket:   ro.Bucket,
				Token:    token,
			})
			if err == nil {
				s, err = sink.NewRemoteSink(sink.RemoteConfig{
					Client:         client,
					KeyPrefix:      ro.KeyPrefix,
					BatchSize:      ro.BatchSize,
					FlushInterval:  ro.FlushInterval,
					QueueSize:      ro.QueueSize,
					MaxAttempts:    ro.MaxAttempts,
					AttemptTimeout: ro.AttemptTimeout,
					Compress:       ro.Compress,
					FallbackPath:   ro.FallbackPath,
					Reporter:       reporter,
				})
			}
		}
		if err != nil {
			return bindings, &config.ConfigError{Field: fmt.Sprintf("sinks[%d]", i), Err: err}
		}

		b := dispatch.Binding{
			Name:     fmt.Sprintf("%s[%d]", sc.Kind, i),
			Sink:     s,
			MinLevel: sc.MinLevel,
		}
		switch opts.EffectiveStyle(sc) {
		case config.StyleJSON:
			b.Formatter = formatter.NewJSONFormatter(formatter.Config{})
		case config.StyleTable:
			b.Formatter = formatter.NewTableFormatter(formatter.Config{})
			b.Table = true
		default:
			b.Formatter = formatter.NewTextFormatter(formatter.Config{})
		}
		bindings = append(bindings, b)
	}

	return bindings, nil
}

func (r *registry) shutdown() {
	r.mu.Lock()
	d := r.disp.Load()
	r.disp.Store(nil)
	r.closed = true
	for _, rec := range r.ring {
		core.PutRecord(rec)
	}
	r.ring = nil
	r.mu.Unlock()

	if d != nil {
		d.Close()
	}
}

// reset restores the pristine state. Test hook only.
func (r *registry) reset() {
	r.mu.Lock()
	d := r.disp.Load()
	r.disp.Store(nil)
	r.closed = false
	r.opts = config.Options{}
	r.reporter = nil
	for _, rec := range r.ring {
		core.PutRecord(rec)
	}
	r.ring = nil
	r.dropped = 0
	r.mu.Unlock()

	if d != nil {
		d.Close()
	}
}
