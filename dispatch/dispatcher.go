package dispatch

import (
	"sync"

	"github.com/philipp01105/logsink/core"
	"github.com/philipp01105/logsink/formatter"
	"github.com/philipp01105/logsink/sink"
)

// Binding ties one sink to its formatter and filtering options
type Binding struct {
	// Name identifies the binding in self-error reports
	Name string
	// Sink receives the rendered output
	Sink sink.Sink
	// Formatter renders records for this sink
	Formatter formatter.Formatter
	// MinLevel overrides the global minimum for this sink.
	// Records must pass both filters. Leave at NoOverride to
	// defer entirely to the global minimum.
	MinLevel core.Level
	// Table makes the binding accumulate records and render them as
	// one table on Flush or Close
	Table bool
}

// NoOverride disables the per-sink level override
const NoOverride core.Level = -1

// binding is the internal per-sink state. Rendered lines reach the
// sink through a single Write call and every sink serializes its own
// writes, so concurrent Dispatch calls never interleave partial output
// within one destination; the mutex here guards the table-mode rows.
type binding struct {
	Binding
	tableFmt *formatter.TableFormatter
	mu       sync.Mutex
	rows     []*core.Record // table mode only
}

// Dispatcher routes records from call sites to sinks after level
// filtering. It is safe for concurrent use; per-sink failures are
// isolated from each other and from the caller.
type Dispatcher struct {
	min      core.Level
	bindings []*binding
	reporter *sink.Reporter
}

// New creates a dispatcher with the given global minimum level.
// The reporter receives per-sink failures; it may be nil.
func New(min core.Level, reporter *sink.Reporter, bindings ...Binding) *Dispatcher {
	d := &Dispatcher{min: min, reporter: reporter}
	for _, b := range bindings {
		if b.Formatter == nil {
			b.Formatter = formatter.NewTextFormatter(formatter.Config{})
		}
		bd := &binding{Binding: b}
		if b.Table {
			if tf, ok := b.Formatter.(*formatter.TableFormatter); ok {
				bd.tableFmt = tf
			} else {
				bd.tableFmt = formatter.NewTableFormatter(formatter.Config{})
			}
		}
		d.bindings = append(d.bindings, bd)
	}
	return d
}

// MinLevel returns the global minimum level
func (d *Dispatcher) MinLevel() core.Level {
	return d.min
}

// Enabled reports whether a record at the given level can reach any sink
func (d *Dispatcher) Enabled(level core.Level) bool {
	if level < d.min {
		return false
	}
	for _, b := range d.bindings {
		if b.MinLevel == NoOverride || level >= b.MinLevel {
			return true
		}
	}
	return false
}

// Dispatch delivers one record to every eligible sink. It never
// returns an error: logging must not become a source of application
// failures, so sink errors are counted and reported out of band.
func (d *Dispatcher) Dispatch(record *core.Record) {
	if record.Level < d.min {
		return
	}
	for _, b := range d.bindings {
		if b.MinLevel != NoOverride && record.Level < b.MinLevel {
			continue
		}

		if b.Table {
			b.mu.Lock()
			b.rows = append(b.rows, record.Clone())
			b.mu.Unlock()
			continue
		}

		line, err := b.Formatter.Format(record)
		if err != nil {
			// Formatters degrade instead of failing; treat a failure
			// as a defect worth reporting, not worth propagating.
			d.report(err)
			continue
		}
		if err := b.Sink.Write(record.Level, line); err != nil {
			d.report(err)
		}
	}
}

// Flush renders pending tables and flushes every sink
func (d *Dispatcher) Flush() {
	for _, b := range d.bindings {
		if b.Table {
			d.flushTable(b)
		}
		if err := b.Sink.Flush(); err != nil {
			d.report(err)
		}
	}
}

// Close flushes and closes every sink
func (d *Dispatcher) Close() {
	for _, b := range d.bindings {
		if b.Table {
			d.flushTable(b)
		}
		if err := b.Sink.Close(); err != nil {
			d.report(err)
		}
	}
}

// flushTable renders and writes the accumulated rows of a table binding
func (d *Dispatcher) flushTable(b *binding) {
	b.mu.Lock()
	rows := b.rows
	b.rows = nil
	b.mu.Unlock()

	if len(rows) == 0 {
		return
	}

	out := b.tableFmt.FormatTable(rows)
	// A table spans levels; route it at the highest row level so the
	// terminal sink sends error-bearing tables to stderr.
	max := core.TraceLevel
	for _, r := range rows {
		if r.Level > max {
			max = r.Level
		}
	}
	if err := b.Sink.Write(max, out); err != nil {
		d.report(err)
	}
}

func (d *Dispatcher) report(err error) {
	if d.reporter != nil {
		d.reporter.Report(err)
	}
}
