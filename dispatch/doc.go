// Package dispatch routes log records from call sites to sinks.
//
// A Dispatcher holds an ordered set of Bindings, each pairing a sink
// with a formatter, an optional per-sink level override, and an
// optional table mode. Dispatch applies the global minimum level and
// every binding's override, renders the record per binding, and
// writes it; a failing sink never blocks delivery to the others and
// never surfaces an error to the caller. Failures go through the
// sink.Reporter instead.
//
// Table-mode bindings accumulate record copies and render them as a
// single aligned table when the dispatcher is flushed or closed.
//
// For a single producer, records reach a given sink in call order.
// Across concurrent producers the per-sink serialization decides the
// interleaving; no ordering is guaranteed across different sinks.
package dispatch
