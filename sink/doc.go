// Package sink provides the Sink interface and its built-in
// implementations for delivering rendered log lines to destinations.
//
// Three sinks are built in:
//
//   - TerminalSink writes synchronously to stdout, routing Error lines
//     to stderr. Flush is a no-op.
//   - FileSink appends to a local file opened lazily at the first
//     write; Flush forces an OS sync. Rotation by size or interval and
//     cleanup of old backups are supported.
//   - RemoteSink buffers lines in a bounded queue and uploads them in
//     batches (by count or interval) to an ObjectStoreClient. A single
//     background worker owns the network client and the exponential
//     backoff retry loop; batches that exhaust their retries are
//     spilled to a local fallback file.
//
// Sink failures never reach the original log call site. They are
// wrapped in SinkError, classified Transient or Permanent, counted in
// Stats, and routed through the Reporter, which rate-limits the
// engine's self-reporting to at most one warning per rolling window.
//
// Queue overflow on the remote sink is governed by QueuePolicy:
// DropOldest (the default; logging never blocks the application),
// DropNewest, or Block with a bounded timeout. Every dropped line
// moves a visible counter.
package sink
