// Package formatter defines how log records are serialized into bytes.
//
// It exposes two interfaces: Formatter, which returns a []byte, and
// WriterFormatter, which writes directly to an io.Writer. Sinks and the
// dispatcher check for WriterFormatter at construction time and prefer
// it when available, eliminating the intermediate byte slice allocation
// on the write path.
//
// Three formatters are built in. TextFormatter renders one aligned
// line per record (timestamp, padded level bracket, message, key=value
// suffix, nested groups as bracketed sub-lists). JSONFormatter renders
// one JSON object per line with hand-rolled escaping. TableFormatter
// renders a batch of records as an aligned table whose columns are the
// union of field keys in first-seen order.
//
// Formatting never fails: control characters and invalid UTF-8 are
// escaped rather than passed through, and unsupported field values
// degrade to a placeholder token. A broken log line must never crash
// the caller.
//
// All formatters use a pooled bytes.Buffer internally and rely on Go's
// Append-style functions (time.AppendFormat, strconv.AppendInt) to
// avoid per-call allocations. Buffers larger than 64 KiB are not
// returned to the pool to prevent a single large log line from
// permanently inflating memory usage.
package formatter
