// Package core defines the shared types used across the logsink engine.
//
// It provides the Level type for severity filtering, the Record type
// that represents a single log event, and the Field type for
// zero-allocation structured key-value pairs.
//
// Record objects are pooled via sync.Pool to keep the hot path
// allocation-free. Callers get a Record with GetRecord and must
// return it with PutRecord once the dispatcher has consumed it. The
// pool pre-allocates the Fields slice with capacity 8, which covers
// most log calls without triggering a slice growth.
//
// Field encodes values into fixed-size numeric fields (Int64, Float64)
// wherever possible so that common types like int, bool, and time.Time
// never escape to the heap. Group fields nest a further field list and
// form a tree; the Any field exists as a fallback for arbitrary types
// but will cause an allocation.
package core
