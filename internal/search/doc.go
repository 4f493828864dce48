// Package search drives the guided search flow: a session owns the
// filter criteria, the step sequencer, the debounced live matching
// count, and the final search execution.
//
// Concurrency model: all state mutations are serialized under the
// session mutex, mirroring a single UI event stream. The only hazard is
// out-of-order completion of asynchronous count requests; the session
// handles it with a monotonic generation tag - only the result of the
// most recently issued request is ever applied, results of superseded
// requests are dropped silently regardless of completion order.
package search
