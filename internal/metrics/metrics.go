// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the cleaning pipeline.
//
// The package is intentionally minimal and opinionated:
//
//   - It exposes a narrow interface (Backend) focused on counters and
//     timing data.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metric calls are always safe even when no real
//     backend is configured.
//   - It mirrors the storage abstraction pattern: the rest of the codebase
//     depends only on this interface while concrete metric systems stay
//     isolated in subpackages (prompush, datadog).
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it
	// (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing
// backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency plus success/failure for one pipeline step
// (fetch, parse, clean, load, report).
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter("clean_step_total", 1, lbls)
	backend.ObserveHistogram("clean_step_duration_seconds", d.Seconds(), lbls)
}

// CountRows tracks row movement through the pipeline; outcome is one of
// "parsed", "parse_error", "dropped", "loaded".
func CountRows(job, stage, outcome string, n int) {
	if n == 0 {
		return
	}
	backend.IncCounter("clean_rows_total", float64(n), Labels{
		"job":     job,
		"stage":   stage,
		"outcome": outcome,
	})
}
