package metrics

import (
	"sync"
	"time"
)

type opStats struct {
	calls       int
	errors      int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about store and directory calls,
// forwarding to OpenTelemetry instruments when configured.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*opStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*opStats),
		otel:  otel,
	}
}

// DirectoryKey is the stats key used for developer directory loads.
const DirectoryKey = "directory.load"

// StoreKey builds the stats key for a store operation, e.g. "memory.insert".
func StoreKey(backend, op string) string {
	return backend + "." + op
}

// RecordStoreOp tracks a single store call against the named backend.
func (r *Recorder) RecordStoreOp(backend, op string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.record(StoreKey(backend, op), duration, err)
	if r.otel != nil {
		r.otel.recordStoreOp(backend, op, duration, err)
	}
}

// RecordDirectoryLoad tracks a fetch of the authorised developer list.
func (r *Recorder) RecordDirectoryLoad(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.record(DirectoryKey, duration, err)
	if r.otel != nil {
		r.otel.recordDirectoryLoad(duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the stats recorded for one key.
type Snapshot struct {
	Calls       int
	Errors      int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(key string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[key]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		LastLatency: stats.lastLatency,
	}
}

func (r *Recorder) record(key string, duration time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[key]
	if !ok {
		stats = &opStats{}
		r.stats[key] = stats
	}
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
}
