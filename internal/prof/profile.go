// Package prof collects wall-clock timings of labelled stages.
package prof

import (
	"sync"
	"time"
)

// Entry represents a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Recorder accumulates entries; the zero value is ready to use.
type Recorder struct {
	mu     sync.Mutex
	record []Entry
}

// Track logs the duration since start with the given name. Use it as
// defer r.Track(time.Now(), "prove").
func (r *Recorder) Track(start time.Time, name string) {
	elapsed := time.Since(start)
	r.mu.Lock()
	r.record = append(r.record, Entry{Label: name, Dur: elapsed})
	r.mu.Unlock()
}

// Total sums every entry carrying label.
func (r *Recorder) Total(label string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var d time.Duration
	for _, e := range r.record {
		if e.Label == label {
			d += e.Dur
		}
	}
	return d
}

// SnapshotAndReset returns the collected timing entries and clears them.
func (r *Recorder) SnapshotAndReset() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.record))
	copy(out, r.record)
	r.record = nil
	return out
}
