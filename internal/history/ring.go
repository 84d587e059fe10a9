// Package history keeps the most recent temperature samples for charting.
package history

import (
	"sync"

	"thermostat_dashboard/internal/models"
)

const DefaultCapacity = 1000

// Ring is a fixed-capacity buffer of samples; the oldest sample is
// overwritten once it is full. Safe for concurrent use.
type Ring struct {
	mu    sync.RWMutex
	buf   []models.Sample
	start int // index of the oldest sample
	size  int
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]models.Sample, capacity)}
}

// Record appends s, evicting the oldest sample when full.
func (r *Ring) Record(s models.Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = s
		r.size++
		return
	}
	r.buf[r.start] = s
	r.start = (r.start + 1) % len(r.buf)
}

// Samples returns up to limit of the newest samples, oldest first.
// limit <= 0 returns everything.
func (r *Ring) Samples(limit int) []models.Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := r.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Sample, n)
	first := r.start + r.size - n
	for i := 0; i < n; i++ {
		out[i] = r.buf[(first+i)%len(r.buf)]
	}
	return out
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *Ring) Cap() int {
	return len(r.buf)
}
