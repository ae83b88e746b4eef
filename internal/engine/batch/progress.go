package batch

import (
	"sync"
	"time"
)

const percentMultiplier = 100

// Progress counts finished items and chunks. It is safe for concurrent use.
type Progress struct {
	mu          sync.RWMutex
	totalItems  int
	totalChunks int
	doneItems   int
	doneChunks  int
	start       time.Time
	now         func() time.Time
}

// NewProgress returns a tracker for totalItems split into chunks of size.
func NewProgress(totalItems, size int) *Progress {
	return NewProgressWithTime(totalItems, size, time.Now)
}

// NewProgressWithTime is NewProgress with an injected clock.
func NewProgressWithTime(totalItems, size int, now func() time.Time) *Progress {
	chunks := 0
	if size > 0 {
		chunks = (totalItems + size - 1) / size
	}
	return &Progress{
		totalItems:  totalItems,
		totalChunks: chunks,
		start:       now(),
		now:         now,
	}
}

// Add records one finished chunk of n items.
func (p *Progress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doneItems += n
	p.doneChunks++
}

// Snapshot is a point-in-time copy of a Progress.
type Snapshot struct {
	TotalItems  int
	DoneItems   int
	TotalChunks int
	DoneChunks  int
	Elapsed     time.Duration
}

// Percent returns completion in the range 0 to 100.
func (s Snapshot) Percent() float64 {
	if s.TotalItems == 0 {
		return 0
	}
	return float64(s.DoneItems) / float64(s.TotalItems) * percentMultiplier
}

// Complete reports whether every item has been handled.
func (s Snapshot) Complete() bool {
	return s.DoneItems >= s.TotalItems
}

// Remaining estimates the time left from the average rate so far.
// It is zero until the first chunk finishes.
func (s Snapshot) Remaining() time.Duration {
	if s.DoneItems == 0 {
		return 0
	}
	perItem := s.Elapsed / time.Duration(s.DoneItems)
	return perItem * time.Duration(s.TotalItems-s.DoneItems)
}

// Snapshot returns the current state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		TotalItems:  p.totalItems,
		DoneItems:   p.doneItems,
		TotalChunks: p.totalChunks,
		DoneChunks:  p.doneChunks,
		Elapsed:     p.now().Sub(p.start),
	}
}
