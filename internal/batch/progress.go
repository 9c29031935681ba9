package batch

import (
	"sync"
	"time"
)

const percentMultiplier = 100

// ProgressSnapshot is the state of a run after a batch completes.
type ProgressSnapshot struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	StartTime        time.Time
	ElapsedTime      time.Duration
}

// PercentComplete returns completion as 0-100.
func (s ProgressSnapshot) PercentComplete() float64 {
	if s.TotalItems == 0 {
		return 0
	}
	return float64(s.ProcessedItems) / float64(s.TotalItems) * percentMultiplier
}

// IsComplete reports whether every item has been processed.
func (s ProgressSnapshot) IsComplete() bool {
	return s.ProcessedItems >= s.TotalItems
}

// ItemsPerSecond returns the processing rate so far.
func (s ProgressSnapshot) ItemsPerSecond() float64 {
	secs := s.ElapsedTime.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.ProcessedItems) / secs
}

// progress accumulates completed batches from concurrent workers.
type progress struct {
	mu   sync.Mutex
	snap ProgressSnapshot
}

func newProgress(totalItems, totalBatches, batchSize int) *progress {
	return &progress{snap: ProgressSnapshot{
		TotalItems:   totalItems,
		TotalBatches: totalBatches,
		BatchSize:    batchSize,
		StartTime:    time.Now(),
	}}
}

// add records a completed batch of n items and returns the new state.
func (p *progress) add(n int) ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snap.ProcessedItems += n
	p.snap.ProcessedBatches++
	p.snap.ElapsedTime = time.Since(p.snap.StartTime)
	return p.snap
}
