package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker prints a running count of processed rows.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	done           int
	dropped        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a tracker for total rows that prints every
// reportInterval rows. A nil writer discards output.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if writer == nil {
		writer = io.Discard
	}
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start resets the counters and the clock.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.done = 0
	p.dropped = 0
	p.lastReported = 0
}

// Row records one finished row. delivered is false for rows that were
// dropped for any reason.
func (p *ProgressTracker) Row(delivered bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	if p.done < p.total {
		p.done++
	}
	if !delivered {
		p.dropped++
	}

	if p.done-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.done
	}
}

// Finish prints the final line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report must be called with the lock held.
func (p *ProgressTracker) report() {
	rate := 0.0
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 {
		rate = float64(p.done) / elapsed
	}

	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rRows: %d/%d (%.1f%%), %d dropped - %.1f rows/s",
		p.done, p.total, percentage, p.dropped, rate)
}
