// Package index builds and owns the incremental search index: the
// tokenizer, the inverted index, the progress tracker, and the concurrent
// fetch-and-index engine.
package index

import (
	"sync"
	"time"
)

// Status represents the indexing state machine.
type Status string

const (
	// StatusIdle indicates the engine has been created but not started.
	StatusIdle Status = "idle"
	// StatusIndexing indicates indexing is in progress.
	StatusIndexing Status = "indexing"
	// StatusReady indicates indexing is complete and search covers the
	// whole corpus.
	StatusReady Status = "ready"
	// StatusError indicates indexing failed fatally.
	StatusError Status = "error"
)

// ProgressFunc receives done/total counters after each document completes
// indexing. Callbacks fire exactly once per document, in completion order.
type ProgressFunc func(done, total int)

// Snapshot is an immutable copy of indexing progress.
type Snapshot struct {
	Status         string `json:"status"`
	Done           int    `json:"done"`
	Total          int    `json:"total"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// Progress provides thread-safe tracking of an indexing run.
// Counters are monotonically non-decreasing; done never exceeds total.
type Progress struct {
	mu sync.RWMutex

	status       Status
	done         int
	total        int
	startTime    time.Time
	errorMessage string
	listeners    []ProgressFunc
}

// NewProgress creates a progress tracker in the idle state.
func NewProgress() *Progress {
	return &Progress{
		status:    StatusIdle,
		startTime: time.Now(),
	}
}

// Subscribe registers a callback for per-document completion updates.
// Callbacks run while the progress lock is held so updates are delivered
// strictly in completion order; keep them fast.
func (p *Progress) Subscribe(fn ProgressFunc) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Begin transitions to indexing with the given corpus size.
func (p *Progress) Begin(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = StatusIndexing
	p.total = total
	p.done = 0
	p.startTime = time.Now()
}

// DocumentDone records one completed document (success or fallback-empty)
// and notifies subscribers.
func (p *Progress) DocumentDone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done < p.total {
		p.done++
	}
	for _, fn := range p.listeners {
		fn(p.done, p.total)
	}
}

// SetReady marks the run complete.
func (p *Progress) SetReady() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = StatusReady
}

// SetError marks the run as fatally failed.
func (p *Progress) SetError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = StatusError
	p.errorMessage = message
}

// Status returns the current state.
func (p *Progress) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Counts returns the current done/total counters.
func (p *Progress) Counts() (done, total int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.done, p.total
}

// Snapshot returns an immutable copy of the current progress state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return Snapshot{
		Status:         string(p.status),
		Done:           p.done,
		Total:          p.total,
		ElapsedSeconds: int(time.Since(p.startTime).Seconds()),
		ErrorMessage:   p.errorMessage,
	}
}
