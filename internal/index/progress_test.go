package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Lifecycle(t *testing.T) {
	// Given: a fresh tracker
	p := NewProgress()
	assert.Equal(t, StatusIdle, p.Status())

	// When: a run begins and completes
	p.Begin(3)
	assert.Equal(t, StatusIndexing, p.Status())

	for i := 0; i < 3; i++ {
		p.DocumentDone()
	}
	p.SetReady()

	// Then: terminal state with full counters
	assert.Equal(t, StatusReady, p.Status())
	done, total := p.Counts()
	assert.Equal(t, 3, done)
	assert.Equal(t, 3, total)
}

func TestProgress_SetError(t *testing.T) {
	p := NewProgress()

	p.SetError("manifest unavailable")

	assert.Equal(t, StatusError, p.Status())
	snap := p.Snapshot()
	assert.Equal(t, "error", snap.Status)
	assert.Equal(t, "manifest unavailable", snap.ErrorMessage)
}

func TestProgress_DoneNeverExceedsTotal(t *testing.T) {
	p := NewProgress()
	p.Begin(2)

	for i := 0; i < 5; i++ {
		p.DocumentDone()
	}

	done, total := p.Counts()
	assert.Equal(t, 2, done)
	assert.Equal(t, 2, total)
}

func TestProgress_SubscriberSeesEveryDocumentInOrder(t *testing.T) {
	p := NewProgress()

	var seen []int
	p.Subscribe(func(done, total int) {
		require.Equal(t, 4, total)
		seen = append(seen, done)
	})

	p.Begin(4)
	for i := 0; i < 4; i++ {
		p.DocumentDone()
	}

	// Exactly one callback per document, counters strictly increasing
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
}

func TestProgress_SubscribeNilIsNoop(t *testing.T) {
	p := NewProgress()
	p.Subscribe(nil)

	p.Begin(1)
	assert.NotPanics(t, func() { p.DocumentDone() })
}

func TestProgress_Snapshot(t *testing.T) {
	p := NewProgress()
	p.Begin(10)
	p.DocumentDone()

	snap := p.Snapshot()

	assert.Equal(t, "indexing", snap.Status)
	assert.Equal(t, 1, snap.Done)
	assert.Equal(t, 10, snap.Total)
	assert.GreaterOrEqual(t, snap.ElapsedSeconds, 0)
}
