package index

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/TinyDragon612/astrophoenix-host/internal/config"
	"github.com/TinyDragon612/astrophoenix-host/internal/corpus"
	pherrors "github.com/TinyDragon612/astrophoenix-host/internal/errors"
	"github.com/TinyDragon612/astrophoenix-host/internal/fuzzy"
)

// Fetcher is the document store capability the engine pulls the corpus
// through. Satisfied by corpus.Client.
type Fetcher interface {
	FetchManifest(ctx context.Context) ([]string, error)
	FetchDocument(ctx context.Context, id string) (string, error)
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	// Workers is the number of concurrent fetch-and-index workers.
	// Values outside [config.MinWorkers, config.MaxWorkers] are clamped;
	// zero derives the count from the host CPU hint.
	Workers int

	// Fuzzy configures the ranker, including the replacement built when
	// incremental insertion fails.
	Fuzzy fuzzy.Config
}

// Engine owns the in-memory index state for one session: the document
// table, the inverted index, and the fuzzy ranker. It is the single writer;
// the query engine reads through accessor methods while indexing is still
// in flight and simply sees the subset indexed so far.
//
// Lifecycle is create, Start, queries, discard. Once the run reaches ready
// or error it never leaves that state; a fresh session builds a new Engine.
type Engine struct {
	fetcher  Fetcher
	workers  int
	fuzzyCfg fuzzy.Config
	progress *Progress

	// mu guards the document table and the ranker reference. Indexing one
	// document mutates the table, the inverted index, and the ranker as one
	// step under this lock, so a reader never sees a partially indexed
	// document.
	mu       sync.RWMutex
	docs     map[string]corpus.Document
	inverted *InvertedIndex
	ranker   fuzzy.Ranker

	runMu   sync.Mutex
	running bool
	started bool
	doneCh  chan struct{}
	err     error
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithRanker injects a ranker implementation, overriding the default
// incremental fuzzy index. This is how the rebuild-on-add strategy is
// selected at construction.
func WithRanker(r fuzzy.Ranker) EngineOption {
	return func(e *Engine) {
		e.ranker = r
	}
}

// NewEngine creates an idle engine around the given document store.
func NewEngine(fetcher Fetcher, cfg EngineConfig, opts ...EngineOption) (*Engine, error) {
	if cfg.Fuzzy.Threshold == 0 {
		cfg.Fuzzy = fuzzy.DefaultConfig()
	}

	e := &Engine{
		fetcher:  fetcher,
		workers:  clampWorkers(cfg.Workers),
		fuzzyCfg: cfg.Fuzzy,
		progress: NewProgress(),
		docs:     make(map[string]corpus.Document),
		inverted: NewInvertedIndex(),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.ranker == nil {
		ranker, err := fuzzy.NewIndex(e.fuzzyCfg)
		if err != nil {
			return nil, pherrors.Wrap(pherrors.ErrCodeIndexFailed, err)
		}
		e.ranker = ranker
	}
	return e, nil
}

// clampWorkers bounds the worker count to protect the remote host while
// keeping enough fetches in flight. Zero derives from the CPU count.
func clampWorkers(n int) int {
	cfg := config.Config{Index: config.IndexConfig{Workers: n}}
	return cfg.EffectiveWorkers()
}

// Start begins indexing in a background goroutine. Non-blocking and
// idempotent; use Wait to block until completion.
func (e *Engine) Start(ctx context.Context) {
	e.runMu.Lock()
	if e.started {
		e.runMu.Unlock()
		return
	}
	e.started = true
	e.running = true
	e.runMu.Unlock()

	go e.run(ctx)
}

// Wait blocks until the run completes and returns its fatal error, if any.
func (e *Engine) Wait() error {
	<-e.doneCh
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.err
}

// run executes the indexing pipeline: one manifest fetch, then a bounded
// pool of workers draining a shared identifier queue.
func (e *Engine) run(ctx context.Context) {
	defer close(e.doneCh)
	defer func() {
		e.runMu.Lock()
		e.running = false
		e.runMu.Unlock()
	}()

	if e.fetcher == nil {
		err := pherrors.ConfigError("document store is not configured", nil)
		e.fail(err)
		return
	}

	manifest, err := e.fetcher.FetchManifest(ctx)
	if err != nil {
		// Fatal for the session: nothing can be enumerated.
		slog.Error("manifest_fetch_failed", slog.String("error", err.Error()))
		e.fail(err)
		return
	}

	e.progress.Begin(len(manifest))
	slog.Info("index_started",
		slog.Int("total", len(manifest)),
		slog.Int("workers", e.workers))

	queue := make(chan string)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(queue)
		for _, id := range manifest {
			select {
			case queue <- id:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < e.workers; i++ {
		g.Go(func() error {
			for id := range queue {
				e.fetchAndIndex(gctx, id)
			}
			return nil
		})
	}

	// Ready only once every worker has drained the queue.
	if err := g.Wait(); err != nil {
		e.fail(pherrors.Wrap(pherrors.ErrCodeIndexFailed, err))
		return
	}

	e.progress.SetReady()
	done, total := e.progress.Counts()
	slog.Info("index_ready", slog.Int("done", done), slog.Int("total", total))
}

// fetchAndIndex processes one identifier: fetch (absorbing failure as empty
// content), index atomically, then advance progress exactly once.
func (e *Engine) fetchAndIndex(ctx context.Context, id string) {
	content, err := e.fetcher.FetchDocument(ctx, id)
	if err != nil {
		// Non-fatal: the document keeps its place in the corpus so
		// progress counts and pagination stay consistent.
		slog.Warn("document_fetch_failed",
			slog.String("doc_id", id),
			slog.String("error", err.Error()))
		content = ""
	}

	e.indexDocument(corpus.NewDocument(id, content))
	e.progress.DocumentDone()
}

// indexDocument commits one document to all three structures as a single
// step under the write lock: document table, inverted index postings for
// the union of title and content tokens, and the fuzzy ranker.
func (e *Engine) indexDocument(doc corpus.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.docs[doc.ID] = doc

	seen := make(map[string]struct{})
	for _, tok := range Tokenize(doc.Title) {
		seen[tok] = struct{}{}
	}
	for _, tok := range Tokenize(doc.Content) {
		seen[tok] = struct{}{}
	}
	for tok := range seen {
		e.inverted.Insert(tok, doc.ID)
	}

	if err := e.ranker.Add(doc); err != nil {
		slog.Warn("fuzzy_add_failed_rebuilding",
			slog.String("doc_id", doc.ID),
			slog.String("error", err.Error()))
		e.rebuildRankerLocked()
	}
}

// rebuildRankerLocked reconstructs the fuzzy ranker from the full current
// document table. Transparent to callers: the post-condition is the same as
// a successful incremental add. Caller must hold e.mu.
func (e *Engine) rebuildRankerLocked() {
	docs := make([]corpus.Document, 0, len(e.docs))
	for _, doc := range e.docs {
		docs = append(docs, doc)
	}

	rebuilt, err := fuzzy.NewScoped(e.fuzzyCfg, docs)
	if err != nil {
		slog.Error("fuzzy_rebuild_failed", slog.String("error", err.Error()))
		return
	}
	e.ranker = rebuilt
}

// fail records a fatal error and moves the state machine to error.
func (e *Engine) fail(err error) {
	e.progress.SetError(err.Error())
	e.runMu.Lock()
	e.err = err
	e.runMu.Unlock()
}

// Progress returns the progress tracker for this engine.
func (e *Engine) Progress() *Progress {
	return e.progress
}

// Status returns the current state machine status.
func (e *Engine) Status() Status {
	return e.progress.Status()
}

// IsRunning reports whether the indexing goroutine is active.
func (e *Engine) IsRunning() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.running
}

// Document returns one document by identifier.
func (e *Engine) Document(id string) (corpus.Document, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	doc, ok := e.docs[id]
	return doc, ok
}

// Documents returns a snapshot copy of the currently indexed documents.
func (e *Engine) Documents() []corpus.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]corpus.Document, 0, len(e.docs))
	for _, doc := range e.docs {
		out = append(out, doc)
	}
	return out
}

// DocumentCount returns the number of documents indexed so far.
func (e *Engine) DocumentCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs)
}

// Inverted returns the engine's inverted index.
func (e *Engine) Inverted() *InvertedIndex {
	return e.inverted
}

// Ranker returns the current fuzzy ranker. The reference may change if the
// engine had to rebuild after a failed incremental add.
func (e *Engine) Ranker() fuzzy.Ranker {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ranker
}

// FuzzyConfig returns the ranker configuration, used by the query engine
// to build query-scoped rankers with identical weighting.
func (e *Engine) FuzzyConfig() fuzzy.Config {
	return e.fuzzyCfg
}
