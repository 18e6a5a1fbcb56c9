package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/TinyDragon612/astrophoenix-host/internal/config"
	"github.com/TinyDragon612/astrophoenix-host/internal/corpus"
	pherrors "github.com/TinyDragon612/astrophoenix-host/internal/errors"
	"github.com/TinyDragon612/astrophoenix-host/internal/fuzzy"
	"github.com/TinyDragon612/astrophoenix-host/internal/index"
	"github.com/TinyDragon612/astrophoenix-host/internal/output"
)

func newIndexCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Fetch and index the corpus, reporting progress",
		Long: `Fetch the corpus manifest, download every document with bounded
concurrency, and build the in-memory search index.

The index lives for the duration of the process; this command is mainly a
corpus health check and a timing probe. Use 'astrophoenix search' to index
and query in one run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			return runIndex(cmd.Context(), cmd, cfg, true)
		},
	}
}

// runIndex builds the full index and blocks until it is ready.
func runIndex(ctx context.Context, cmd *cobra.Command, cfg *config.Config, showProgress bool) error {
	out := output.New(cmd.OutOrStdout())

	engine, err := indexCorpus(ctx, out, cfg, showProgress)
	if err != nil {
		return err
	}

	out.Successf("indexed %d documents (%d distinct tokens)",
		engine.DocumentCount(), engine.Inverted().TokenCount())
	return nil
}

// indexCorpus builds the index engine, runs it to completion, and returns
// it ready for queries.
func indexCorpus(ctx context.Context, out *output.Writer, cfg *config.Config, showProgress bool) (*index.Engine, error) {
	engine, err := newIndexEngine(cfg)
	if err != nil {
		out.Error(pherrors.FormatForCLI(err))
		return nil, err
	}

	if showProgress {
		engine.Progress().Subscribe(func(done, total int) {
			out.Progress(done, total, "indexing corpus")
		})
	}

	engine.Start(ctx)
	if err := engine.Wait(); err != nil {
		slog.Error("index_failed", slog.String("error", err.Error()))
		out.Error(pherrors.FormatForCLI(err))
		return nil, err
	}
	return engine, nil
}

// newIndexEngine wires the document store client into an index engine.
func newIndexEngine(cfg *config.Config) (*index.Engine, error) {
	client := corpus.NewClient(cfg.Source.BaseURL, cfg.Source.Manifest, cfg.Source.FetchTimeout)

	return index.NewEngine(client, index.EngineConfig{
		Workers: cfg.Index.Workers,
		Fuzzy: fuzzy.Config{
			Weights: fuzzy.Weights{
				Title:   cfg.Search.TitleWeight,
				Content: cfg.Search.ContentWeight,
			},
			Threshold: cfg.Search.FuzzyThreshold,
		},
	})
}
