package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TinyDragon612/astrophoenix-host/internal/config"
	pherrors "github.com/TinyDragon612/astrophoenix-host/internal/errors"
	"github.com/TinyDragon612/astrophoenix-host/internal/output"
	"github.com/TinyDragon612/astrophoenix-host/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit  int
	offset int
	format string // "text", "json"
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Index the corpus and run a ranked query against it",
		Long: `Index the corpus, then run one query and print the ranked results.

Exact title matches rank first, exact content matches second, and fuzzy
matches last. Wrap the query in double quotes (escaped for your shell) to
force exact-phrase matching.

Examples:
  astrophoenix search mars
  astrophoenix search '"zero gravity"'
  astrophoenix search regolith --limit 5 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, cfg, query, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Number of results to skip")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, query string, opts searchOptions) error {
	out := output.New(cmd.OutOrStdout())
	slog.Info("search_started", slog.String("query", query), slog.Int("limit", opts.limit))

	idx, err := indexCorpus(ctx, out, cfg, opts.format != "json")
	if err != nil {
		return err
	}

	engine, err := search.NewEngine(idx, searchConfigFrom(cfg))
	if err != nil {
		out.Error(pherrors.FormatForCLI(err))
		return err
	}

	results, err := engine.Search(ctx, query)
	if err != nil {
		out.Error(pherrors.FormatForCLI(err))
		return err
	}
	slog.Info("search_complete", slog.Int("results", len(results)))

	page := paginate(results, opts.offset, opts.limit)

	switch opts.format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	default:
		formatText(out, query, page, len(results))
		return nil
	}
}

// paginate slices the full result list; ranking is already final.
func paginate(results []search.Result, offset, limit int) []search.Result {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return []search.Result{}
	}
	end := len(results)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return results[offset:end]
}

// formatText outputs results in human-readable format.
func formatText(out *output.Writer, query string, page []search.Result, total int) {
	if total == 0 {
		out.Status("", fmt.Sprintf("No results found for %q", query))
		return
	}

	out.Statusf("🔍", "Found %d results for %q:", total, query)
	out.Newline()

	for i, r := range page {
		out.Statusf("", "%d. %s (score: %d)", i+1, r.Title, r.Score)
		if r.Excerpt != "" {
			out.Status("", "   "+r.Excerpt)
		}
		out.Newline()
	}
}

// searchConfigFrom maps the loaded configuration onto the query engine.
func searchConfigFrom(cfg *config.Config) search.Config {
	return search.Config{
		ScopedCandidateLimit:  cfg.Search.ScopedCandidateLimit,
		FuzzyLimit:            cfg.Search.FuzzyLimit,
		ExcerptRadius:         cfg.Search.ExcerptRadius,
		FallbackExcerptLength: cfg.Search.FallbackExcerptLength,
		CacheSize:             cfg.Search.CacheSize,
	}
}
