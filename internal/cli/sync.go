package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"loctext/internal/config"
	"loctext/internal/filewalker"
	"loctext/internal/graph"
	"loctext/internal/parser"
	"loctext/internal/store"
	"loctext/internal/worker"
)

func syncCmd(getCfg func() *config.Config) *cobra.Command {
	var skipGraph bool

	cmd := &cobra.Command{
		Use:   "sync <directory>",
		Short: "Parse every locale asset under a directory and publish it to PostgreSQL and the coverage graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(getCfg(), args[0], skipGraph)
		},
	}

	cmd.Flags().BoolVar(&skipGraph, "skip-graph", false, "Do not update the Neo4j coverage graph")
	return cmd
}

// parseAssets parses every entry with the worker pool and returns the
// successful results keyed by asset name, in walk order.
func parseAssets(ctx context.Context, cfg *config.Config, root string, entries []filewalker.FileEntry) ([]string, map[string]*parser.ParseResult, int) {
	parsePool := worker.NewPool[filewalker.FileEntry, *parser.ParseResult](cfg.WorkerCount,
		func(ctx context.Context, entry filewalker.FileEntry) (*parser.ParseResult, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return entry.Parser.Parse(entry.Path)
		},
	)

	var names []string
	parsed := make(map[string]*parser.ParseResult, len(entries))
	failed := 0

	for _, r := range parsePool.Execute(ctx, entries) {
		if r.Err != nil {
			log.Error().Err(r.Err).Str("file", r.Input.Path).Msg("Parse failed")
			failed++
			continue
		}
		name := filewalker.AssetName(root, r.Input)
		names = append(names, name)
		parsed[name] = r.Output
	}
	return names, parsed, failed
}

func runSync(cfg *config.Config, root string, skipGraph bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	entries, err := filewalker.NewWalker(cfg.StrictHeaders).Walk(root)
	if err != nil {
		return fmt.Errorf("walk input directory: %w", err)
	}

	names, parsed, failed := parseAssets(ctx, cfg, root, entries)

	// Identifiers must be unique across all assets of a directory.
	catalog := store.NewCatalog(cfg.DefaultLocale)
	for _, name := range names {
		if err := catalog.Add(name, parsed[name].Document); err != nil {
			log.Warn().Err(err).Str("asset", name).Msg("Duplicate identifiers across assets")
		}
	}

	pool, err := openPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	pgStore := store.NewPostgresStore(pool)
	if err := pgStore.EnsureSchema(ctx); err != nil {
		return err
	}

	var coverage *graph.Coverage
	if !skipGraph {
		driver, err := openNeo4j(ctx, cfg)
		if err != nil {
			return err
		}
		defer driver.Close(ctx)

		coverage = graph.NewCoverage(driver)
		if err := coverage.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure graph schema: %w", err)
		}
	}

	saved := 0
	for _, name := range names {
		doc := parsed[name].Document

		changed, err := pgStore.Save(ctx, name, doc)
		if err != nil {
			log.Error().Err(err).Str("asset", name).Msg("Save failed")
			catalog.Remove(name)
			failed++
			continue
		}
		if changed {
			saved++
		}

		if coverage != nil {
			if err := coverage.Upsert(ctx, name, doc.Records); err != nil {
				log.Error().Err(err).Str("asset", name).Msg("Coverage update failed")
			}
		}
	}

	log.Info().
		Int("assets", len(entries)).
		Int("saved", saved).
		Int("failed", failed).
		Int("published_ids", catalog.Len()).
		Msg("Sync complete")

	if failed > 0 {
		return errFailed
	}
	return nil
}

func missingCmd(getCfg func() *config.Config) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "missing [locale]",
		Short: "List text ids that have no value for a locale",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !summary && len(args) == 0 {
				return fmt.Errorf("missing: locale required (or use --summary)")
			}

			ctx, cancel := setupContext()
			defer cancel()

			driver, err := openNeo4j(ctx, getCfg())
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			coverage := graph.NewCoverage(driver)
			out := cmd.OutOrStdout()

			if summary {
				counts, err := coverage.Summary(ctx)
				if err != nil {
					return err
				}
				writeSummary(out, counts)
				return nil
			}

			missing, err := coverage.Missing(ctx, args[0])
			if err != nil {
				return err
			}
			for _, m := range missing {
				fmt.Fprintf(out, "%s\t%v\n", m.ID, m.Assets)
			}
			log.Info().Str("locale", args[0]).Int("missing", len(missing)).Msg("Coverage check complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Print how many text ids each locale covers")
	return cmd
}

// writeSummary prints locale counts, most covered first.
func writeSummary(w io.Writer, counts map[string]int64) {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	for _, code := range codes {
		fmt.Fprintf(w, "%s\t%d\n", code, counts[code])
	}
}
