package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"loctext/internal/config"
	"loctext/internal/filewalker"
	"loctext/internal/lint"
	"loctext/internal/loctext"
	"loctext/internal/parser"
	"loctext/internal/store"
)

func parseFile(cfg *config.Config, path string) (*parser.ParseResult, parser.Parser, error) {
	p, ok := filewalker.NewWalker(cfg.StrictHeaders).ParserFor(path)
	if !ok {
		return nil, nil, fmt.Errorf("%s: unsupported file type", path)
	}
	res, err := p.Parse(path)
	if err != nil {
		return nil, nil, err
	}
	return res, p, nil
}

func checkCmd(getCfg func() *config.Config) *cobra.Command {
	var noLint bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse locale files and report warnings and lint findings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := false

			for _, path := range args {
				res, _, err := parseFile(getCfg(), path)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", path, err)
					failed = true
					continue
				}

				doc := res.Document
				for _, w := range doc.Warnings {
					fmt.Fprintf(out, "%s: %s\n", path, w)
				}
				findings := 0
				if !noLint {
					for _, f := range lint.Check(doc.Records) {
						fmt.Fprintf(out, "%s: %s\n", path, f)
						findings++
					}
				}
				fmt.Fprintf(out, "%s: %d records, %d pragmas, %d warnings, %d findings\n",
					path, len(doc.Records), len(doc.Pragmas), len(doc.Warnings), findings)
			}

			if failed {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLint, "no-lint", false, "Only report format problems")
	return cmd
}

func fmtCmd(getCfg func() *config.Config) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a .loc file in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			res, _, err := parseFile(getCfg(), path)
			if err != nil {
				return err
			}
			if res.FileType != "loc" {
				return fmt.Errorf("%s: fmt only handles native locale files, use convert", path)
			}

			out, err := loctext.SerializeDocument(res.Document)
			if err != nil {
				return fmt.Errorf("format %s: %w", path, err)
			}
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(path, []byte(out), 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			log.Info().Str("file", path).Int("records", len(res.Document.Records)).Msg("File formatted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file")
	return cmd
}

func resolveCmd(getCfg func() *config.Config) *cobra.Command {
	var (
		locale, def string
		list, all   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <file> [id]",
		Short: "Print the text of an id for a locale, applying the fallback chain",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()
			if def == "" {
				def = cfg.DefaultLocale
			}
			if locale == "" {
				locale = def
			}

			res, _, err := parseFile(cfg, args[0])
			if err != nil {
				return err
			}

			catalog := store.NewCatalog(def)
			if err := catalog.Add(args[0], res.Document); err != nil {
				log.Warn().Err(err).Msg("Duplicate identifiers, first definition wins")
			}

			out := cmd.OutOrStdout()
			if list {
				for _, id := range catalog.IDs() {
					fmt.Fprintln(out, id)
				}
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("resolve: missing id (or use --list)")
			}
			id := args[1]

			if all {
				rec, ok := catalog.Record(id)
				if !ok {
					return fmt.Errorf("text %q: %w", id, store.ErrNotFound)
				}
				for _, lv := range rec.Locales() {
					fmt.Fprintf(out, "%s\t%s\n", lv.Locale, lv.Value)
				}
				return nil
			}

			value, err := catalog.Lookup(id, locale)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, value)
			return err
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Requested locale (defaults to the default locale)")
	cmd.Flags().StringVar(&def, "default", "", "Default locale (defaults to DEFAULT_LOCALE)")
	cmd.Flags().BoolVar(&list, "list", false, "List the identifiers of the file in sorted order")
	cmd.Flags().BoolVar(&all, "all", false, "Print every locale of the id as raw values")
	return cmd
}

func convertCmd(getCfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output.loc>",
		Short: "Convert an INI or TSV locale table to the native format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, p, err := parseFile(getCfg(), args[0])
			if err != nil {
				return err
			}
			data, err := p.Reconstruct(res)
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}
			if err := os.WriteFile(args[1], data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", args[1], err)
			}
			log.Info().
				Str("input", args[0]).
				Str("output", args[1]).
				Int("records", len(res.Document.Records)).
				Msg("File converted")
			return nil
		},
	}
}

func exportCmd(getCfg func() *config.Config) *cobra.Command {
	var (
		format string
		fromDB bool
	)

	cmd := &cobra.Command{
		Use:   "export <file | asset>",
		Short: "Print a locale file, or an asset stored in PostgreSQL, as YAML or native text",
		Long: "Print a locale file as YAML or native text. With --from-db the argument names an asset " +
			"saved by sync; without an argument --from-db lists the stored assets.",
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				doc *loctext.Document
				err error
			)
			switch {
			case fromDB:
				doc, err = loadStored(cmd, getCfg(), args)
				if err != nil || doc == nil {
					return err
				}
			case len(args) == 1:
				res, _, err := parseFile(getCfg(), args[0])
				if err != nil {
					return err
				}
				doc = res.Document
			default:
				return fmt.Errorf("export: missing file argument")
			}

			var out []byte
			switch format {
			case "yaml":
				out, err = toYAML(doc)
			case "loc":
				var s string
				s, err = loctext.SerializeDocument(doc)
				out = []byte(s)
			default:
				return fmt.Errorf("unknown format %q (yaml or loc)", format)
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or loc")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "Read the asset from PostgreSQL instead of a file")
	return cmd
}

// loadStored reads one asset from PostgreSQL. With no asset named it prints
// the stored asset names and returns a nil document.
func loadStored(cmd *cobra.Command, cfg *config.Config, args []string) (*loctext.Document, error) {
	ctx, cancel := setupContext()
	defer cancel()

	pool, err := openPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	pgStore := store.NewPostgresStore(pool)
	if len(args) == 0 {
		assets, err := pgStore.Assets(ctx)
		if err != nil {
			return nil, err
		}
		for _, name := range assets {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil, nil
	}
	return pgStore.Load(ctx, args[0])
}
