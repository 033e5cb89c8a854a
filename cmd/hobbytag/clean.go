package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/export"
)

const (
	defaultInput        = "src/data/IVIS23.csv"
	defaultCleanedFile  = "src/data/IVIS23.cleaned.json"
	defaultCanonFile    = "scripts/hobby_canon.json"
	defaultUnknownFile  = "src/data/unknown_hobbies.json"
	defaultFinalDir     = "src/data"
	defaultClusterInput = "src/data/IVIS23_final.json"
	defaultClusterOut   = "scripts"
)

func (a *app) cleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [input.csv] [output.json] [canon.json] [unknown.json]",
		Short: "Clean a survey export with the canon hobby dictionary",
		Long: `Reads the survey CSV, maps hobby phrases onto the canon dictionary and
writes the cleaned envelope, the unknown-term report and hobby counts.`,
		Args: cobra.MaximumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := argOr(args, 0, defaultInput)
			paths := export.CanonPaths{
				Input:   input,
				Output:  argOr(args, 1, defaultCleanedFile),
				Canon:   argOr(args, 2, defaultCanonFile),
				Unknown: argOr(args, 3, defaultUnknownFile),
			}

			opts, err := a.runOptions()
			if err != nil {
				return err
			}
			comp, err := a.loadComponents(paths.Canon, opts.StemFallback)
			if err != nil {
				return err
			}
			tagger, err := comp.CanonTagger(opts.IncludeUnknown)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			res, err := assembleFile(ctx, input, assemble.SchemaCanon, tagger, opts.Progress)
			if err != nil {
				return err
			}

			written, err := export.WriteCanon(res, paths, tagger.IncludeUnknown())
			if err != nil {
				return err
			}
			logWritten(written)
			slog.Info("cleaned survey", "records", len(res.Records), "unknown_terms", len(res.Unknown),
				"include_unknown_as_tags", tagger.IncludeUnknown(), "stem_fallback", comp.Lexicon.StemFallback())

			if err := exportSQLite(ctx, opts.SQLitePath, res, input); err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), res, input)
			return nil
		},
	}

	cmd.Flags().Bool("stem-fallback", false, "match unknown phrases against canon entries by word stem")
	cmd.Flags().Bool("include-unknown", false, "keep unmatched phrases as hobbies (env INCLUDE_UNKNOWN_AS_TAGS)")
	_ = a.v.BindPFlag("stem_fallback", cmd.Flags().Lookup("stem-fallback"))
	_ = a.v.BindPFlag("include_unknown_as_tags", cmd.Flags().Lookup("include-unknown"))
	return cmd
}
