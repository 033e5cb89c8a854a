package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/export"
)

func (a *app) areasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "areas [input.csv] [outDir]",
		Short: "Tag hobbies with keyword areas and write the final records",
		Long: `Runs the area-rule pipeline over the survey CSV and writes IVIS23_final.json
together with area counts, the area rule table, hobby counts and the skill summary.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := argOr(args, 0, defaultInput)
			outDir := argOr(args, 1, defaultFinalDir)

			opts, err := a.runOptions()
			if err != nil {
				return err
			}
			comp, err := a.loadComponents("", false)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			res, err := assembleFile(ctx, input, assemble.SchemaFinal, comp.RuleTagger(opts.MaxKeywords), opts.Progress)
			if err != nil {
				return err
			}

			written, err := export.WriteFinal(res, outDir)
			if err != nil {
				return err
			}
			logWritten(written)
			slog.Info("tagged survey", "records", len(res.Records), "areas", len(res.AreaCounts),
				"rules", comp.Areas.Len(), "skipped", res.Skipped)

			if err := exportSQLite(ctx, opts.SQLitePath, res, input); err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), res, input)
			return nil
		},
	}
}
