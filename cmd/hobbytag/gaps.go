package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/hobbytag/pkg/hobbytag/autotune"
	"github.com/cognicore/hobbytag/pkg/hobbytag/export"
	"github.com/cognicore/hobbytag/pkg/hobbytag/survey"
)

const defaultGapsFile = "hobby_rule_gaps.json"

func (a *app) gapsCmd() *cobra.Command {
	var (
		minSupport int
		review     bool
	)

	cmd := &cobra.Command{
		Use:   "gaps [input.csv] [out.json]",
		Short: "Find hobby words the area rules miss and rule keywords nobody uses",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := argOr(args, 0, defaultInput)
			outPath := argOr(args, 1, defaultGapsFile)

			comp, err := a.loadComponents("", false)
			if err != nil {
				return err
			}
			table, err := survey.LoadTable(input)
			if err != nil {
				return err
			}
			cols, err := table.Require(survey.ColHobby)
			if err != nil {
				return err
			}

			answers := make([]string, len(table.Rows))
			for i, row := range table.Rows {
				answers[i] = row.Cell(cols[survey.ColHobby])
			}

			finder := &autotune.GapFinder{
				Normalizer: comp.Normalizer,
				Tokenizer:  comp.NewTokenizer(),
				Rules:      comp.Areas,
				Thresholds: autotune.Thresholds{MinSupport: minSupport},
			}
			if review {
				finder.Reviewer = newPromptReviewer(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			report, err := finder.Find(cmd.Context(), answers)
			if err != nil {
				return err
			}
			if err := export.WriteJSON(outPath, report); err != nil {
				return err
			}
			logWritten([]string{outPath})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d orphan keywords, %d unused rule keywords", len(report.Orphans), len(report.Unused))))
			for i, g := range report.Orphans {
				if i == 10 {
					break
				}
				area := dimStyle.Render("no suggestion")
				if g.Area != "" {
					area = areaBadge(g.Area)
				}
				fmt.Fprintf(out, "  %-20s %3d  %s\n", g.Keyword, g.Support, area)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&minSupport, "min-support", 2, "respondents needed before a word is reported")
	cmd.Flags().BoolVar(&review, "review", false, "confirm each orphan keyword interactively")
	return cmd
}
