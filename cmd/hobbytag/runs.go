package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) runsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List the runs stored in the --sqlite file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sink, err := openStore(ctx, a.v.GetString("sqlite"))
			if err != nil {
				return err
			}
			defer sink.Close()

			runs, err := sink.ListRuns(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d stored runs", len(runs))))
			if len(runs) == 0 {
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN ID\tSCHEMA\tRECORDS\tSTARTED\tINPUT")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Schema, r.Records, r.StartedAt.Format(time.RFC3339), r.InputFile)
			}
			return w.Flush()
		},
	}
}
