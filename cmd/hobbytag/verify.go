package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/hobbytag/pkg/hobbytag/analytics"
	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/export"
	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
	"github.com/cognicore/hobbytag/pkg/hobbytag/maintenance"
)

// verifyInput is what a verification replays: records, the counts stored
// with them (nil when none) and the tagger that produced them
type verifyInput struct {
	source  string
	records []assemble.Record
	counts  []analytics.AreaCount
	tagger  ingest.HobbyTagger
}

func (a *app) verifyCmd() *cobra.Command {
	var (
		reportPath string
		runID      string
		canonPath  string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "verify [IVIS23_final.json]",
		Short: "Re-tag stored records and report drift against the current tables",
		Long: `Re-tags the records of IVIS23_final.json, or of a run stored with --sqlite
when --run is given, and lists every record the current tables would tag
differently.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				in  verifyInput
				err error
			)
			if runID != "" {
				in, err = a.storedRun(ctx, runID, canonPath)
			} else {
				in, err = a.finalFile(argOr(args, 0, defaultClusterInput))
			}
			if err != nil {
				return err
			}

			v := &maintenance.Verifier{Tagger: in.tagger}
			res, err := v.Verify(ctx, in.records)
			if err != nil {
				return err
			}
			countsMatch := in.counts == nil || res.AreaCountsMatch(in.counts)

			if reportPath != "" {
				if err := export.WriteJSON(reportPath, res); err != nil {
					return err
				}
				logWritten([]string{reportPath})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("verified %d records from %s, %d drifted", res.Processed, in.source, res.Drifted)))
			for _, d := range res.Drift {
				fmt.Fprintf(out, "  #%d %-12s %-10s %s -> %s\n", d.ID, d.Alias, d.Field,
					dimStyle.Render(strings.Join(d.Stored, ", ")), strings.Join(d.Current, ", "))
			}
			if !countsMatch {
				fmt.Fprintln(out, "  stored area counts differ from the recomputed counts")
			}

			if strict && (res.Drifted > 0 || !countsMatch) {
				return fmt.Errorf("%d records drifted", res.Drifted)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&reportPath, "report", "", "write the drift report as JSON")
	f.StringVar(&runID, "run", "", "replay a run stored in the --sqlite file instead of a records file")
	f.StringVar(&canonPath, "canon", defaultCanonFile, "canon dictionary for stored canon runs")
	f.BoolVar(&strict, "strict", false, "exit non-zero when any record drifted")
	return cmd
}

// finalFile reads IVIS23_final.json and the area counts written next to it
func (a *app) finalFile(path string) (verifyInput, error) {
	in := verifyInput{source: path}
	opts, err := a.runOptions()
	if err != nil {
		return in, err
	}
	comp, err := a.loadComponents("", false)
	if err != nil {
		return in, err
	}
	in.tagger = comp.RuleTagger(opts.MaxKeywords)

	finals, err := export.ReadFinalRecords(path)
	if err != nil {
		return in, err
	}
	in.records = make([]assemble.Record, len(finals))
	for i, f := range finals {
		in.records[i] = assemble.FromFinal(f)
	}

	countsPath := filepath.Join(filepath.Dir(path), export.AreaCountsFile)
	var stored []analytics.AreaCount
	switch err := export.ReadJSON(countsPath, &stored); {
	case err == nil:
		in.counts = stored
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no stored area counts", "path", countsPath)
	default:
		return in, err
	}
	return in, nil
}

// storedRun loads a run back from the --sqlite file
func (a *app) storedRun(ctx context.Context, id, canonPath string) (verifyInput, error) {
	in := verifyInput{source: "run " + id}
	opts, err := a.runOptions()
	if err != nil {
		return in, err
	}

	sink, err := openStore(ctx, opts.SQLitePath)
	if err != nil {
		return in, err
	}
	defer sink.Close()
	run, err := sink.LoadRun(ctx, id)
	if err != nil {
		return in, err
	}
	in.records = run.Records
	if run.AreaCounts != nil {
		in.counts = run.AreaCounts
	} else {
		in.counts = []analytics.AreaCount{}
	}

	switch run.Schema {
	case assemble.SchemaCanon:
		comp, err := a.loadComponents(canonPath, opts.StemFallback)
		if err != nil {
			return in, err
		}
		if in.tagger, err = comp.CanonTagger(opts.IncludeUnknown); err != nil {
			return in, err
		}
	default:
		comp, err := a.loadComponents("", false)
		if err != nil {
			return in, err
		}
		in.tagger = comp.RuleTagger(opts.MaxKeywords)
	}
	return in, nil
}
