package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cognicore/hobbytag/pkg/hobbytag/cluster"
	"github.com/cognicore/hobbytag/pkg/hobbytag/config"
	"github.com/cognicore/hobbytag/pkg/hobbytag/embed"
	"github.com/cognicore/hobbytag/pkg/hobbytag/export"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

func (a *app) clusterCmd() *cobra.Command {
	var (
		input  string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster respondents by their hobby keywords",
		Long: `Embeds each respondent's hobby keywords, groups them with cosine k-means and
writes the embedding report and the simple cluster listing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.runOptions()
			if err != nil {
				return err
			}
			opts.K = cluster.ParseK(a.v.GetString("cluster.k_raw"))
			if err := opts.Validate(); err != nil {
				return err
			}

			records, err := export.ReadFinalRecords(input)
			if err != nil {
				return err
			}

			embedder, err := embed.New(opts.Provider, embed.Options{
				Model:   opts.Model,
				APIKey:  a.v.GetString("embed.api_key"),
				BaseURL: a.v.GetString("embed.url"),
				Dims:    a.v.GetInt("embed.dims"),
			})
			if err != nil {
				return err
			}

			report, err := cluster.NewAnalyzer(embedder, slog.Default()).Run(cmd.Context(), records, opts.K)
			if errors.Is(err, internalerr.ErrNoData) {
				slog.Info("No hobby rows found.", "input", input)
				return nil
			}
			if err != nil {
				return err
			}

			reportPath := filepath.Join(outDir, cluster.ReportFile)
			if err := export.WriteJSON(reportPath, report); err != nil {
				return err
			}
			simplePath := filepath.Join(outDir, cluster.SimpleFile)
			if err := export.WriteJSON(simplePath, cluster.Simple(*report)); err != nil {
				return err
			}
			logWritten([]string{reportPath, simplePath})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d clusters from %d rows (%s)", len(report.Clusters), report.InputRows, report.Model)))
			for _, c := range report.Clusters {
				terms := make([]string, 0, len(c.TopTerms))
				for _, t := range c.TopTerms {
					terms = append(terms, t.Term)
				}
				fmt.Fprintf(out, "  #%d  %3d  %s\n", c.ClusterID, c.Size, dimStyle.Render(fmt.Sprint(terms)))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String("k", fmt.Sprint(cluster.DefaultK), "number of clusters (env HOBBY_CLUSTER_K)")
	f.StringVar(&input, "input", defaultClusterInput, "final records to cluster")
	f.StringVar(&outDir, "out", defaultClusterOut, "directory for the cluster reports")
	f.String("provider", config.ProviderHash, "embedding provider (hash, openai, http)")
	f.String("model", "", "embedding model name")
	f.String("embed-url", "", "embedding endpoint base URL (openai, http)")
	f.Int("dims", 0, "hash embedding dimensions")
	_ = a.v.BindPFlag("cluster.k_raw", f.Lookup("k"))
	_ = a.v.BindPFlag("embed.provider", f.Lookup("provider"))
	_ = a.v.BindPFlag("embed.model", f.Lookup("model"))
	_ = a.v.BindPFlag("embed.url", f.Lookup("embed-url"))
	_ = a.v.BindPFlag("embed.dims", f.Lookup("dims"))
	return cmd
}
