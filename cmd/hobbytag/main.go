package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognicore/hobbytag/internal/logging"
)

var version = "dev"

// app carries the per-invocation configuration shared by the subcommands
type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "hobbytag",
		Short: "Tag survey hobby answers and summarize them",
		Long: `hobbytag turns a course survey export (CSV) into tagged respondent records:
hobby keywords, hobby areas, skill ratings, frequency tables and clusters.`,
		PersistentPreRunE: a.initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	pf.String("rules", "", "tagging tables YAML, overlaid on the built-in defaults")
	pf.Int("max-keywords", 0, "keywords kept per answer (default from the tables)")
	pf.Bool("progress", false, "show a progress bar while tagging rows")
	pf.String("sqlite", "", "SQLite file runs are exported to and read back from")

	_ = a.v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", pf.Lookup("log-format"))
	_ = a.v.BindPFlag("rules", pf.Lookup("rules"))
	_ = a.v.BindPFlag("max_keywords", pf.Lookup("max-keywords"))
	_ = a.v.BindPFlag("progress", pf.Lookup("progress"))
	_ = a.v.BindPFlag("sqlite", pf.Lookup("sqlite"))

	root.AddCommand(a.cleanCmd())
	root.AddCommand(a.areasCmd())
	root.AddCommand(a.clusterCmd())
	root.AddCommand(schemaCmd())
	root.AddCommand(a.verifyCmd())
	root.AddCommand(a.gapsCmd())
	root.AddCommand(a.runsCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	a.v.SetEnvPrefix("HOBBYTAG")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()
	// unprefixed env names for compatibility
	_ = a.v.BindEnv("include_unknown_as_tags", "INCLUDE_UNKNOWN_AS_TAGS", "HOBBYTAG_INCLUDE_UNKNOWN_AS_TAGS")
	_ = a.v.BindEnv("cluster.k_raw", "HOBBY_CLUSTER_K", "HOBBYTAG_CLUSTER_K")
	_ = a.v.BindEnv("embed.api_key", "HOBBYTAG_EMBED_API_KEY", "OPENAI_API_KEY")

	if _, err := logging.Setup(a.v.GetString("logging.level"), a.v.GetString("logging.format"), os.Stderr); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "hobbytag", version)
		},
	}
}
