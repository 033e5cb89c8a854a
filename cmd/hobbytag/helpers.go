package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/config"
	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
	"github.com/cognicore/hobbytag/pkg/hobbytag/store"
	"github.com/cognicore/hobbytag/pkg/hobbytag/store/sqlite"
	"github.com/cognicore/hobbytag/pkg/hobbytag/survey"
)

// runOptions collects the validated per-run options from flags, env and config
func (a *app) runOptions() (config.RunOptions, error) {
	opts := config.RunOptions{
		MaxKeywords:    a.v.GetInt("max_keywords"),
		Provider:       a.v.GetString("embed.provider"),
		Model:          a.v.GetString("embed.model"),
		IncludeUnknown: config.ParseFlag(a.v.GetString("include_unknown_as_tags")),
		StemFallback:   a.v.GetBool("stem_fallback"),
		Progress:       a.v.GetBool("progress"),
		SQLitePath:     a.v.GetString("sqlite"),
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (a *app) loadComponents(canonPath string, stemFallback bool) (*config.Components, error) {
	loader := config.Loader{
		RulesPath:    a.v.GetString("rules"),
		CanonPath:    canonPath,
		StemFallback: stemFallback,
	}
	return loader.Load()
}

// assembleFile reads a survey export and runs it through the assembler
func assembleFile(ctx context.Context, input string, schema assemble.Schema, tagger ingest.HobbyTagger, progress bool) (*assemble.Result, error) {
	table, err := survey.LoadTable(input)
	if err != nil {
		return nil, err
	}

	opts := []assemble.Option{assemble.WithLogger(slog.Default())}
	if progress {
		bar := progressbar.NewOptions(len(table.Rows),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("tagging rows"),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)
		opts = append(opts, assemble.WithProgress(func(done, _ int) {
			if err := bar.Set(done); err != nil {
				slog.Warn("progress bar update failed", "error", err)
			}
		}))
	}

	asm, err := assemble.New(schema, tagger, opts...)
	if err != nil {
		return nil, err
	}
	return asm.Run(ctx, table)
}

// openStore opens the run store named by --sqlite
func openStore(ctx context.Context, path string) (store.Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: --sqlite is required", internalerr.ErrInvalidConfig)
	}
	sink, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return sink, nil
}

// exportSQLite stores the run when --sqlite is set
func exportSQLite(ctx context.Context, path string, res *assemble.Result, input string) error {
	if path == "" {
		return nil
	}
	sink, err := openStore(ctx, path)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := sink.SaveRun(ctx, store.FromResult(res, input)); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	slog.Info("wrote artifact", "path", path, "run_id", res.RunID)
	return nil
}

func logWritten(paths []string) {
	for _, p := range paths {
		slog.Info("wrote artifact", "path", p)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func areaBadge(area string) string {
	c := ingest.AreaColor(area)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Background)).
		Foreground(lipgloss.Color(c.Text)).
		Padding(0, 1).
		Render(ingest.FormatAreaLabel(area))
}

// printSummary renders a short run report on w
func printSummary(w io.Writer, res *assemble.Result, input string) {
	fmt.Fprintln(w, headerStyle.Render("hobbytag run "+res.RunID))
	fmt.Fprintf(w, "  input    %s\n", input)
	fmt.Fprintf(w, "  schema   %s (%s)\n", res.Schema, res.Variant)
	fmt.Fprintf(w, "  records  %d\n", len(res.Records))
	fmt.Fprintf(w, "  skipped  %s\n", dimStyle.Render(fmt.Sprintf("%d blank rows", res.Skipped)))

	if len(res.AreaCounts) > 0 {
		fmt.Fprintln(w, headerStyle.Render("areas"))
		for _, c := range res.AreaCounts {
			fmt.Fprintf(w, "  %4d  %s\n", c.Count, areaBadge(c.Area))
		}
	}
	if len(res.HobbyCounts) > 0 {
		top := res.HobbyCounts
		if len(top) > 10 {
			top = top[:10]
		}
		terms := make([]string, len(top))
		for i, c := range top {
			terms[i] = fmt.Sprintf("%s (%d)", c.Term, c.Count)
		}
		fmt.Fprintln(w, headerStyle.Render("top hobbies"))
		fmt.Fprintf(w, "  %s\n", strings.Join(terms, ", "))
	}
	if len(res.Unknown) > 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render(fmt.Sprintf("%d unknown terms for review", len(res.Unknown))))
	}
}

// argOr returns args[i] when present and non-empty, else def
func argOr(args []string, i int, def string) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return def
}
