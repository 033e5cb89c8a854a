package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/embed"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

// Analyzer embeds respondents' hobby lists and clusters them
type Analyzer struct {
	embedder embed.Embedder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAnalyzer creates an analyzer. A nil logger uses slog.Default().
func NewAnalyzer(embedder embed.Embedder, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{embedder: embedder, logger: logger, now: time.Now}
}

// Run clusters the records into k groups. It returns ErrNoData when no
// record has a hobby. Embedding failures abort the run.
func (a *Analyzer) Run(ctx context.Context, records []assemble.FinalRecord, k int) (*Report, error) {
	rows := RowsFromRecords(records)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no hobby rows: %w", internalerr.ErrNoData)
	}

	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Text()
	}

	a.logger.Info("embedding hobby rows", "rows", len(rows), "model", a.embedder.Model())
	vectors, err := a.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	dims, err := embed.Check(texts, vectors)
	if err != nil {
		return nil, err
	}

	assignment := KMeansCosine(vectors, k)
	a.logger.Debug("k-means finished", "k", k, "iterations", assignment.Iterations)

	report := BuildReport(rows, assignment.Labels, a.embedder.Model(), dims, k, a.now())
	return &report, nil
}
