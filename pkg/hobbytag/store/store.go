package store

import (
	"context"
	"time"

	"github.com/cognicore/hobbytag/pkg/hobbytag/analytics"
	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
)

// Sink persists finished runs
type Sink interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	LoadRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context) ([]RunInfo, error)
}

// Run is one assembled survey export with its aggregates
type Run struct {
	ID        string
	Schema    assemble.Schema
	Variant   ingest.Variant
	InputFile string
	StartedAt time.Time
	Skipped   int

	Records     []assemble.Record
	AreaCounts  []analytics.AreaCount
	HobbyCounts []analytics.TermCount
	Unknown     []analytics.TermCount
	Rules       []ingest.AreaRule
}

// RunInfo summarizes a stored run
type RunInfo struct {
	ID        string
	Schema    assemble.Schema
	InputFile string
	StartedAt time.Time
	Records   int
}

// FromResult captures an assembler result for storage
func FromResult(res *assemble.Result, inputFile string) Run {
	return Run{
		ID:          res.RunID,
		Schema:      res.Schema,
		Variant:     res.Variant,
		InputFile:   inputFile,
		StartedAt:   res.StartedAt,
		Skipped:     res.Skipped,
		Records:     res.Records,
		AreaCounts:  res.AreaCounts,
		HobbyCounts: res.HobbyCounts,
		Unknown:     res.Unknown,
		Rules:       res.Rules,
	}
}

// Info summarizes r
func (r Run) Info() RunInfo {
	return RunInfo{
		ID:        r.ID,
		Schema:    r.Schema,
		InputFile: r.InputFile,
		StartedAt: r.StartedAt,
		Records:   len(r.Records),
	}
}
