package assemble

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/hobbytag/pkg/hobbytag/analytics"
	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
	"github.com/cognicore/hobbytag/pkg/hobbytag/survey"
)

// Result is everything one run produces
type Result struct {
	RunID        string
	Schema       Schema
	Variant      ingest.Variant
	StartedAt    time.Time
	Records      []Record
	RatingFields []RatingField
	Skipped      int

	AreaCounts  []analytics.AreaCount
	HobbyCounts []analytics.TermCount
	Unknown     []analytics.TermCount
	Rules       []ingest.AreaRule // rule pipeline only
	Skills      analytics.SkillSummary
}

// ProgressFunc is called after each row with the rows done and the total
type ProgressFunc func(done, total int)

// Option configures an Assembler
type Option func(*Assembler)

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithProgress registers a per-row progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(a *Assembler) {
		a.progress = fn
	}
}

// Assembler combines tagging and rating parsing into records and run
// aggregates. It keeps no state between runs.
type Assembler struct {
	schema   Schema
	tagger   ingest.HobbyTagger
	logger   *slog.Logger
	progress ProgressFunc

	mu      sync.Mutex // guards entropy
	entropy *ulid.MonotonicEntropy
}

// New creates an assembler. The final schema needs the allow-list tagger
// and the canon schema the open-vocabulary one.
func New(schema Schema, tagger ingest.HobbyTagger, opts ...Option) (*Assembler, error) {
	if !schema.Valid() {
		return nil, fmt.Errorf("%w: unknown schema %q", internalerr.ErrInvalidConfig, schema)
	}
	if tagger == nil {
		return nil, fmt.Errorf("%w: nil tagger", internalerr.ErrInvalidConfig)
	}
	want := ingest.VariantAllowList
	if schema == SchemaCanon {
		want = ingest.VariantOpenVocabulary
	}
	if tagger.Variant() != want {
		return nil, fmt.Errorf("%w: schema %s needs the %s tagger, got %s",
			internalerr.ErrInvalidConfig, schema, want, tagger.Variant())
	}

	a := &Assembler{
		schema:  schema,
		tagger:  tagger,
		logger:  slog.Default(),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// columns resolved from the header for one run
type layout struct {
	timestamp int
	alias     int
	hobby     int
	ratings   []ratingColumn
}

type ratingColumn struct {
	index int
	field RatingField
}

func (a *Assembler) resolve(table *survey.Table) (layout, error) {
	if a.schema == SchemaFinal {
		names := []string{survey.ColTimestamp, survey.ColAlias, survey.ColHobby}
		for _, c := range survey.IVISRatingColumns {
			names = append(names, c.Header)
		}
		idx, err := table.Require(names...)
		if err != nil {
			return layout{}, err
		}
		l := layout{
			timestamp: idx[survey.ColTimestamp],
			alias:     idx[survey.ColAlias],
			hobby:     idx[survey.ColHobby],
		}
		for _, c := range survey.IVISRatingColumns {
			l.ratings = append(l.ratings, ratingColumn{
				index: idx[c.Header],
				field: RatingField{Original: c.Header, Key: c.Key},
			})
		}
		return l, nil
	}

	idx, err := table.Require(survey.ColHobby)
	if err != nil {
		return layout{}, err
	}
	l := layout{
		timestamp: table.Index(survey.ColTimestamp),
		alias:     table.Index(survey.ColAlias),
		hobby:     idx[survey.ColHobby],
	}
	for _, i := range table.ColumnsWithPrefix(survey.RatingHeaderPrefix) {
		l.ratings = append(l.ratings, ratingColumn{
			index: i,
			field: RatingField{Original: table.Header[i], Key: survey.SlugifyHeader(table.Header[i])},
		})
	}
	return l, nil
}

// Run folds the table's rows, in file order, into records. Ids start at 1.
// Missing required columns fail the run before any row is processed.
func (a *Assembler) Run(ctx context.Context, table *survey.Table) (*Result, error) {
	l, err := a.resolve(table)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     a.newRunID(),
		Schema:    a.schema,
		Variant:   a.tagger.Variant(),
		StartedAt: time.Now().UTC(),
		Skipped:   table.Skipped,
		Records:   make([]Record, 0, len(table.Rows)),
	}
	for _, rc := range l.ratings {
		res.RatingFields = append(res.RatingFields, rc.field)
	}

	acc := analytics.NewAccumulator()
	skills := analytics.NewSkillAccumulator(nil)
	total := len(table.Rows)

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := a.assemble(i+1, row, l)
		acc.Process(rec.Hobbies, rec.Areas, rec.Unknown)
		skills.Process(rec.Ratings)
		res.Records = append(res.Records, rec)

		if a.progress != nil {
			a.progress(i+1, total)
		}
	}

	res.AreaCounts = acc.AreaCounts()
	res.HobbyCounts = acc.HobbyCounts()
	res.Unknown = acc.UnknownTerms()
	res.Skills = skills.Summary()
	if rb, ok := a.tagger.(*ingest.RuleBased); ok {
		res.Rules = rb.Rules().Rules()
	}

	a.logger.Debug("assembled records",
		"run_id", res.RunID,
		"schema", res.Schema,
		"variant", res.Variant,
		"records", len(res.Records),
		"skipped", res.Skipped,
		"unknown_terms", len(res.Unknown))
	return res, nil
}

func (a *Assembler) newRunID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ulid.MustNew(ulid.Now(), a.entropy).String()
}

func (a *Assembler) assemble(id int, row survey.Row, l layout) Record {
	raw := row.Cell(l.hobby)
	tagged := a.tagger.Tag(raw)

	rec := Record{
		ID:      id,
		Raw:     raw,
		Hobbies: tagged.Keywords,
		Areas:   tagged.Areas,
		Unknown: tagged.Unknown,
	}

	if a.schema == SchemaFinal {
		rec.Alias = row.Cell(l.alias)
		rec.TimeYear = survey.YearFromTimestamp(row.Cell(l.timestamp))
		rec.Ratings = make(survey.Ratings, 0, len(l.ratings))
		for _, rc := range l.ratings {
			v, ok := survey.ParseRating(row.Cell(rc.index), survey.ScaleRaw)
			rec.Ratings = append(rec.Ratings, survey.Rating{Key: rc.field.Key, Value: v, Valid: ok})
		}
		return rec
	}

	rec.Alias = strings.TrimSpace(row.Cell(l.alias))
	rec.About = tagged.About
	rec.Ratings = survey.Ratings{}
	for _, rc := range l.ratings {
		if rc.field.Key == "" {
			continue
		}
		if v, ok := survey.ParseRating(row.Cell(rc.index), survey.ScaleIVIS); ok {
			rec.Ratings = setRating(rec.Ratings, survey.Rating{Key: rc.field.Key, Value: v, Valid: true})
		}
	}
	return rec
}

// setRating replaces an existing key in place so duplicate headers keep the
// first position and the last value.
func setRating(r survey.Ratings, rt survey.Rating) survey.Ratings {
	for i := range r {
		if r[i].Key == rt.Key {
			r[i] = rt
			return r
		}
	}
	return append(r, rt)
}
