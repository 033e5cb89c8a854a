package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/hobbytag/pkg/hobbytag/analytics"
	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
	"github.com/cognicore/hobbytag/pkg/hobbytag/store"
	"github.com/cognicore/hobbytag/pkg/hobbytag/survey"
)

// sqliteStore implements store.Sink on a single SQLite file
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the export database at path
func OpenSQLite(ctx context.Context, path string) (store.Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	schema_name TEXT NOT NULL,
	variant TEXT NOT NULL,
	input_file TEXT,
	started_at TEXT NOT NULL,
	skipped INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS records (
	run_id TEXT NOT NULL,
	id INTEGER NOT NULL,
	alias TEXT,
	time_year TEXT,
	hobby_raw TEXT,
	about TEXT,
	PRIMARY KEY(run_id, id),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS record_terms (
	run_id TEXT NOT NULL,
	record_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	position INTEGER NOT NULL,
	term TEXT NOT NULL,
	PRIMARY KEY(run_id, record_id, kind, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_record_terms_term ON record_terms(kind, term);

CREATE TABLE IF NOT EXISTS record_ratings (
	run_id TEXT NOT NULL,
	record_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	rating_key TEXT NOT NULL,
	value REAL,
	PRIMARY KEY(run_id, record_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS term_counts (
	run_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	position INTEGER NOT NULL,
	term TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, kind, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS area_rules (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	area TEXT NOT NULL,
	keywords TEXT NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// term kinds shared by record_terms and term_counts
const (
	kindHobby   = "hobby"
	kindArea    = "area"
	kindUnknown = "unknown"
)

// SaveRun writes r in one transaction, replacing a run with the same id
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run without id", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, r.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, schema_name, variant, input_file, started_at, skipped)
VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Schema), string(r.Variant), r.InputFile,
		r.StartedAt.UTC().Format(time.RFC3339Nano), r.Skipped)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := insertRecords(ctx, tx, r.ID, r.Records); err != nil {
		return err
	}
	if err := insertCounts(ctx, tx, r.ID, r); err != nil {
		return err
	}
	if err := insertRules(ctx, tx, r.ID, r.Rules); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRecords(ctx context.Context, tx *sql.Tx, runID string, records []assemble.Record) error {
	recStmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (run_id, id, alias, time_year, hobby_raw, about)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer recStmt.Close()

	termStmt, err := tx.PrepareContext(ctx, `
INSERT INTO record_terms (run_id, record_id, kind, position, term)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer termStmt.Close()

	ratingStmt, err := tx.PrepareContext(ctx, `
INSERT INTO record_ratings (run_id, record_id, position, rating_key, value)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ratingStmt.Close()

	for _, rec := range records {
		if _, err := recStmt.ExecContext(ctx, runID, rec.ID, rec.Alias, rec.TimeYear, rec.Raw, rec.About); err != nil {
			return fmt.Errorf("insert record %d: %w", rec.ID, err)
		}
		for kind, terms := range map[string][]string{
			kindHobby:   rec.Hobbies,
			kindArea:    rec.Areas,
			kindUnknown: rec.Unknown,
		} {
			for pos, term := range terms {
				if _, err := termStmt.ExecContext(ctx, runID, rec.ID, kind, pos, term); err != nil {
					return fmt.Errorf("insert record %d %s: %w", rec.ID, kind, err)
				}
			}
		}
		for pos, rt := range rec.Ratings {
			value := sql.NullFloat64{Float64: rt.Value, Valid: rt.Valid}
			if _, err := ratingStmt.ExecContext(ctx, runID, rec.ID, pos, rt.Key, value); err != nil {
				return fmt.Errorf("insert record %d rating %s: %w", rec.ID, rt.Key, err)
			}
		}
	}
	return nil
}

func insertCounts(ctx context.Context, tx *sql.Tx, runID string, r store.Run) error {
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO term_counts (run_id, kind, position, term, count)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, c := range r.AreaCounts {
		if _, err := stmt.ExecContext(ctx, runID, kindArea, pos, c.Area, c.Count); err != nil {
			return fmt.Errorf("insert area count: %w", err)
		}
	}
	for kind, counts := range map[string][]analytics.TermCount{
		kindHobby:   r.HobbyCounts,
		kindUnknown: r.Unknown,
	} {
		for pos, c := range counts {
			if _, err := stmt.ExecContext(ctx, runID, kind, pos, c.Term, c.Count); err != nil {
				return fmt.Errorf("insert %s count: %w", kind, err)
			}
		}
	}
	return nil
}

func insertRules(ctx context.Context, tx *sql.Tx, runID string, rules []ingest.AreaRule) error {
	for pos, rule := range rules {
		keywords, err := json.Marshal(rule.Keywords)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO area_rules (run_id, position, area, keywords) VALUES (?, ?, ?, ?)`,
			runID, pos, rule.Area, string(keywords)); err != nil {
			return fmt.Errorf("insert rule %s: %w", rule.Area, err)
		}
	}
	return nil
}

// LoadRun reads a run back in its saved order
func (s *sqliteStore) LoadRun(ctx context.Context, id string) (store.Run, error) {
	var (
		r         store.Run
		schema    string
		variant   string
		startedAt string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, schema_name, variant, input_file, started_at, skipped FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &schema, &variant, &r.InputFile, &startedAt, &r.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}
	r.Schema = assemble.Schema(schema)
	r.Variant = ingest.Variant(variant)
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return store.Run{}, fmt.Errorf("run %s started_at: %w", id, err)
	}

	if r.Records, err = loadRecords(ctx, s.db, id); err != nil {
		return store.Run{}, err
	}
	if err := loadCounts(ctx, s.db, &r); err != nil {
		return store.Run{}, err
	}
	if r.Rules, err = loadRules(ctx, s.db, id); err != nil {
		return store.Run{}, err
	}
	return r, nil
}

func loadRecords(ctx context.Context, db *sql.DB, runID string) ([]assemble.Record, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, alias, time_year, hobby_raw, about FROM records WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []assemble.Record
	index := make(map[int]int)
	for rows.Next() {
		var rec assemble.Record
		if err := rows.Scan(&rec.ID, &rec.Alias, &rec.TimeYear, &rec.Raw, &rec.About); err != nil {
			return nil, err
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	termRows, err := db.QueryContext(ctx, `
SELECT record_id, kind, term FROM record_terms WHERE run_id = ? ORDER BY record_id, kind, position`, runID)
	if err != nil {
		return nil, err
	}
	defer termRows.Close()
	for termRows.Next() {
		var (
			recID      int
			kind, term string
		)
		if err := termRows.Scan(&recID, &kind, &term); err != nil {
			return nil, err
		}
		i, ok := index[recID]
		if !ok {
			continue
		}
		switch kind {
		case kindHobby:
			records[i].Hobbies = append(records[i].Hobbies, term)
		case kindArea:
			records[i].Areas = append(records[i].Areas, term)
		case kindUnknown:
			records[i].Unknown = append(records[i].Unknown, term)
		}
	}
	if err := termRows.Err(); err != nil {
		return nil, err
	}

	ratingRows, err := db.QueryContext(ctx, `
SELECT record_id, rating_key, value FROM record_ratings WHERE run_id = ? ORDER BY record_id, position`, runID)
	if err != nil {
		return nil, err
	}
	defer ratingRows.Close()
	for ratingRows.Next() {
		var (
			recID int
			key   string
			value sql.NullFloat64
		)
		if err := ratingRows.Scan(&recID, &key, &value); err != nil {
			return nil, err
		}
		if i, ok := index[recID]; ok {
			records[i].Ratings = append(records[i].Ratings,
				survey.Rating{Key: key, Value: value.Float64, Valid: value.Valid})
		}
	}
	return records, ratingRows.Err()
}

func loadCounts(ctx context.Context, db *sql.DB, r *store.Run) error {
	rows, err := db.QueryContext(ctx, `
SELECT kind, term, count FROM term_counts WHERE run_id = ? ORDER BY kind, position`, r.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind, term string
			count      int
		)
		if err := rows.Scan(&kind, &term, &count); err != nil {
			return err
		}
		switch kind {
		case kindArea:
			r.AreaCounts = append(r.AreaCounts, analytics.AreaCount{Area: term, Count: count})
		case kindHobby:
			r.HobbyCounts = append(r.HobbyCounts, analytics.TermCount{Term: term, Count: count})
		case kindUnknown:
			r.Unknown = append(r.Unknown, analytics.TermCount{Term: term, Count: count})
		}
	}
	return rows.Err()
}

func loadRules(ctx context.Context, db *sql.DB, runID string) ([]ingest.AreaRule, error) {
	rows, err := db.QueryContext(ctx, `
SELECT area, keywords FROM area_rules WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []ingest.AreaRule
	for rows.Next() {
		var (
			rule     ingest.AreaRule
			keywords string
		)
		if err := rows.Scan(&rule.Area, &keywords); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(keywords), &rule.Keywords); err != nil {
			return nil, fmt.Errorf("rule %s keywords: %w", rule.Area, err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// ListRuns returns stored runs, oldest first
func (s *sqliteStore) ListRuns(ctx context.Context) ([]store.RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.schema_name, r.input_file, r.started_at,
	(SELECT COUNT(*) FROM records WHERE run_id = r.id)
FROM runs r ORDER BY r.started_at, r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RunInfo
	for rows.Next() {
		var (
			info      store.RunInfo
			schema    string
			startedAt string
		)
		if err := rows.Scan(&info.ID, &schema, &info.InputFile, &startedAt, &info.Records); err != nil {
			return nil, err
		}
		info.Schema = assemble.Schema(schema)
		if info.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
