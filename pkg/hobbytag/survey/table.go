package survey

import (
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
)

// ErrNoData is returned when a CSV has no data row after its header
var ErrNoData = internalerr.ErrNoData

// MissingColumnError lists required columns absent from a CSV header
type MissingColumnError struct {
	Missing []string
	Headers []string
}

func (e *MissingColumnError) Error() string {
	quoted := make([]string, len(e.Headers))
	for i, h := range e.Headers {
		quoted[i] = fmt.Sprintf("%q", h)
	}
	return fmt.Sprintf("missing required column: %s (headers: [%s])",
		strings.Join(e.Missing, ", "), strings.Join(quoted, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return internalerr.ErrMissingColumn
}

// Row is one data row. Cells beyond the row's length read as "".
type Row []string

// Cell returns the cell at i, or "" when the row is short or i is negative
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// IsBlank reports whether every cell is empty after trimming
func (r Row) IsBlank() bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Table is a parsed survey export: trimmed header plus its non-blank data
// rows in file order.
type Table struct {
	Header  []string
	Rows    []Row
	Skipped int // entirely blank rows dropped after the header
}

// NewTable builds a table from raw rows. Blank rows are dropped first, then
// the first remaining row is the header; ErrNoData when no data row is left.
func NewTable(rows [][]string) (*Table, error) {
	t := &Table{}
	var kept []Row
	for _, raw := range rows {
		row := Row(raw)
		if row.IsBlank() {
			if len(kept) > 0 {
				t.Skipped++
			}
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) < 2 {
		return nil, ErrNoData
	}

	t.Header = make([]string, len(kept[0]))
	for i, h := range kept[0] {
		t.Header[i] = strings.TrimSpace(h)
	}
	t.Rows = kept[1:]
	return t, nil
}

// LoadTable reads and parses a CSV file
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	defer f.Close()

	rows, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	t, err := NewTable(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Index returns the position of the header exactly equal to name after
// trimming, or -1.
func (t *Table) Index(name string) int {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Require resolves every named column, reporting all missing ones at once
func (t *Table) Require(names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	var missing []string
	for _, name := range names {
		i := t.Index(name)
		if i < 0 {
			missing = append(missing, name)
			continue
		}
		idx[name] = i
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Missing: missing, Headers: append([]string(nil), t.Header...)}
	}
	return idx, nil
}

// ColumnsWithPrefix returns the indexes of headers starting with prefix,
// compared case-insensitively, in header order.
func (t *Table) ColumnsWithPrefix(prefix string) []int {
	prefix = strings.ToLower(prefix)
	var out []int
	for i, h := range t.Header {
		if strings.HasPrefix(strings.ToLower(h), prefix) {
			out = append(out, i)
		}
	}
	return out
}
