// Package reader loads the upstream step's CSV output into a column-indexed table.
package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrNoRows         = errors.New("table has no data rows")
	ErrColumnNotFound = errors.New("column not found")
	ErrNotInteger     = errors.New("value is not an integer")
)

// Table is a header plus its data rows. Short rows are padded with empty cells.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// Load reads dir/name as a comma-delimited file with a header row.
func Load(dir, name string) (*Table, error) {
	path := filepath.Join(dir, name)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	return t, nil
}

func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ','
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}

	t := &Table{
		header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		t.header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields, header has %d", line, len(rec), len(header))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		t.rows = append(t.rows, rec)
	}

	return t, nil
}

func (t *Table) Columns() []string {
	return t.header
}

func (t *Table) Rows() int {
	return len(t.rows)
}

func (t *Table) Value(row int, column string) (string, error) {
	idx, ok := t.index[column]
	if !ok {
		return "", fmt.Errorf("%q: %w (have %s)", column, ErrColumnNotFound, strings.Join(t.header, ", "))
	}
	if row < 0 || row >= len(t.rows) {
		if len(t.rows) == 0 {
			return "", ErrNoRows
		}
		return "", fmt.Errorf("row %d out of range (%d rows)", row, len(t.rows))
	}
	return t.rows[row][idx], nil
}

// FirstInt returns the column value on the first data row as an integer.
// Whole numbers parse directly; finite decimals are truncated toward zero.
func (t *Table) FirstInt(column string) (int64, error) {
	raw, err := t.Value(0, column)
	if err != nil {
		return 0, err
	}
	return ParseInteger(raw)
}

func ParseInteger(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty value: %w", ErrNotInteger)
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q: %w", raw, ErrNotInteger)
	}
	f = math.Trunc(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%q out of range: %w", raw, ErrNotInteger)
	}
	return int64(f), nil
}
