// SPDX-License-Identifier: MIT

package table

import (
	"bytes"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kshedden/datareader"
	"gonum.org/v1/gonum/mat"
)

// Table is an immutable set of equally long columns.
type Table struct {
	names  []string
	index  map[string]int
	series []*datareader.Series
	rows   int
}

// seriesReader is satisfied by the datareader CSV, Stata and SAS readers.
type seriesReader interface {
	Read(rows int) ([]*datareader.Series, error)
}

// ReadCSV parses r. The first record is the header; names are trimmed.
//
// Errors: ErrEmpty (no header or no data row), ErrDuplicateColumn,
// ErrParse (undecodable records).
func ReadCSV(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "table: read")
	}
	body := bytes.TrimSpace(raw)
	if len(body) == 0 {
		return nil, errors.Wrap(ErrEmpty, "missing header")
	}
	nl := bytes.IndexByte(body, '\n')
	if nl < 0 || len(bytes.TrimSpace(body[nl+1:])) == 0 {
		return nil, errors.Wrap(ErrEmpty, "no rows")
	}

	return load("csv", datareader.NewCSVReader(bytes.NewReader(raw)))
}

// ReadStata parses a Stata dta file (formats 115 to 118).
//
// Errors: ErrEmpty, ErrDuplicateColumn, ErrParse.
func ReadStata(r io.ReadSeeker) (*Table, error) {
	rdr, err := datareader.NewStataReader(r)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "stata header: %v", err)
	}
	return load("stata", rdr)
}

// ReadSAS parses a SAS7BDAT file.
//
// Errors: ErrEmpty, ErrDuplicateColumn, ErrParse.
func ReadSAS(r io.ReadSeeker) (*Table, error) {
	rdr, err := datareader.NewSAS7BDATReader(r)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "sas header: %v", err)
	}
	return load("sas", rdr)
}

// load reads every row of rdr. The reader panics on some malformed inputs;
// those panics surface as ErrParse.
func load(format string, rdr seriesReader) (t *Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, errors.Wrapf(ErrParse, "%s: %v", format, r)
		}
	}()

	series, err := rdr.Read(-1)
	if errors.Is(err, io.EOF) || (err == nil && len(series) == 0) {
		return nil, errors.Wrapf(ErrEmpty, "%s", format)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "%s: %v", format, err)
	}

	t = &Table{
		names:  make([]string, len(series)),
		index:  make(map[string]int, len(series)),
		series: make([]*datareader.Series, len(series)),
		rows:   series[0].Length(),
	}
	for j, s := range series {
		name := strings.TrimSpace(s.Name)
		if _, dup := t.index[name]; dup {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", name)
		}
		t.names[j] = name
		t.index[name] = j
		t.series[j] = s.UpcastNumeric()
	}
	if t.rows == 0 {
		return nil, errors.Wrapf(ErrEmpty, "%s: no rows", format)
	}

	return t, nil
}

// Names returns the column names in file order.
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Column returns a copy of the named numeric column.
//
// Errors: ErrUnknownColumn, ErrParse (text column or missing cell).
func (t *Table) Column(name string) ([]float64, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownColumn, "%q", name)
	}
	vals, missing, err := t.series[j].AsFloat64Slice()
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "column %q holds text", name)
	}
	for i, m := range missing {
		if m {
			return nil, errors.Wrapf(ErrParse, "column %q, row %d: missing or not a number", name, i+1)
		}
	}
	return append([]float64(nil), vals...), nil
}

// Columns returns the named columns side by side as a Len()×len(names) matrix.
func (t *Table) Columns(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, errors.Wrap(ErrUnknownColumn, "no columns requested")
	}
	m := mat.NewDense(t.Len(), len(names), nil)
	for j, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		m.SetCol(j, col)
	}
	return m, nil
}

