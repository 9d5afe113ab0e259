// SPDX-License-Identifier: MIT

package weights

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ReadGAL parses a GAL contiguity file.
//
// Layout:
//
//	N                      (or "0 N <source> <id-variable>")
//	<id> <cardinality>
//	<neighbor-id> ...      (one line, possibly empty when cardinality is 0)
//	...
//
// Unit order follows the file. Options are forwarded to New.
func ReadGAL(r io.Reader, opts ...Option) (*W, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return strings.TrimSpace(sc.Text()), true
	}

	header, ok := next()
	for ok && header == "" {
		header, ok = next()
	}
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "weights: read GAL")
		}
		return nil, errors.Wrap(ErrGALFormat, "missing header")
	}
	fields := strings.Fields(header)
	var nField string
	switch len(fields) {
	case 1:
		nField = fields[0]
	case 4:
		nField = fields[1]
	default:
		return nil, errors.Wrapf(ErrGALFormat, "line %d: header %q", line, header)
	}
	n, err := strconv.Atoi(nField)
	if err != nil || n <= 0 {
		return nil, errors.Wrapf(ErrGALFormat, "line %d: unit count %q", line, nField)
	}

	ids := make([]string, 0, n)
	nbs := make(map[string][]string, n)
	for len(ids) < n {
		rec, ok := next()
		if !ok {
			return nil, errors.Wrapf(ErrGALFormat, "expected %d units, got %d", n, len(ids))
		}
		if rec == "" {
			continue
		}
		f := strings.Fields(rec)
		if len(f) != 2 {
			return nil, errors.Wrapf(ErrGALFormat, "line %d: record %q", line, rec)
		}
		card, err := strconv.Atoi(f[1])
		if err != nil || card < 0 {
			return nil, errors.Wrapf(ErrGALFormat, "line %d: cardinality %q", line, f[1])
		}
		list, ok := next()
		if !ok && card > 0 {
			return nil, errors.Wrapf(ErrGALFormat, "line %d: missing neighbors of %q", line, f[0])
		}
		neighbors := strings.Fields(list)
		if len(neighbors) != card {
			return nil, errors.Wrapf(ErrGALFormat, "line %d: %q declares %d neighbors, lists %d", line, f[0], card, len(neighbors))
		}
		ids = append(ids, f[0])
		if card > 0 {
			nbs[f[0]] = neighbors
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "weights: read GAL")
	}

	return New(ids, nbs, opts...)
}

// WriteGAL writes w's neighbor structure in GAL layout. Weights are not part
// of the format and are dropped.
func WriteGAL(out io.Writer, w *W) error {
	bw := bufio.NewWriter(out)
	if _, err := fmt.Fprintf(bw, "%d\n", w.N()); err != nil {
		return errors.Wrap(err, "weights: write GAL")
	}
	for i, id := range w.ids {
		names := make([]string, len(w.neighbors[i]))
		for k, j := range w.neighbors[i] {
			names[k] = w.ids[j]
		}
		if _, err := fmt.Fprintf(bw, "%s %d\n%s\n", id, len(names), strings.Join(names, " ")); err != nil {
			return errors.Wrap(err, "weights: write GAL")
		}
	}
	return errors.Wrap(bw.Flush(), "weights: write GAL")
}
