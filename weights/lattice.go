// SPDX-License-Identifier: MIT

package weights

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// neighborOffsets returns the (dx, dy) steps for the contiguity rule.
func neighborOffsets(c Contiguity) ([][2]int, error) {
	switch c {
	case Rook:
		return [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}, nil
	case Queen:
		return [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}, nil
	default:
		return nil, errors.Wrapf(ErrBadLattice, "contiguity %v", c)
	}
}

// Lattice builds contiguity weights for a rows×cols regular grid.
// Cell (x, y) gets ID strconv.Itoa(y*cols + x), so IDs follow row-major order.
// Returns ErrBadLattice if rows or cols is not positive.
// Complexity: O(rows·cols·d), d = 4 or 8.
func Lattice(rows, cols int, c Contiguity, opts ...Option) (*W, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrBadLattice, "%dx%d", rows, cols)
	}
	offsets, err := neighborOffsets(c)
	if err != nil {
		return nil, err
	}
	n := rows * cols
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	inBounds := func(x, y int) bool { return x >= 0 && x < cols && y >= 0 && y < rows }

	nbs := make(map[string][]string, n)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			u := ids[y*cols+x]
			for _, d := range offsets {
				nx, ny := x+d[0], y+d[1]
				if !inBounds(nx, ny) {
					continue
				}
				nbs[u] = append(nbs[u], ids[ny*cols+nx])
			}
		}
	}

	return New(ids, nbs, opts...)
}
