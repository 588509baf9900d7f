package alignment

import "math"

// Affine fills keep three grids: M ends in an aligned pair, Ix ends with a
// symbol of the first sequence against a gap, Iy ends with a gap against a
// symbol of the second sequence.
type state uint8

const (
	stateStart state = iota
	stateM
	stateIx
	stateIy
)

// negInf marks unreachable cells. It stays far from overflow after adding
// a cost.
const negInf = math.MinInt32 / 2

type gotohGrids struct {
	M, Ix, Iy    [][]int
	pM, pIx, pIy [][]state
}

func newStates(m, n int) [][]state {
	cells := make([]state, (m+1)*(n+1))
	grid := make([][]state, m+1)
	for i := range grid {
		grid[i] = cells[i*(n+1) : (i+1)*(n+1)]
	}
	return grid
}

// best3 returns the largest of the M, Ix and Iy candidates, preferring them
// in that order on ties.
func best3(m, x, y int) (int, state) {
	best, from := m, stateM
	if x > best {
		best, from = x, stateIx
	}
	if y > best {
		best, from = y, stateIy
	}
	return best, from
}

// affine runs the Gotoh recurrences. A gap state may also be entered from the
// opposite gap state at the opening cost.
func affine(mode Mode, p *profile, open, ext int, keepTable bool) *trace {
	m, n := len(p.first), len(p.second)
	g := &gotohGrids{
		M: newGrid(m, n), Ix: newGrid(m, n), Iy: newGrid(m, n),
		pM: newStates(m, n), pIx: newStates(m, n), pIy: newStates(m, n),
	}

	g.Ix[0][0], g.Iy[0][0] = negInf, negInf
	for i := 1; i <= m; i++ {
		g.M[i][0], g.Iy[i][0] = negInf, negInf
		if mode == Global {
			g.Ix[i][0] = open + (i-1)*ext
			g.pIx[i][0] = stateIx
			if i == 1 {
				g.pIx[i][0] = stateM
			}
		} else {
			g.Ix[i][0] = negInf
		}
	}
	for j := 1; j <= n; j++ {
		g.M[0][j], g.Ix[0][j] = negInf, negInf
		if mode == Global {
			g.Iy[0][j] = open + (j-1)*ext
			g.pIy[0][j] = stateIy
			if j == 1 {
				g.pIy[0][j] = stateM
			}
		} else {
			g.Iy[0][j] = negInf
		}
	}

	maxScore := 0
	maxI, maxJ := 0, 0
	maxState := stateStart

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			var prev int
			var from state
			if mode == Local {
				prev, from = 0, stateStart
				if v := g.M[i-1][j-1]; v > prev {
					prev, from = v, stateM
				}
				if v := g.Ix[i-1][j-1]; v > prev {
					prev, from = v, stateIx
				}
				if v := g.Iy[i-1][j-1]; v > prev {
					prev, from = v, stateIy
				}
			} else {
				prev, from = best3(g.M[i-1][j-1], g.Ix[i-1][j-1], g.Iy[i-1][j-1])
			}
			g.M[i][j] = prev + p.score(i-1, j-1)
			g.pM[i][j] = from

			g.Ix[i][j], g.pIx[i][j] = best3(g.M[i-1][j]+open, g.Ix[i-1][j]+ext, g.Iy[i-1][j]+open)
			g.Iy[i][j], g.pIy[i][j] = best3(g.M[i][j-1]+open, g.Ix[i][j-1]+open, g.Iy[i][j-1]+ext)

			if mode == Local {
				if h, s := best3(g.M[i][j], g.Ix[i][j], g.Iy[i][j]); h > maxScore {
					maxScore, maxState = h, s
					maxI, maxJ = i, j
				}
			}
		}
	}

	t := &trace{}
	if keepTable {
		t.table = g.collapse(mode)
	}

	if mode == Global {
		score, s := best3(g.M[m][n], g.Ix[m][n], g.Iy[m][n])
		t.score = score
		t.first, t.second, _, _ = g.traceback(p, s, m, n)
		t.end1, t.end2 = m, n
		return t
	}

	t.score = maxScore
	if maxScore == 0 {
		t.first, t.second = []byte{}, []byte{}
		return t
	}
	t.first, t.second, t.start1, t.start2 = g.traceback(p, maxState, maxI, maxJ)
	t.end1, t.end2 = maxI, maxJ
	return t
}

// traceback follows the state pointers from (i, j) until the origin (global)
// or a start pointer (local).
func (g *gotohGrids) traceback(p *profile, s state, i, j int) ([]byte, []byte, int, int) {
	aligned1 := make([]byte, 0, i+j)
	aligned2 := make([]byte, 0, i+j)

	for s != stateStart && (i > 0 || j > 0) {
		var next state
		switch s {
		case stateM:
			next = g.pM[i][j]
			aligned1 = append(aligned1, p.first[i-1])
			aligned2 = append(aligned2, p.second[j-1])
			i--
			j--
		case stateIx:
			next = g.pIx[i][j]
			aligned1 = append(aligned1, p.first[i-1])
			aligned2 = append(aligned2, gapSymbol)
			i--
		case stateIy:
			next = g.pIy[i][j]
			aligned1 = append(aligned1, gapSymbol)
			aligned2 = append(aligned2, p.second[j-1])
			j--
		}
		s = next
	}

	reverseBytes(aligned1)
	reverseBytes(aligned2)
	return aligned1, aligned2, i, j
}

// collapse merges the three grids into the single best-score grid used for
// score table rendering.
func (g *gotohGrids) collapse(mode Mode) [][]int {
	m, n := len(g.M)-1, len(g.M[0])-1
	H := newGrid(m, n)
	for i := 0; i <= m; i++ {
		for j := 0; j <= n; j++ {
			h, _ := best3(g.M[i][j], g.Ix[i][j], g.Iy[i][j])
			if mode == Local && h < 0 {
				h = 0
			}
			H[i][j] = h
		}
	}
	return H
}
