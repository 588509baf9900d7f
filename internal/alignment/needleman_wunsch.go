package alignment

// NewNeedlemanWunschAligner creates a global aligner. Unless overridden by
// options it scores with Diagonal(2, -2), GapOpenCost -8 and
// GapExtensionCost -1.
func NewNeedlemanWunschAligner(opts ...Option) *Aligner {
	return newAligner(Global, opts...)
}

// globalLinear aligns the entire length of both sequences, charging gap for
// every gap symbol.
func globalLinear(p *profile, gap int, keepTable bool) *trace {
	m, n := len(p.first), len(p.second)

	H := newGrid(m, n)
	traceback := newDirections(m, n)

	// First row and column initialized with gap penalties
	for i := 1; i <= m; i++ {
		H[i][0] = i * gap
		traceback[i][0] = Up
	}
	for j := 1; j <= n; j++ {
		H[0][j] = j * gap
		traceback[0][j] = Left
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			diag := H[i-1][j-1] + p.score(i-1, j-1)
			up := H[i-1][j] + gap
			left := H[i][j-1] + gap

			// Ties resolve diagonal, then up, then left.
			best := diag
			direction := Diagonal

			if up > best {
				best = up
				direction = Up
			}
			if left > best {
				best = left
				direction = Left
			}

			H[i][j] = best
			traceback[i][j] = direction
		}
	}

	aligned1, aligned2 := tracebackGlobal(p.first, p.second, traceback, m, n)

	t := &trace{
		score:  H[m][n],
		first:  aligned1,
		second: aligned2,
		end1:   m,
		end2:   n,
	}
	if keepTable {
		t.table = H
	}
	return t
}

// tracebackGlobal walks from (m, n) back to the origin.
func tracebackGlobal(seq1, seq2 []byte, traceback [][]AlignDirection, m, n int) ([]byte, []byte) {
	aligned1 := make([]byte, 0, m+n)
	aligned2 := make([]byte, 0, m+n)
	i, j := m, n

	for i > 0 || j > 0 {
		switch traceback[i][j] {
		case Diagonal:
			aligned1 = append(aligned1, seq1[i-1])
			aligned2 = append(aligned2, seq2[j-1])
			i--
			j--
		case Up:
			aligned1 = append(aligned1, seq1[i-1])
			aligned2 = append(aligned2, gapSymbol)
			i--
		case Left:
			aligned1 = append(aligned1, gapSymbol)
			aligned2 = append(aligned2, seq2[j-1])
			j--
		default:
			i, j = 0, 0
		}
	}

	reverseBytes(aligned1)
	reverseBytes(aligned2)
	return aligned1, aligned2
}
