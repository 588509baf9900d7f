package alignment

// NewSmithWatermanAligner creates a local aligner. Unless overridden by
// options it scores with Diagonal(2, -2), GapOpenCost -8 and
// GapExtensionCost -1.
func NewSmithWatermanAligner(opts ...Option) *Aligner {
	return newAligner(Local, opts...)
}

// localLinear finds the best-scoring local alignment, charging gap for every
// gap symbol. Cells that would score 0 or less become traceback stops.
func localLinear(p *profile, gap int, keepTable bool) *trace {
	m, n := len(p.first), len(p.second)

	H := newGrid(m, n)
	traceback := newDirections(m, n)

	// Track maximum score and position; the first maximum in row-major
	// order wins.
	maxScore := 0
	maxI, maxJ := 0, 0

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			diag := H[i-1][j-1] + p.score(i-1, j-1)
			up := H[i-1][j] + gap
			left := H[i][j-1] + gap

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
			if best <= 0 {
				best = 0
				direction = Stop
			}

			H[i][j] = best
			traceback[i][j] = direction

			if best > maxScore {
				maxScore = best
				maxI, maxJ = i, j
			}
		}
	}

	t := &trace{score: maxScore}
	if keepTable {
		t.table = H
	}
	if maxScore == 0 {
		t.first, t.second = []byte{}, []byte{}
		return t
	}

	aligned1, aligned2, start1, start2 := tracebackLocal(p.first, p.second, traceback, maxI, maxJ)
	t.first, t.second = aligned1, aligned2
	t.start1, t.end1 = start1, maxI
	t.start2, t.end2 = start2, maxJ
	return t
}

// tracebackLocal walks back from (startI, startJ) to the first stop cell and
// returns the aligned symbols plus the 0-based start in each input.
func tracebackLocal(seq1, seq2 []byte, traceback [][]AlignDirection,
	startI, startJ int) ([]byte, []byte, int, int) {
	var aligned1, aligned2 []byte
	i, j := startI, startJ

	for i > 0 && j > 0 {
		direction := traceback[i][j]
		if direction == Stop {
			break
		}

		switch direction {
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
		}
	}

	reverseBytes(aligned1)
	reverseBytes(aligned2)
	return aligned1, aligned2, i, j
}
