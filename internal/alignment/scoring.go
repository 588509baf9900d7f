// Package alignment provides pairwise sequence alignment.
//
// Needleman-Wunsch (global) and Smith-Waterman (local) share one dynamic
// programming engine selected by Mode. Both support a linear gap model, where
// every gap symbol costs GapOpenCost, and an affine (Gotoh) model, where a gap
// run costs GapOpenCost for its first symbol and GapExtensionCost for each
// further one.
package alignment

import (
	"fmt"

	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/internal/similarity"
)

// AlignDirection represents the traceback direction in the alignment matrix.
type AlignDirection uint8

const (
	// Stop represents the end of alignment (local only)
	Stop AlignDirection = iota
	// Diagonal represents a match or mismatch
	Diagonal
	// Up represents a gap in sequence 2
	Up
	// Left represents a gap in sequence 1
	Left
)

// Mode selects global or local alignment.
type Mode int

const (
	// Local represents Smith-Waterman local alignment
	Local Mode = iota
	// Global represents Needleman-Wunsch global alignment
	Global
)

func (m Mode) String() string {
	switch m {
	case Local:
		return "local"
	case Global:
		return "global"
	default:
		return "unknown"
	}
}

// Default scoring used by the aligner constructors.
const (
	DefaultMatch            = 2
	DefaultMismatch         = -2
	DefaultGapOpenCost      = -8
	DefaultGapExtensionCost = -1
)

// DefaultMatrix returns the diagonal matrix used when none is configured.
func DefaultMatrix() similarity.Matrix {
	return similarity.NewDiagonal(DefaultMatch, DefaultMismatch)
}

// profile caches substitution scores for the symbols of one input pair, so the
// fill loops index a flat slice instead of calling the matrix per cell.
type profile struct {
	first  []byte
	second []byte
	codes1 []int
	codes2 []int
	k      int
	scores []int
}

func newProfile(m similarity.Matrix, s1, s2 sequence.Seq) (*profile, error) {
	p := &profile{
		first:  normalized(s1),
		second: normalized(s2),
	}

	var code [256]int
	for i := range code {
		code[i] = -1
	}
	var symbols []byte
	encode := func(seq []byte) []int {
		out := make([]int, len(seq))
		for i, c := range seq {
			if code[c] < 0 {
				code[c] = len(symbols)
				symbols = append(symbols, c)
			}
			out[i] = code[c]
		}
		return out
	}
	p.codes1 = encode(p.first)
	p.codes2 = encode(p.second)

	p.k = len(symbols)
	p.scores = make([]int, p.k*p.k)
	for i, a := range symbols {
		for j, b := range symbols {
			s, err := m.Score(a, b)
			if err != nil {
				return nil, fmt.Errorf("scoring %c/%c: %w", a, b, err)
			}
			p.scores[i*p.k+j] = s
		}
	}
	return p, nil
}

// score returns the substitution score of first[i] against second[j] (0-based).
func (p *profile) score(i, j int) int {
	return p.scores[p.codes1[i]*p.k+p.codes2[j]]
}

func normalized(s sequence.Seq) []byte {
	out := make([]byte, s.Len())
	for i := range out {
		out[i] = sequence.Normalize(s.At(i))
	}
	return out
}

// trace is the raw outcome of one fill + traceback.
type trace struct {
	score         int
	first, second []byte
	start1, end1  int
	start2, end2  int
	table         [][]int
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func newGrid(m, n int) [][]int {
	cells := make([]int, (m+1)*(n+1))
	grid := make([][]int, m+1)
	for i := range grid {
		grid[i] = cells[i*(n+1) : (i+1)*(n+1)]
	}
	return grid
}

func newDirections(m, n int) [][]AlignDirection {
	cells := make([]AlignDirection, (m+1)*(n+1))
	grid := make([][]AlignDirection, m+1)
	for i := range grid {
		grid[i] = cells[i*(n+1) : (i+1)*(n+1)]
	}
	return grid
}
