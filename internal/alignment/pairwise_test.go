package alignment

import (
	"errors"
	"testing"

	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aligned(t *testing.T, a1, a2 string, score int) *PairwiseAlignedSequence {
	t.Helper()
	p, err := NewPairwiseAlignedSequence(dna(t, a1), dna(t, a2), score)
	require.NoError(t, err)
	return p
}

func TestNewPairwiseAlignedSequence(t *testing.T) {
	p := aligned(t, "AT-GC", "ATGG-", 3)
	assert.Equal(t, 3, p.Score)
	assert.Equal(t, 5, p.Length())
	assert.Equal(t, 1, p.FirstInsertions)
	assert.Equal(t, 1, p.SecondInsertions)
	assert.Equal(t, 2, p.TotalGaps())
	assert.Equal(t, 3, p.IdenticalCount)
	assert.Equal(t, 4, p.FirstEnd)
	assert.Equal(t, 4, p.SecondEnd)

	_, err := NewPairwiseAlignedSequence(dna(t, "ACG"), dna(t, "AC"), 0)
	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))

	_, err = NewPairwiseAlignedSequence(nil, dna(t, "AC"), 0)
	require.True(t, errors.As(err, &argErr))
}

func TestAlignmentIdentity(t *testing.T) {
	tests := []struct {
		name     string
		aligned1 string
		aligned2 string
		want     float64
	}{
		{"perfect match", "ATGC", "ATGC", 1.0},
		{"50% match", "ATGC", "ATTT", 0.5},
		{"no match", "AAAA", "TTTT", 0.0},
		{"with gaps", "AT-GC", "ATGGC", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := aligned(t, tt.aligned1, tt.aligned2, 0)
			assert.InDelta(t, tt.want, a.Identity(), 0.0001)
		})
	}
}

func TestMatchAndMismatchCounts(t *testing.T) {
	a := aligned(t, "ATG-CA", "TTGACG", 0)
	assert.Equal(t, 3, a.MatchCount())
	assert.Equal(t, 2, a.MismatchCount())
	assert.Equal(t, ".|| |.", a.MatchLine())
}

func TestAlignmentCIGAR(t *testing.T) {
	tests := []struct {
		name     string
		aligned1 string
		aligned2 string
		want     string
	}{
		{"all match", "ATGC", "ATGC", "4M"},
		{"with mismatch", "ATGC", "ATGA", "3M1X"},
		{"with gap seq1", "AT-GC", "ATGGC", "2M1I2M"},
		{"with gap seq2", "ATGGC", "AT-GC", "2M1D2M"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := aligned(t, tt.aligned1, tt.aligned2, 0)
			assert.Equal(t, tt.want, a.ToCIGAR())
		})
	}
}

func TestGapOpenings(t *testing.T) {
	tests := []struct {
		name     string
		aligned1 string
		aligned2 string
		want     int
	}{
		{"no gaps", "ATGC", "ATGC", 0},
		{"one gap", "AT-GC", "ATGGC", 1},
		{"two gaps same seq", "AT--GC", "ATGGGC", 1},
		{"two gaps diff seq", "AT-GC-", "ATGG-C", 3}, // 2 gaps in seq1 (at pos 2 and 5), 1 gap in seq2 (at pos 4)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := aligned(t, tt.aligned1, tt.aligned2, 0)
			assert.Equal(t, tt.want, a.GapOpenings())
		})
	}
}

func TestFormat(t *testing.T) {
	a := aligned(t, "AT-GC", "ATGGC", 5)
	assert.Equal(t, "Seq1: AT-GC\n      || ||\nSeq2: ATGGC\nScore: 5\nIdentity: 80.0%\nCIGAR: 2M1I2M", a.Format())
	assert.Equal(t, "PairwiseAlignedSequence { score: 5, identity: 80.0%, length: 5 }", a.String())
}

func TestPairwiseSequenceAlignmentAdd(t *testing.T) {
	s1, s2 := dna(t, "ACGT"), dna(t, "AGT")
	res := NewPairwiseSequenceAlignment(s1, s2)
	p := aligned(t, "ACGT", "A-GT", 2)

	require.NoError(t, res.Add(p))
	assert.Equal(t, 1, res.Count())
	assert.Equal(t, 0, res.AlignedSequenceCount())
	assert.True(t, res.Contains(p))
	assert.Same(t, p, res.At(0))

	require.NoError(t, res.AddSequence(p))
	assert.Equal(t, 1, res.Count())
	assert.Equal(t, 2, res.AlignedSequenceCount())
	assert.Equal(t, []*sequence.Sequence{p.FirstSequence, p.SecondSequence}, res.AlignedSequences())

	var argErr *ArgumentError
	require.True(t, errors.As(res.Add(nil), &argErr))
	require.True(t, errors.As(res.AddSequence(nil), &argErr))
}

func TestPairwiseSequenceAlignmentRemoveAndClear(t *testing.T) {
	res := NewPairwiseSequenceAlignment(nil, nil)
	p1 := aligned(t, "ACGT", "ACGT", 8)
	p2 := aligned(t, "AC", "AG", 0)
	require.NoError(t, res.Add(p1))
	require.NoError(t, res.Add(p2))
	require.NoError(t, res.AddSequence(p1))

	removed, err := res.Remove(p1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, res.Contains(p1))
	assert.Equal(t, []*PairwiseAlignedSequence{p2}, res.All())

	removed, err = res.Remove(p1)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, res.Clear())
	assert.Equal(t, 0, res.Count())
	assert.Equal(t, 0, res.AlignedSequenceCount())
	assert.Nil(t, res.FirstSequence())
	assert.Nil(t, res.SecondSequence())
}

func TestPairwiseSequenceAlignmentCopyTo(t *testing.T) {
	res := &PairwiseSequenceAlignment{}
	p1 := aligned(t, "ACGT", "ACGT", 8)
	p2 := aligned(t, "AC", "AG", 0)
	require.NoError(t, res.Add(p1))
	require.NoError(t, res.Add(p2))

	dst := make([]*PairwiseAlignedSequence, 3)
	require.NoError(t, res.CopyTo(dst, 1))
	assert.Nil(t, dst[0])
	assert.Same(t, p1, dst[1])
	assert.Same(t, p2, dst[2])

	var argErr *ArgumentError
	require.True(t, errors.As(res.CopyTo(dst, 2), &argErr))
	require.True(t, errors.As(res.CopyTo(dst, -1), &argErr))
	require.True(t, errors.As(res.CopyTo(nil, 0), &argErr))
}

func TestPairwiseSequenceAlignmentReadOnly(t *testing.T) {
	res := NewPairwiseSequenceAlignment(nil, nil)
	p := aligned(t, "ACGT", "ACGT", 8)
	require.NoError(t, res.Add(p))
	res.ReadOnly = true

	assert.ErrorIs(t, res.Add(p), ErrReadOnly)
	assert.ErrorIs(t, res.AddSequence(p), ErrReadOnly)
	assert.ErrorIs(t, res.Clear(), ErrReadOnly)
	_, err := res.Remove(p)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Equal(t, 1, res.Count())

	// Reads still work.
	dst := make([]*PairwiseAlignedSequence, 1)
	require.NoError(t, res.CopyTo(dst, 0))
	assert.True(t, res.Contains(p))
}

func TestAllReturnsCopy(t *testing.T) {
	res := NewPairwiseSequenceAlignment(nil, nil)
	require.NoError(t, res.Add(aligned(t, "AC", "AC", 4)))

	all := res.All()
	all[0] = nil
	assert.NotNil(t, res.At(0))
	assert.Len(t, res.PairwiseAlignedSequences(), 1)
}

func TestBestAndString(t *testing.T) {
	res := NewPairwiseSequenceAlignment(nil, nil)
	assert.Nil(t, res.Best())
	assert.Equal(t, "", res.String())

	low := aligned(t, "AC", "AG", 0)
	high := aligned(t, "AC", "AC", 4)
	tie := aligned(t, "GG", "GG", 4)
	for _, p := range []*PairwiseAlignedSequence{low, high, tie} {
		require.NoError(t, res.Add(p))
	}

	assert.Same(t, high, res.Best())
	assert.Contains(t, res.String(), "Score: 4")
}
