package bioflow

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignGlobal(t *testing.T) {
	s1, err := NewSequence("ACGTACGT")
	require.NoError(t, err)
	s2, err := NewSequence("ACGACGT")
	require.NoError(t, err)

	res, err := AlignGlobal(s1, s2)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Best().Score)
	assert.Equal(t, "ACG-ACGT", res.Best().SecondSequence.String())
}

func TestAlignLocalWithMatrix(t *testing.T) {
	m, err := StandardMatrix("blosum62")
	require.NoError(t, err)

	s1, err := NewProteinSequence("HEAGAWGHEE")
	require.NoError(t, err)
	s2, err := NewProteinSequence("PAWHEAE")
	require.NoError(t, err)

	aligner := NewSmithWatermanAligner(WithSimilarityMatrix(m), WithGapOpenCost(-8))
	res, err := aligner.AlignSimple(s1, s2)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Best().Score)
	assert.Equal(t, Local, res.Best().Mode)
}

func TestErrorAliases(t *testing.T) {
	s1, err := NewSequence("ACGT")
	require.NoError(t, err)
	s2, err := NewRNASequence("ACGU")
	require.NoError(t, err)

	_, err = Align(s1, s2)
	var alphaErr *NonMatchingAlphabetError
	require.True(t, errors.As(err, &alphaErr))

	_, err = ParseMatrix(strings.NewReader(""))
	var emptyErr *EmptyMatrixError
	require.True(t, errors.As(err, &emptyErr))
}

func TestParseSequences(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		ids     []string
		symbols []string
	}{
		{
			"fasta",
			">a first record\nACGT\nAC\n\n>b\nGGT\n",
			[]string{"a", "b"},
			[]string{"ACGTAC", "GGT"},
		},
		{
			"plain list",
			"# pairs\nacgt\n\nGGTA\n",
			[]string{"seq1", "seq2"},
			[]string{"ACGT", "GGTA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs, err := ParseSequences(strings.NewReader(tt.input), DNA)
			require.NoError(t, err)
			require.Len(t, seqs, len(tt.ids))
			for i, s := range seqs {
				assert.Equal(t, tt.ids[i], s.ID())
				assert.Equal(t, tt.symbols[i], s.String())
			}
		})
	}
}

func TestParseSequencesDescription(t *testing.T) {
	seqs, err := ParseSequences(strings.NewReader(">a first record\nACGT\n"), DNA)
	require.NoError(t, err)
	assert.Equal(t, "first record", seqs[0].Description())
}

func TestParseSequencesInvalid(t *testing.T) {
	_, err := ParseSequences(strings.NewReader("ACGT\nACXT\n"), DNA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	var seqErr *InvalidSequenceError
	assert.True(t, errors.As(err, &seqErr))

	_, err = ParseSequences(strings.NewReader(">p\nACEE\n"), DNA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `record "p"`)
}

func TestReadSequences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fa")
	require.NoError(t, os.WriteFile(path, []byte(">p1\nMKV\n>p2\nMKIV\n"), 0o644))

	seqs, err := ReadSequences(path, Protein)
	require.NoError(t, err)
	require.Len(t, seqs, 2)
	assert.Equal(t, "MKIV", seqs[1].String())

	_, err = ReadSequences(filepath.Join(t.TempDir(), "nope.fa"), Protein)
	require.Error(t, err)
}

func TestWriteAlignedFASTA(t *testing.T) {
	s1, err := NewSequenceWithID(DNA, "ACGTACGT", "x")
	require.NoError(t, err)
	s2, err := NewSequence("ACGACGT")
	require.NoError(t, err)

	res, err := AlignGlobal(s1, s2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteAlignedFASTA(&buf, []*PairwiseSequenceAlignment{res}))
	assert.Equal(t, ">x score=6\nACGTACGT\n>aln1_1_2 score=6\nACG-ACGT\n", buf.String())
}

func TestSummarizeAlignments(t *testing.T) {
	seqs := make([]Seq, 0, 4)
	for _, s := range []string{"ACGT", "ACGT", "ACGTAC", "ACGTTT"} {
		seq, err := NewSequence(s)
		require.NoError(t, err)
		seqs = append(seqs, seq)
	}

	results, err := NewSmithWatermanAligner().AlignSimpleList(seqs)
	require.NoError(t, err)

	summary, err := SummarizeAlignments(results)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 8, summary.MaxScore)

	setStats, err := SummarizeSequences(seqs)
	require.NoError(t, err)
	assert.Equal(t, 20, setStats.TotalSymbols)
}

func TestInfo(t *testing.T) {
	assert.Contains(t, Info(), Version())
	assert.Contains(t, Info(), "Smith-Waterman")
}
