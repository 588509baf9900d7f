package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/internal/similarity"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAlignCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			"global defaults",
			[]string{"global", "ACGTACGT", "ACGACGT"},
			[]string{"Needleman-Wunsch (global, diagonal(2,-2), gap -8)", "Seq1: ACGTACGT", "Seq2: ACG-ACGT", "Score: 6", "CIGAR: 3M1D4M", "Region: first 1-8, second 1-7"},
		},
		{
			"local blosum62",
			[]string{"local", "-a", "protein", "--matrix", "blosum62", "HEAGAWGHEE", "PAWHEAE"},
			[]string{"Smith-Waterman (local, BLOSUM62, gap -8)", "Seq1: AWGHE", "Seq2: AW-HE", "Score: 20", "Region: first 5-9, second 2-5"},
		},
		{
			"global affine",
			[]string{"global", "--affine", "-o", "-5", "-e", "-1", "AAAAGGGTTT", "AAAATTT"},
			[]string{"gap open -5, extension -1", "Seq2: AAAA---TTT", "Score: 7"},
		},
		{
			"local without similarity",
			[]string{"local", "AAAA", "TTTT"},
			[]string{"No similar region found", "Score: 0"},
		},
		{
			"score table",
			[]string{"global", "--table", "--match", "1", "--mismatch", "-1", "-o", "-1", "AC", "A"},
			[]string{"Score: 0", "\t\tA\n\t0\t-1\nA\t-1\t1\nC\t-2\t0\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestAlignCommandErrors(t *testing.T) {
	_, _, err := run(t, "global", "ACGT")
	require.Error(t, err)

	_, _, err = run(t, "global", "ACXT", "ACGT")
	var seqErr *sequence.InvalidSequenceError
	require.True(t, errors.As(err, &seqErr), "got %v", err)
	assert.Contains(t, err.Error(), "sequence 1")

	_, _, err = run(t, "global", "-o", "3", "ACGT", "ACGT")
	var costErr *alignment.ConfigurationError
	require.True(t, errors.As(err, &costErr), "got %v", err)

	_, _, err = run(t, "global", "--matrix", "dna", "ACGR", "ACGT")
	var alphaErr *alignment.NonMatchingAlphabetError
	require.True(t, errors.As(err, &alphaErr), "got %v", err)

	_, _, err = run(t, "global", "--matrix", filepath.Join(t.TempDir(), "missing.txt"), "ACGT", "ACGT")
	require.Error(t, err)

	_, _, err = run(t, "local", "-a", "klingon", "ACGT", "ACGT")
	require.Error(t, err)
}

func TestVerboseLogsRejections(t *testing.T) {
	_, stderr, err := run(t, "-v", "global", "AC-T", "ACGT")
	require.Error(t, err)
	assert.Contains(t, stderr, "bioflow-align: Needleman-Wunsch: rejected input")

	_, stderr, err = run(t, "global", "AC-T", "ACGT")
	require.Error(t, err)
	assert.Empty(t, stderr)
}

func TestSequenceFromFile(t *testing.T) {
	path := writeFile(t, "one.fa", ">q first\nACGT\nACGT\n>r\nTTTT\n")

	out, _, err := run(t, "global", "@"+path, "ACGACGT")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 6")

	_, _, err = run(t, "global", "@"+writeFile(t, "empty.txt", "# nothing\n"), "ACGT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sequences")
}

func TestConfigFileAndOverrides(t *testing.T) {
	path := writeFile(t, "bioflow.yaml", "align:\n  gap-open: -5\n  gap-extension: -1\n  affine: true\n")

	out, _, err := run(t, "--config", path, "global", "AAAAGGGTTT", "AAAATTT")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 7")

	// flags win over the file
	out, _, err = run(t, "--config", path, "-o", "-8", "global", "AAAAGGGTTT", "AAAATTT")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 4")

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "global", "ACGT", "ACGT")
	require.Error(t, err)
}

func TestEnvironmentSettings(t *testing.T) {
	t.Setenv("BIOFLOW_ALIGN_GAP_OPEN", "-5")

	out, _, err := run(t, "global", "--affine", "AAAAGGGTTT", "AAAATTT")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 7")
}

func TestBatchCommand(t *testing.T) {
	out, _, err := run(t, "batch", "ACGT", "ACGT", "AAAA", "TTTT")
	require.NoError(t, err)

	assert.Contains(t, out, "#1\t#2\tscore=8\tidentity=100.0%\tcigar=4M\n")
	assert.Contains(t, out, "#3\t#4\tscore=0\tidentity=0.0%\tcigar=\n")
	assert.Contains(t, out, "aligned 2 pairs (50 DP cells)")
	assert.Contains(t, out, "count: 2")
	assert.Contains(t, out, "empty: 1")
}

func TestBatchFromFile(t *testing.T) {
	input := writeFile(t, "in.fa", ">a\nACGTACGT\n>b\nACGACGT\n>c\nACGT\n")
	output := filepath.Join(t.TempDir(), "out.fa")

	out, _, err := run(t, "batch", "--pairing", "all", "--mode", "global", "-j", "2",
		"-i", input, "-O", output, "--histogram", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "a\tb\tscore=6\t")
	assert.Contains(t, out, "a\tc\t")
	assert.Contains(t, out, "b\tc\t")
	assert.Contains(t, out, "aligned 3 pairs")
	assert.Contains(t, out, "Identity Histogram:")

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(written), ">a score=6\nACGTACGT\n>b score=6\nACG-ACGT\n"), string(written))
	assert.Equal(t, 6, strings.Count(string(written), ">"))
}

func TestBatchErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"odd sequential", []string{"batch", "ACGT", "ACGT", "ACGT"}},
		{"too few", []string{"batch", "ACGT"}},
		{"args and input", []string{"batch", "-i", "x.fa", "ACGT", "ACGT"}},
		{"bad pairing", []string{"batch", "--pairing", "random", "ACGT", "ACGT"}},
		{"bad mode", []string{"batch", "--mode", "semi", "ACGT", "ACGT"}},
		{"bad symbol", []string{"batch", "ACGT", "AXGT"}},
		{"missing input", []string{"batch", "-i", "/does/not/exist.fa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestMatrixCommand(t *testing.T) {
	out, _, err := run(t, "matrix")
	require.NoError(t, err)
	assert.Contains(t, out, "blosum62\t24 symbols\tARNDCQEGHILKMFPSTWYVBZX*\n")
	assert.Contains(t, out, "dna\t5 symbols\tACGTN\n")

	out, _, err = run(t, "matrix", "--print", "DNA")
	require.NoError(t, err)
	assert.Contains(t, out, "name: DNA\n")
	assert.Contains(t, out, "symmetric: true\n")
	assert.Contains(t, out, "A   5  -4  -4  -4  -2\n")

	path := writeFile(t, "toy.txt", "name: toy\n  A  C\nA  1 -2\nC -1  1\n")
	out, _, err = run(t, "matrix", path)
	require.NoError(t, err)
	assert.Contains(t, out, "symbols: AC (2)")
	assert.Contains(t, out, "symmetric: false")

	_, _, err = run(t, "matrix", writeFile(t, "bad.txt", "  A  C\nA  1 -2\nC -1\n"))
	var formatErr *similarity.FormatError
	require.True(t, errors.As(err, &formatErr), "got %v", err)
	assert.Equal(t, 3, formatErr.Line)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "BioFlow v1.0.0")
}
