// Package bioflow provides a high-level API for pairwise sequence alignment.
//
// This package exposes the core BioFlow alignment functionality through a
// small API for callers outside this module.
//
// Example usage:
//
//	s1, err := bioflow.NewSequence("GCATGCT")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s2, _ := bioflow.NewSequence("GATTACA")
//
//	res, err := bioflow.AlignGlobal(s1, s2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Best().Format())
package bioflow

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/internal/similarity"
	"github.com/aria-lang/bioflow-align/internal/stats"
)

// Re-export types for convenience
type (
	Seq                       = sequence.Seq
	Sequence                  = sequence.Sequence
	Alphabet                  = sequence.Alphabet
	Matrix                    = similarity.Matrix
	Table                     = similarity.Table
	Diagonal                  = similarity.Diagonal
	Aligner                   = alignment.Aligner
	Option                    = alignment.Option
	Mode                      = alignment.Mode
	Pairing                   = alignment.Pairing
	PairwiseAlignedSequence   = alignment.PairwiseAlignedSequence
	PairwiseSequenceAlignment = alignment.PairwiseSequenceAlignment
	AlignmentStats            = stats.AlignmentStats
	SequenceSetStats          = stats.SequenceSetStats

	ArgumentError            = alignment.ArgumentError
	ConfigurationError       = alignment.ConfigurationError
	NonMatchingAlphabetError = alignment.NonMatchingAlphabetError
	InvalidSequenceError     = sequence.InvalidSequenceError
	FormatError              = similarity.FormatError
	EmptyMatrixError         = similarity.EmptyMatrixError
	InvalidAlphabetError     = similarity.InvalidAlphabetError
)

// Alphabets, modes and pairings
var (
	DNA     = sequence.DNA
	RNA     = sequence.RNA
	Protein = sequence.Protein
)

const (
	Global         = alignment.Global
	Local          = alignment.Local
	PairSequential = alignment.PairSequential
	PairAll        = alignment.PairAll
)

// Aligner options
var (
	WithSimilarityMatrix = alignment.WithSimilarityMatrix
	WithGapOpenCost      = alignment.WithGapOpenCost
	WithGapExtensionCost = alignment.WithGapExtensionCost
	WithPairing          = alignment.WithPairing
	WithWorkers          = alignment.WithWorkers
	WithMaxCells         = alignment.WithMaxCells
	WithScoreTable       = alignment.WithScoreTable
	WithLogger           = alignment.WithLogger
)

// NewSequence creates a new DNA sequence.
func NewSequence(symbols string) (*Sequence, error) {
	return sequence.NewDNA(symbols)
}

// NewSequenceWithID creates a new sequence of the given alphabet with an identifier.
func NewSequenceWithID(alphabet *Alphabet, symbols, id string) (*Sequence, error) {
	return sequence.WithID(alphabet, symbols, id)
}

// NewRNASequence creates a new RNA sequence.
func NewRNASequence(symbols string) (*Sequence, error) {
	return sequence.NewRNA(symbols)
}

// NewProteinSequence creates a new protein sequence.
func NewProteinSequence(symbols string) (*Sequence, error) {
	return sequence.NewProtein(symbols)
}

// NewNeedlemanWunschAligner creates a global aligner.
func NewNeedlemanWunschAligner(opts ...Option) *Aligner {
	return alignment.NewNeedlemanWunschAligner(opts...)
}

// NewSmithWatermanAligner creates a local aligner.
func NewSmithWatermanAligner(opts ...Option) *Aligner {
	return alignment.NewSmithWatermanAligner(opts...)
}

// Align performs local alignment between two sequences with default scoring.
func Align(s1, s2 Seq) (*PairwiseSequenceAlignment, error) {
	return alignment.NewSmithWatermanAligner().AlignSimple(s1, s2)
}

// AlignGlobal performs global alignment between two sequences with default scoring.
func AlignGlobal(s1, s2 Seq) (*PairwiseSequenceAlignment, error) {
	return alignment.NewNeedlemanWunschAligner().AlignSimple(s1, s2)
}

// AlignWithMatrix performs local alignment with affine gap costs and a
// custom similarity matrix.
func AlignWithMatrix(m Matrix, gapOpenCost, gapExtensionCost int, s1, s2 Seq) (*PairwiseSequenceAlignment, error) {
	return alignment.NewSmithWatermanAligner().AlignWith(m, gapOpenCost, gapExtensionCost, s1, s2)
}

// DefaultMatrix returns the diagonal matrix used when none is configured.
func DefaultMatrix() Matrix {
	return alignment.DefaultMatrix()
}

// StandardMatrix returns an embedded matrix by name ("blosum62", "dna").
func StandardMatrix(name string) (*Table, error) {
	return similarity.Standard(name)
}

// NewDiagonalMatrix creates a match/mismatch matrix.
func NewDiagonalMatrix(match, mismatch int) *Diagonal {
	return similarity.NewDiagonal(match, mismatch)
}

// ParseMatrix reads a similarity matrix in text form.
func ParseMatrix(r io.Reader) (*Table, error) {
	return similarity.Parse(r)
}

// LoadMatrix reads a similarity matrix file.
func LoadMatrix(path string) (*Table, error) {
	return similarity.Load(path)
}

// MatrixSupports reports whether m scores every symbol of s, and otherwise
// the position of the first unsupported symbol.
func MatrixSupports(m Matrix, s Seq) (int, bool) {
	return similarity.ValidateSequence(m, s)
}

// SummarizeAlignments calculates statistics over alignment results.
func SummarizeAlignments(results []*PairwiseSequenceAlignment) (*AlignmentStats, error) {
	return stats.FromAlignments(results)
}

// SummarizeSequences calculates statistics for multiple sequences.
func SummarizeSequences(sequences []Seq) (*SequenceSetStats, error) {
	return stats.FromSequences(sequences)
}

// ReadSequences reads sequences of one alphabet from a file, see ParseSequences.
func ReadSequences(filename string, alphabet *Alphabet) ([]*Sequence, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	return ParseSequences(file, alphabet)
}

// ParseSequences parses FASTA records, or a plain list with one sequence per
// line when the input has no '>' header. Blank lines and lines starting with
// '#' in a plain list are skipped.
func ParseSequences(r io.Reader, alphabet *Alphabet) ([]*Sequence, error) {
	sequences := make([]*Sequence, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var currentID, currentDesc string
	var currentSymbols strings.Builder
	fasta := false
	lineNum := 0

	flushSequence := func() error {
		if currentSymbols.Len() == 0 {
			return nil
		}
		seq, err := sequence.WithID(alphabet, currentSymbols.String(), currentID)
		if err != nil {
			return fmt.Errorf("record %q: %w", currentID, err)
		}
		sequences = append(sequences, seq.WithDescription(currentDesc))
		currentSymbols.Reset()
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++

		if len(line) == 0 {
			continue
		}

		switch {
		case line[0] == '>':
			fasta = true
			if err := flushSequence(); err != nil {
				return nil, err
			}

			parts := strings.SplitN(line[1:], " ", 2)
			currentID = parts[0]
			currentDesc = ""
			if len(parts) > 1 {
				currentDesc = parts[1]
			}
		case fasta:
			currentSymbols.WriteString(line)
		case line[0] == '#':
			continue
		default:
			seq, err := sequence.WithID(alphabet, line, fmt.Sprintf("seq%d", len(sequences)+1))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			sequences = append(sequences, seq)
		}
	}

	if err := flushSequence(); err != nil {
		return nil, err
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading sequences: %w", err)
	}

	return sequences, nil
}

// WriteAlignedFASTA writes the gapped pairs of each result as FASTA records.
func WriteAlignedFASTA(w io.Writer, results []*PairwiseSequenceAlignment) error {
	for i, res := range results {
		for j, p := range res.All() {
			for k, s := range []*Sequence{p.FirstSequence, p.SecondSequence} {
				id := s.ID()
				if id == "" {
					id = fmt.Sprintf("aln%d_%d_%d", i+1, j+1, k+1)
				}
				if _, err := fmt.Fprintf(w, ">%s score=%d\n%s\n", id, p.Score, s.String()); err != nil {
					return fmt.Errorf("writing sequence: %w", err)
				}
			}
		}
	}
	return nil
}

// Version returns the BioFlow version.
func Version() string {
	return "1.0.0"
}

// Info returns information about BioFlow.
func Info() string {
	return fmt.Sprintf(`BioFlow v%s - Pairwise Sequence Alignment

Features:
  - Needleman-Wunsch global alignment
  - Smith-Waterman local alignment
  - Linear and affine (Gotoh) gap costs
  - BLOSUM62, DNA and custom similarity matrices
  - Concurrent batch alignment with summary statistics
`, Version())
}
