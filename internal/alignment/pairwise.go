package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/bioflow-align/internal/sequence"
)

const gapSymbol = '-'

// Metadata keys set by the aligners.
const (
	MetadataScoreTable = "ScoreTable"
	MetadataMode       = "Mode"
	MetadataMatrix     = "SimilarityMatrix"
	MetadataGapOpen    = "GapOpenCost"
	MetadataGapExtend  = "GapExtensionCost"
)

// PairwiseAlignedSequence is one alignment of two sequences. FirstSequence
// and SecondSequence are gapped and always have equal length.
//
// Start/End offsets are 0-based, end-exclusive positions in the ungapped
// inputs. FirstOffset and SecondOffset are the padding that lines the two
// inputs up at the alignment start when printed one above the other.
type PairwiseAlignedSequence struct {
	FirstSequence  *sequence.Sequence
	SecondSequence *sequence.Sequence
	Score          int
	Mode           Mode

	FirstStart  int
	FirstEnd    int
	SecondStart int
	SecondEnd   int

	FirstOffset  int
	SecondOffset int

	// IdenticalCount counts columns with equal symbols; SimilarCount counts
	// columns the similarity matrix scores above zero.
	IdenticalCount int
	SimilarCount   int
	// FirstInsertions counts gaps inserted into the first sequence,
	// SecondInsertions gaps inserted into the second.
	FirstInsertions  int
	SecondInsertions int
}

// NewPairwiseAlignedSequence builds an aligned pair from gapped sequences.
func NewPairwiseAlignedSequence(first, second *sequence.Sequence, score int) (*PairwiseAlignedSequence, error) {
	if first == nil || second == nil {
		return nil, &ArgumentError{Param: "sequence", Reason: "aligned sequences cannot be nil"}
	}
	if first.Len() != second.Len() {
		return nil, &ArgumentError{Param: "sequence", Reason: "aligned sequences must have equal length"}
	}

	p := &PairwiseAlignedSequence{
		FirstSequence:  first,
		SecondSequence: second,
		Score:          score,
		FirstEnd:       first.Len() - first.GapCount(),
		SecondEnd:      second.Len() - second.GapCount(),
	}
	p.FirstInsertions = first.GapCount()
	p.SecondInsertions = second.GapCount()
	p.IdenticalCount = p.MatchCount()
	return p, nil
}

func (p *PairwiseAlignedSequence) first() []byte {
	return sequence.Symbols(p.FirstSequence)
}

func (p *PairwiseAlignedSequence) second() []byte {
	return sequence.Symbols(p.SecondSequence)
}

// Length returns the length of the alignment.
func (p *PairwiseAlignedSequence) Length() int {
	return p.FirstSequence.Len()
}

// Identity returns the fraction of columns holding identical symbols.
func (p *PairwiseAlignedSequence) Identity() float64 {
	if p.Length() == 0 {
		return 0.0
	}
	return float64(p.MatchCount()) / float64(p.Length())
}

// MatchCount returns the number of matches.
func (p *PairwiseAlignedSequence) MatchCount() int {
	a, b := p.first(), p.second()
	count := 0
	for i := range a {
		if a[i] == b[i] && a[i] != gapSymbol {
			count++
		}
	}
	return count
}

// MismatchCount returns the number of mismatches.
func (p *PairwiseAlignedSequence) MismatchCount() int {
	a, b := p.first(), p.second()
	count := 0
	for i := range a {
		if a[i] != b[i] && a[i] != gapSymbol && b[i] != gapSymbol {
			count++
		}
	}
	return count
}

// TotalGaps returns the total number of gap symbols.
func (p *PairwiseAlignedSequence) TotalGaps() int {
	return p.FirstInsertions + p.SecondInsertions
}

// GapOpenings counts the number of gap runs across both rows.
func (p *PairwiseAlignedSequence) GapOpenings() int {
	a, b := p.first(), p.second()
	openings := 0
	inGap1, inGap2 := false, false

	for i := range a {
		if a[i] == gapSymbol && !inGap1 {
			openings++
			inGap1 = true
		} else if a[i] != gapSymbol {
			inGap1 = false
		}

		if b[i] == gapSymbol && !inGap2 {
			openings++
			inGap2 = true
		} else if b[i] != gapSymbol {
			inGap2 = false
		}
	}

	return openings
}

// ToCIGAR generates a CIGAR string: M match, X mismatch, I gap in the first
// sequence, D gap in the second.
func (p *PairwiseAlignedSequence) ToCIGAR() string {
	a, b := p.first(), p.second()
	if len(a) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for i := range a {
		var op byte
		switch {
		case a[i] == gapSymbol:
			op = 'I'
		case b[i] == gapSymbol:
			op = 'D'
		case a[i] == b[i]:
			op = 'M'
		default:
			op = 'X'
		}

		if op == currentOp {
			count++
			continue
		}
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, currentOp)
		}
		currentOp = op
		count = 1
	}
	fmt.Fprintf(&cigar, "%d%c", count, currentOp)

	return cigar.String()
}

// MatchLine returns the middle row of Format: '|' identical, '.' mismatch,
// ' ' gap.
func (p *PairwiseAlignedSequence) MatchLine() string {
	a, b := p.first(), p.second()
	line := make([]byte, len(a))
	for i := range a {
		switch {
		case a[i] == gapSymbol || b[i] == gapSymbol:
			line[i] = ' '
		case a[i] == b[i]:
			line[i] = '|'
		default:
			line[i] = '.'
		}
	}
	return string(line)
}

// Format returns a formatted string representation of the alignment.
func (p *PairwiseAlignedSequence) Format() string {
	return fmt.Sprintf("Seq1: %s\n      %s\nSeq2: %s\nScore: %d\nIdentity: %.1f%%\nCIGAR: %s",
		p.FirstSequence, p.MatchLine(), p.SecondSequence,
		p.Score, p.Identity()*100, p.ToCIGAR())
}

func (p *PairwiseAlignedSequence) String() string {
	return fmt.Sprintf("PairwiseAlignedSequence { score: %d, identity: %.1f%%, length: %d }",
		p.Score, p.Identity()*100, p.Length())
}

// PairwiseSequenceAlignment groups the alignments computed for one input pair
// together with the two inputs. The zero value is an empty, writable
// alignment.
type PairwiseSequenceAlignment struct {
	first  sequence.Seq
	second sequence.Seq

	alignedSequences []*PairwiseAlignedSequence
	sequences        []*sequence.Sequence

	// ReadOnly makes every mutating call fail with ErrReadOnly.
	ReadOnly bool
	// Metadata holds optional extras, e.g. the rendered score table.
	Metadata map[string]any
}

// NewPairwiseSequenceAlignment creates an empty alignment of first and second.
func NewPairwiseSequenceAlignment(first, second sequence.Seq) *PairwiseSequenceAlignment {
	return &PairwiseSequenceAlignment{
		first:    first,
		second:   second,
		Metadata: make(map[string]any),
	}
}

// FirstSequence returns the first original input, or nil.
func (a *PairwiseSequenceAlignment) FirstSequence() sequence.Seq {
	return a.first
}

// SecondSequence returns the second original input, or nil.
func (a *PairwiseSequenceAlignment) SecondSequence() sequence.Seq {
	return a.second
}

// Add appends an aligned pair.
func (a *PairwiseSequenceAlignment) Add(p *PairwiseAlignedSequence) error {
	if a.ReadOnly {
		return ErrReadOnly
	}
	if p == nil {
		return &ArgumentError{Param: "pairwiseAlignedSequence", Reason: "cannot be nil"}
	}
	a.alignedSequences = append(a.alignedSequences, p)
	return nil
}

// AddSequence appends the two gapped members of p to the flat
// AlignedSequences list. The pair itself is not added, so Count is unchanged.
func (a *PairwiseSequenceAlignment) AddSequence(p *PairwiseAlignedSequence) error {
	if a.ReadOnly {
		return ErrReadOnly
	}
	if p == nil {
		return &ArgumentError{Param: "pairwiseAlignedSequence", Reason: "cannot be nil"}
	}
	a.sequences = append(a.sequences, p.FirstSequence, p.SecondSequence)
	return nil
}

// Remove deletes the first occurrence of p and reports whether it was found.
func (a *PairwiseSequenceAlignment) Remove(p *PairwiseAlignedSequence) (bool, error) {
	if a.ReadOnly {
		return false, ErrReadOnly
	}
	for i, s := range a.alignedSequences {
		if s == p {
			a.alignedSequences = append(a.alignedSequences[:i], a.alignedSequences[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Contains reports whether p is one of the aligned pairs.
func (a *PairwiseSequenceAlignment) Contains(p *PairwiseAlignedSequence) bool {
	for _, s := range a.alignedSequences {
		if s == p {
			return true
		}
	}
	return false
}

// Clear removes every aligned pair and every flat aligned sequence.
func (a *PairwiseSequenceAlignment) Clear() error {
	if a.ReadOnly {
		return ErrReadOnly
	}
	a.alignedSequences = nil
	a.sequences = nil
	return nil
}

// CopyTo copies the aligned pairs into dst starting at index.
func (a *PairwiseSequenceAlignment) CopyTo(dst []*PairwiseAlignedSequence, index int) error {
	if dst == nil {
		return &ArgumentError{Param: "dst", Reason: "cannot be nil"}
	}
	if index < 0 || index+len(a.alignedSequences) > len(dst) {
		return &ArgumentError{Param: "index",
			Reason: fmt.Sprintf("%d pairs do not fit at index %d of a slice of length %d",
				len(a.alignedSequences), index, len(dst))}
	}
	copy(dst[index:], a.alignedSequences)
	return nil
}

// Count returns the number of aligned pairs.
func (a *PairwiseSequenceAlignment) Count() int {
	return len(a.alignedSequences)
}

// At returns the i-th aligned pair.
func (a *PairwiseSequenceAlignment) At(i int) *PairwiseAlignedSequence {
	return a.alignedSequences[i]
}

// All returns a copy of the aligned pairs in insertion order.
func (a *PairwiseSequenceAlignment) All() []*PairwiseAlignedSequence {
	return append([]*PairwiseAlignedSequence(nil), a.alignedSequences...)
}

// PairwiseAlignedSequences returns the aligned pairs.
func (a *PairwiseSequenceAlignment) PairwiseAlignedSequences() []*PairwiseAlignedSequence {
	return a.All()
}

// AlignedSequences returns the flat list filled by AddSequence.
func (a *PairwiseSequenceAlignment) AlignedSequences() []*sequence.Sequence {
	return append([]*sequence.Sequence(nil), a.sequences...)
}

// AlignedSequenceCount returns the length of the flat list.
func (a *PairwiseSequenceAlignment) AlignedSequenceCount() int {
	return len(a.sequences)
}

// Best returns the highest-scoring pair, the first one on ties, or nil.
func (a *PairwiseSequenceAlignment) Best() *PairwiseAlignedSequence {
	var best *PairwiseAlignedSequence
	for _, p := range a.alignedSequences {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

func (a *PairwiseSequenceAlignment) String() string {
	var sb strings.Builder
	for i, p := range a.alignedSequences {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p.Format())
	}
	return sb.String()
}
