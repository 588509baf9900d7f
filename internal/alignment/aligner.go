package alignment

import (
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/internal/similarity"
)

// Aligner computes pairwise alignments. Mode selects Needleman-Wunsch
// (Global) or Smith-Waterman (Local); the remaining fields are shared by
// both. An Aligner is not modified by any alignment call and may be used from
// several goroutines once configured.
type Aligner struct {
	Mode             Mode
	SimilarityMatrix similarity.Matrix
	// GapOpenCost is added for the first symbol of a gap run, and for every
	// gap symbol in simple (linear) alignments. Must be negative.
	GapOpenCost int
	// GapExtensionCost is added for each further symbol of a gap run in
	// affine alignments. Must be zero or negative and not below GapOpenCost.
	GapExtensionCost int

	// Pairing selects how list alignments pair their inputs.
	Pairing Pairing
	// Workers caps concurrent list alignments; 0 uses GOMAXPROCS.
	Workers int
	// MaxCells rejects inputs whose DP grids would exceed this many cells;
	// 0 disables the check.
	MaxCells int
	// IncludeScoreTable renders the best-score grid into each result's
	// metadata under MetadataScoreTable.
	IncludeScoreTable bool
	// Progress, when set, is called after each list pair is aligned. It is
	// called from worker goroutines and must be safe for concurrent use.
	Progress func(pair Pair, elapsed time.Duration)

	Logger *log.Logger
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithSimilarityMatrix sets the scoring matrix.
func WithSimilarityMatrix(m similarity.Matrix) Option {
	return func(a *Aligner) {
		a.SimilarityMatrix = m
	}
}

// WithGapOpenCost sets the gap opening cost.
func WithGapOpenCost(cost int) Option {
	return func(a *Aligner) {
		a.GapOpenCost = cost
	}
}

// WithGapExtensionCost sets the gap extension cost.
func WithGapExtensionCost(cost int) Option {
	return func(a *Aligner) {
		a.GapExtensionCost = cost
	}
}

// WithPairing sets the list pairing strategy.
func WithPairing(p Pairing) Option {
	return func(a *Aligner) {
		a.Pairing = p
	}
}

// WithWorkers caps concurrent list alignments.
func WithWorkers(n int) Option {
	return func(a *Aligner) {
		a.Workers = n
	}
}

// WithMaxCells bounds the DP grid size.
func WithMaxCells(n int) Option {
	return func(a *Aligner) {
		a.MaxCells = n
	}
}

// WithScoreTable stores the rendered score grid in result metadata.
func WithScoreTable() Option {
	return func(a *Aligner) {
		a.IncludeScoreTable = true
	}
}

// WithProgress sets the per-pair callback of list alignments.
func WithProgress(fn func(pair Pair, elapsed time.Duration)) Option {
	return func(a *Aligner) {
		a.Progress = fn
	}
}

// WithLogger sets the logger used to report rejected inputs.
func WithLogger(l *log.Logger) Option {
	return func(a *Aligner) {
		a.Logger = l
	}
}

func newAligner(mode Mode, opts ...Option) *Aligner {
	a := &Aligner{
		Mode:             mode,
		SimilarityMatrix: DefaultMatrix(),
		GapOpenCost:      DefaultGapOpenCost,
		GapExtensionCost: DefaultGapExtensionCost,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns "Needleman-Wunsch" or "Smith-Waterman".
func (a *Aligner) Name() string {
	if a.Mode == Global {
		return "Needleman-Wunsch"
	}
	return "Smith-Waterman"
}

// params are the scoring settings for one call.
type params struct {
	matrix similarity.Matrix
	open   int
	ext    int
	affine bool
}

// AlignSimple aligns two sequences with the linear gap model, charging
// GapOpenCost for every gap symbol.
func (a *Aligner) AlignSimple(s1, s2 sequence.Seq) (*PairwiseSequenceAlignment, error) {
	return a.run(params{matrix: a.SimilarityMatrix, open: a.GapOpenCost}, s1, s2)
}

// AlignSimpleWith is AlignSimple with an explicit matrix and gap cost. The
// receiver's own settings are not changed.
func (a *Aligner) AlignSimpleWith(m similarity.Matrix, gapOpenCost int, s1, s2 sequence.Seq) (*PairwiseSequenceAlignment, error) {
	return a.run(params{matrix: m, open: gapOpenCost}, s1, s2)
}

// Align aligns two sequences with the affine gap model.
func (a *Aligner) Align(s1, s2 sequence.Seq) (*PairwiseSequenceAlignment, error) {
	return a.run(params{matrix: a.SimilarityMatrix, open: a.GapOpenCost, ext: a.GapExtensionCost, affine: true}, s1, s2)
}

// AlignWith is Align with an explicit matrix and gap costs. The receiver's
// own settings are not changed.
func (a *Aligner) AlignWith(m similarity.Matrix, gapOpenCost, gapExtensionCost int, s1, s2 sequence.Seq) (*PairwiseSequenceAlignment, error) {
	return a.run(params{matrix: m, open: gapOpenCost, ext: gapExtensionCost, affine: true}, s1, s2)
}

func (a *Aligner) run(p params, s1, s2 sequence.Seq) (*PairwiseSequenceAlignment, error) {
	if err := a.validate(p, s1, s2); err != nil {
		a.logf("%s: rejected input: %v", a.Name(), err)
		return nil, err
	}

	prof, err := newProfile(p.matrix, s1, s2)
	if err != nil {
		return nil, err
	}

	var t *trace
	switch {
	case p.affine:
		t = affine(a.Mode, prof, p.open, p.ext, a.IncludeScoreTable)
	case a.Mode == Global:
		t = globalLinear(prof, p.open, a.IncludeScoreTable)
	default:
		t = localLinear(prof, p.open, a.IncludeScoreTable)
	}

	return a.buildResult(p, t, prof, s1, s2)
}

func (a *Aligner) validate(p params, s1, s2 sequence.Seq) error {
	if p.matrix == nil {
		return &ArgumentError{Param: "similarityMatrix", Reason: "cannot be nil"}
	}
	for _, in := range []struct {
		name string
		seq  sequence.Seq
	}{{"sequence1", s1}, {"sequence2", s2}} {
		if isNil(in.seq) {
			return &ArgumentError{Param: in.name, Reason: "cannot be nil"}
		}
		if in.seq.Len() == 0 {
			return &ArgumentError{Param: in.name, Reason: "cannot be empty"}
		}
		if in.seq.Alphabet() == nil {
			return &ArgumentError{Param: in.name, Reason: "has no alphabet"}
		}
	}

	if err := validateCosts(p); err != nil {
		return err
	}

	if err := sequence.Validate(s1, false); err != nil {
		return fmt.Errorf("first sequence: %w", err)
	}
	if err := sequence.Validate(s2, false); err != nil {
		return fmt.Errorf("second sequence: %w", err)
	}

	if s1.Alphabet() != s2.Alphabet() {
		return &NonMatchingAlphabetError{
			Subject: SubjectInputs,
			First:   s1.Alphabet().Name(),
			Second:  s2.Alphabet().Name(),
		}
	}
	if pos, ok := similarity.ValidateSequence(p.matrix, s1); !ok {
		return &NonMatchingAlphabetError{Subject: SubjectFirst, Position: pos, Symbol: s1.At(pos), Matrix: p.matrix.Name()}
	}
	if pos, ok := similarity.ValidateSequence(p.matrix, s2); !ok {
		return &NonMatchingAlphabetError{Subject: SubjectSecond, Position: pos, Symbol: s2.At(pos), Matrix: p.matrix.Name()}
	}

	if a.MaxCells > 0 {
		grids := 1
		if p.affine {
			grids = 3
		}
		cells := uint64(s1.Len()+1) * uint64(s2.Len()+1) * uint64(grids)
		if cells > uint64(a.MaxCells) {
			return &ArgumentError{
				Param: "sequences",
				Reason: fmt.Sprintf("alignment needs %s DP cells (about %s), limit is %s",
					humanize.Comma(int64(cells)), humanize.Bytes(cells*cellBytes), humanize.Comma(int64(a.MaxCells))),
			}
		}
	}

	return nil
}

// cellBytes approximates the memory of one DP cell: an int score plus a
// traceback byte.
const cellBytes = 9

func validateCosts(p params) error {
	if p.open >= 0 {
		return &ConfigurationError{Param: "GapOpenCost", Value: p.open, Reason: "must be negative"}
	}
	if !p.affine {
		return nil
	}
	if p.ext > 0 {
		return &ConfigurationError{Param: "GapExtensionCost", Value: p.ext, Reason: "must be zero or negative"}
	}
	if p.open > p.ext {
		return &ConfigurationError{Param: "GapOpenCost", Value: p.open,
			Reason: fmt.Sprintf("must not be greater than GapExtensionCost %d", p.ext)}
	}
	return nil
}

func isNil(s sequence.Seq) bool {
	if s == nil {
		return true
	}
	seq, ok := s.(*sequence.Sequence)
	return ok && seq == nil
}

func (a *Aligner) buildResult(p params, t *trace, prof *profile, s1, s2 sequence.Seq) (*PairwiseSequenceAlignment, error) {
	first := sequence.Gapped(s1.Alphabet(), s1.ID(), t.first)
	second := sequence.Gapped(s2.Alphabet(), s2.ID(), t.second)

	aligned, err := NewPairwiseAlignedSequence(first, second, t.score)
	if err != nil {
		return nil, err
	}
	aligned.Mode = a.Mode
	aligned.FirstStart, aligned.FirstEnd = t.start1, t.end1
	aligned.SecondStart, aligned.SecondEnd = t.start2, t.end2
	if t.start2 >= t.start1 {
		aligned.FirstOffset = t.start2 - t.start1
	} else {
		aligned.SecondOffset = t.start1 - t.start2
	}
	aligned.SimilarCount = similarColumns(p.matrix, t.first, t.second)

	result := NewPairwiseSequenceAlignment(s1, s2)
	if err := result.Add(aligned); err != nil {
		return nil, err
	}

	result.Metadata[MetadataMode] = a.Mode.String()
	result.Metadata[MetadataMatrix] = p.matrix.Name()
	result.Metadata[MetadataGapOpen] = p.open
	if p.affine {
		result.Metadata[MetadataGapExtend] = p.ext
	}
	if t.table != nil {
		result.Metadata[MetadataScoreTable] = renderScoreTable(t.table, prof.first, prof.second)
	}

	return result, nil
}

func similarColumns(m similarity.Matrix, a, b []byte) int {
	count := 0
	for i := range a {
		if a[i] == gapSymbol || b[i] == gapSymbol {
			continue
		}
		if s, err := m.Score(a[i], b[i]); err == nil && s > 0 {
			count++
		}
	}
	return count
}

func (a *Aligner) logf(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}
