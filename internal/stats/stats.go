// Package stats provides statistical summaries for alignment batches.
//
// Summaries cover the input sequences of a batch (lengths, N50, ambiguity
// codes) and the resulting alignments (score range, identity, gaps).
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/sequence"
)

// SequenceSetStats represents aggregated statistics for multiple sequences.
type SequenceSetStats struct {
	Count          int     `json:"count"`
	TotalSymbols   int     `json:"total_symbols"`
	MinLength      int     `json:"min_length"`
	MaxLength      int     `json:"max_length"`
	MeanLength     float64 `json:"mean_length"`
	MedianLength   int     `json:"median_length"`
	N50            int     `json:"n50"`
	TotalAmbiguous int     `json:"total_ambiguous"`
}

// FromSequences calculates statistics for a collection of sequences.
func FromSequences(sequences []sequence.Seq) (*SequenceSetStats, error) {
	if len(sequences) == 0 {
		return nil, fmt.Errorf("sequence list cannot be empty")
	}

	count := len(sequences)
	lengths := make([]int, count)
	total := 0
	ambiguous := 0

	for i, seq := range sequences {
		lengths[i] = seq.Len()
		total += seq.Len()
		for j := 0; j < seq.Len(); j++ {
			if seq.Alphabet().IsAmbiguous(seq.At(j)) {
				ambiguous++
			}
		}
	}

	sorted := make([]int, count)
	copy(sorted, lengths)
	sort.Ints(sorted)

	// N50: length where 50% of symbols are in sequences at least this long
	halfTotal := total / 2
	runningSum := 0
	n50 := sorted[count-1]
	for i := count - 1; i >= 0; i-- {
		runningSum += sorted[i]
		if runningSum >= halfTotal {
			n50 = sorted[i]
			break
		}
	}

	return &SequenceSetStats{
		Count:          count,
		TotalSymbols:   total,
		MinLength:      sorted[0],
		MaxLength:      sorted[count-1],
		MeanLength:     float64(total) / float64(count),
		MedianLength:   medianInt(sorted),
		N50:            n50,
		TotalAmbiguous: ambiguous,
	}, nil
}

func (s *SequenceSetStats) String() string {
	return fmt.Sprintf(`SequenceSetStats {
  count: %d
  total_symbols: %d
  length range: %d - %d
  mean length: %.1f
  median length: %d
  N50: %d
  ambiguous symbols: %d
}`, s.Count, s.TotalSymbols, s.MinLength, s.MaxLength,
		s.MeanLength, s.MedianLength, s.N50, s.TotalAmbiguous)
}

// AlignmentStats summarizes the best aligned pair of each alignment in a batch.
type AlignmentStats struct {
	Count        int     `json:"count"`
	MinScore     int     `json:"min_score"`
	MaxScore     int     `json:"max_score"`
	MeanScore    float64 `json:"mean_score"`
	MedianScore  float64 `json:"median_score"`
	MeanIdentity float64 `json:"mean_identity"`
	MeanLength   float64 `json:"mean_length"`
	TotalGaps    int     `json:"total_gaps"`
	GapOpenings  int     `json:"gap_openings"`
	// EmptyCount counts local alignments that found no similarity.
	EmptyCount int `json:"empty_count"`
}

// FromAlignments calculates statistics over alignment results. Results
// without any aligned pair are skipped.
func FromAlignments(results []*alignment.PairwiseSequenceAlignment) (*AlignmentStats, error) {
	var best []*alignment.PairwiseAlignedSequence
	for _, res := range results {
		if res == nil {
			continue
		}
		if p := res.Best(); p != nil {
			best = append(best, p)
		}
	}
	if len(best) == 0 {
		return nil, fmt.Errorf("alignment list cannot be empty")
	}

	s := &AlignmentStats{
		Count:    len(best),
		MinScore: best[0].Score,
		MaxScore: best[0].Score,
	}

	scores := make([]float64, len(best))
	scoreSum, identitySum, lengthSum := 0, 0.0, 0
	for i, p := range best {
		scores[i] = float64(p.Score)
		scoreSum += p.Score
		identitySum += p.Identity()
		lengthSum += p.Length()
		s.TotalGaps += p.TotalGaps()
		s.GapOpenings += p.GapOpenings()
		if p.Length() == 0 {
			s.EmptyCount++
		}
		if p.Score < s.MinScore {
			s.MinScore = p.Score
		}
		if p.Score > s.MaxScore {
			s.MaxScore = p.Score
		}
	}

	n := float64(len(best))
	s.MeanScore = float64(scoreSum) / n
	s.MeanIdentity = identitySum / n
	s.MeanLength = float64(lengthSum) / n

	sort.Float64s(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		s.MedianScore = (scores[mid-1] + scores[mid]) / 2
	} else {
		s.MedianScore = scores[mid]
	}

	return s, nil
}

func (s *AlignmentStats) String() string {
	return fmt.Sprintf(`AlignmentStats {
  count: %d
  score range: %d - %d
  mean score: %.1f
  median score: %.1f
  mean identity: %.1f%%
  mean length: %.1f
  gaps: %d (%d openings)
  empty: %d
}`, s.Count, s.MinScore, s.MaxScore, s.MeanScore, s.MedianScore,
		s.MeanIdentity*100, s.MeanLength, s.TotalGaps, s.GapOpenings, s.EmptyCount)
}

// IdentityHistogram bins alignments by identity fraction.
type IdentityHistogram struct {
	Bins    []int
	BinSize float64
	NumBins int
}

// NewIdentityHistogram creates an identity histogram from alignment results.
func NewIdentityHistogram(results []*alignment.PairwiseSequenceAlignment, numBins int) (*IdentityHistogram, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("alignment list cannot be empty")
	}
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	binSize := 1.0 / float64(numBins)
	bins := make([]int, numBins)

	for _, res := range results {
		if res == nil {
			continue
		}
		p := res.Best()
		if p == nil {
			continue
		}
		binIndex := int(p.Identity() / binSize)
		if binIndex >= numBins {
			binIndex = numBins - 1
		}
		bins[binIndex]++
	}

	return &IdentityHistogram{
		Bins:    bins,
		BinSize: binSize,
		NumBins: numBins,
	}, nil
}

// ModeBin returns the most common identity range.
func (h *IdentityHistogram) ModeBin() (float64, float64) {
	maxCount := h.Bins[0]
	maxBin := 0

	for i, count := range h.Bins {
		if count > maxCount {
			maxCount = count
			maxBin = i
		}
	}

	start := float64(maxBin) * h.BinSize
	end := start + h.BinSize
	return start, end
}

func (h *IdentityHistogram) String() string {
	var sb strings.Builder
	sb.WriteString("Identity Histogram:\n")
	for i := 0; i < h.NumBins; i++ {
		start := int(float64(i) * h.BinSize * 100)
		end := start + int(h.BinSize*100)
		count := h.Bins[i]
		fmt.Fprintf(&sb, "%3d-%3d%%: %s (%d)\n", start, end, strings.Repeat("#", count), count)
	}
	return sb.String()
}

func medianInt(sorted []int) int {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
