package alignment

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aria-lang/bioflow-align/internal/sequence"
)

// Pairing selects which sequences of a list are aligned with each other.
type Pairing int

const (
	// PairSequential aligns (1,2), (3,4), ... and requires an even count.
	PairSequential Pairing = iota
	// PairAll aligns every i < j pair in row-major order.
	PairAll
)

func (p Pairing) String() string {
	switch p {
	case PairSequential:
		return "sequential"
	case PairAll:
		return "all"
	default:
		return "unknown"
	}
}

// ParsePairing maps "sequential" or "all" to a Pairing.
func ParsePairing(s string) (Pairing, error) {
	switch s {
	case "", "sequential":
		return PairSequential, nil
	case "all":
		return PairAll, nil
	default:
		return 0, fmt.Errorf("unknown pairing %q (want sequential or all)", s)
	}
}

// Pair is a pair of list indices.
type Pair struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Pairs returns the index pairs a list of n sequences is aligned as.
func (p Pairing) Pairs(n int) ([]Pair, error) {
	if n < 2 {
		return nil, &ArgumentError{Param: "sequences", Reason: fmt.Sprintf("need at least 2 sequences, got %d", n)}
	}

	switch p {
	case PairAll:
		pairs := make([]Pair, 0, n*(n-1)/2)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, Pair{I: i, J: j})
			}
		}
		return pairs, nil
	default:
		if n%2 != 0 {
			return nil, &ArgumentError{Param: "sequences",
				Reason: fmt.Sprintf("sequential pairing needs an even number of sequences, got %d", n)}
		}
		pairs := make([]Pair, 0, n/2)
		for i := 0; i < n; i += 2 {
			pairs = append(pairs, Pair{I: i, J: i + 1})
		}
		return pairs, nil
	}
}

// AlignSimpleList aligns the pairs of seqs selected by Pairing with the
// linear gap model. Results follow pair order. Any failure fails the call.
func (a *Aligner) AlignSimpleList(seqs []sequence.Seq) ([]*PairwiseSequenceAlignment, error) {
	return a.AlignSimpleListContext(context.Background(), seqs)
}

// AlignSimpleListContext is AlignSimpleList with cancellation.
func (a *Aligner) AlignSimpleListContext(ctx context.Context, seqs []sequence.Seq) ([]*PairwiseSequenceAlignment, error) {
	return a.alignList(ctx, seqs, (*Aligner).AlignSimple)
}

// AlignList aligns the pairs of seqs selected by Pairing with the affine gap
// model. Results follow pair order. Any failure fails the call.
func (a *Aligner) AlignList(seqs []sequence.Seq) ([]*PairwiseSequenceAlignment, error) {
	return a.AlignListContext(context.Background(), seqs)
}

// AlignListContext is AlignList with cancellation.
func (a *Aligner) AlignListContext(ctx context.Context, seqs []sequence.Seq) ([]*PairwiseSequenceAlignment, error) {
	return a.alignList(ctx, seqs, (*Aligner).Align)
}

type alignFunc func(a *Aligner, s1, s2 sequence.Seq) (*PairwiseSequenceAlignment, error)

func (a *Aligner) alignList(ctx context.Context, seqs []sequence.Seq, align alignFunc) ([]*PairwiseSequenceAlignment, error) {
	pairs, err := a.Pairing.Pairs(len(seqs))
	if err != nil {
		a.logf("%s: rejected list: %v", a.Name(), err)
		return nil, err
	}

	// Workers share one snapshot of the configuration.
	cfg := *a

	workers := a.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*PairwiseSequenceAlignment, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for k, pair := range pairs {
		k, pair := k, pair
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := align(&cfg, seqs[pair.I], seqs[pair.J])
			if err != nil {
				return fmt.Errorf("pair %d (sequences %d and %d): %w", k, pair.I, pair.J, err)
			}
			results[k] = res
			if cfg.Progress != nil {
				cfg.Progress(pair, time.Since(start))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
