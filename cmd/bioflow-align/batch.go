package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/internal/stats"
	"github.com/aria-lang/bioflow-align/pkg/bioflow"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		inputPath    string
		outputPath   string
		mode         string
		showProgress bool
		histogram    int
	)

	cmd := &cobra.Command{
		Use:   "batch [sequences...]",
		Short: "Align a list of sequences concurrently",
		Long: `Align a list of sequences concurrently

Sequences come from the arguments or from --input, a FASTA file or a plain
list with one sequence per line. With --pairing sequential (the default)
sequences 1 and 2, 3 and 4, ... are aligned; with --pairing all every pair is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.config()
			if err != nil {
				return err
			}

			alphabet, err := c.Align.SequenceAlphabet()
			if err != nil {
				return err
			}
			seqs, err := readBatch(inputPath, args, alphabet)
			if err != nil {
				return err
			}

			aligner, err := c.Align.NewAligner(mode, a.logger(c, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			pairs, err := aligner.Pairing.Pairs(len(seqs))
			if err != nil {
				return err
			}

			// process bar
			var pbs *mpb.Progress
			var bar *mpb.Bar
			if showProgress {
				pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(cmd.ErrOrStderr()))
				bar = pbs.AddBar(int64(len(pairs)),
					mpb.PrependDecorators(
						decor.Name("aligned pairs: ", decor.WC{W: len("aligned pairs: "), C: decor.DindentRight}),
						decor.Name("", decor.WCSyncSpaceR),
						decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
					),
					mpb.AppendDecorators(
						decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
						decor.EwmaETA(decor.ET_STYLE_GO, 1024),
						decor.OnComplete(decor.Name(""), ". done"),
					),
				)
				aligner.Progress = func(_ alignment.Pair, elapsed time.Duration) {
					bar.EwmaIncrBy(1, elapsed)
				}
			}

			start := time.Now()
			results, err := c.Align.AlignList(cmd.Context(), aligner, seqs)
			if pbs != nil {
				if err != nil {
					bar.Abort(false)
				}
				pbs.Wait()
			}
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			out := cmd.OutOrStdout()
			for k, res := range results {
				p := res.Best()
				fmt.Fprintf(out, "%s\t%s\tscore=%d\tidentity=%.1f%%\tcigar=%s\n",
					label(seqs[pairs[k].I], pairs[k].I), label(seqs[pairs[k].J], pairs[k].J),
					p.Score, p.Identity()*100, p.ToCIGAR())
			}

			var cells uint64
			for _, pair := range pairs {
				cells += uint64(seqs[pair.I].Len()+1) * uint64(seqs[pair.J].Len()+1)
			}
			fmt.Fprintf(out, "\naligned %s pairs (%s DP cells) in %s\n",
				humanize.Comma(int64(len(results))), humanize.Comma(int64(cells)), elapsed.Round(time.Millisecond))

			if summary, err := stats.FromAlignments(results); err == nil {
				fmt.Fprintln(out, summary)
			}
			if histogram > 0 {
				h, err := stats.NewIdentityHistogram(results, histogram)
				if err != nil {
					return err
				}
				fmt.Fprint(out, h)
			}

			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				defer f.Close()
				if err := bioflow.WriteAlignedFASTA(f, results); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&inputPath, "input", "i", "", "FASTA or one-per-line file with the sequences")
	flags.StringVarP(&outputPath, "out", "O", "", "write the aligned pairs to this FASTA file")
	flags.StringVar(&mode, "mode", "local", "alignment mode: global or local")
	flags.BoolVarP(&showProgress, "progress", "p", false, "show a progress bar on stderr")
	flags.IntVar(&histogram, "histogram", 0, "print an identity histogram with this many bins")
	flags.String("pairing", "sequential", "pair sequences sequentially (1-2, 3-4, ...) or all against all")
	flags.IntP("workers", "j", 0, "concurrent alignments (0 uses all CPUs)")

	a.v.BindPFlag("align.pairing", flags.Lookup("pairing"))
	a.v.BindPFlag("align.workers", flags.Lookup("workers"))
	return cmd
}

// readBatch collects the batch from args, or from path when set.
func readBatch(path string, args []string, alphabet *sequence.Alphabet) ([]sequence.Seq, error) {
	if path != "" && len(args) > 0 {
		return nil, fmt.Errorf("give sequences as arguments or with --input, not both")
	}

	var seqs []sequence.Seq
	if path != "" {
		records, err := bioflow.ReadSequences(path, alphabet)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			seqs = append(seqs, r)
		}
		return seqs, nil
	}

	for i, arg := range args {
		s, err := sequence.New(alphabet, arg)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i+1, err)
		}
		seqs = append(seqs, s)
	}
	return seqs, nil
}

// label names a batch member by ID, or by 1-based position.
func label(s sequence.Seq, i int) string {
	if s.ID() != "" {
		return s.ID()
	}
	return fmt.Sprintf("#%d", i+1)
}
