package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/config"
)

func newAlignCmd(a *app, mode string) *cobra.Command {
	var showTable bool

	short := "Align two sequences end to end (Needleman-Wunsch)"
	if mode == "local" {
		short = "Find the best matching region of two sequences (Smith-Waterman)"
	}

	cmd := &cobra.Command{
		Use:   mode + " <seq1> <seq2>",
		Short: short,
		Long: short + `

Each argument is either the sequence itself or "@path" to read the first
record of a FASTA or one-per-line file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.config()
			if err != nil {
				return err
			}
			c.Align.ScoreTable = c.Align.ScoreTable || showTable

			alphabet, err := c.Align.SequenceAlphabet()
			if err != nil {
				return err
			}
			s1, err := parseSequenceArg(args[0], alphabet)
			if err != nil {
				return fmt.Errorf("sequence 1: %w", err)
			}
			s2, err := parseSequenceArg(args[1], alphabet)
			if err != nil {
				return fmt.Errorf("sequence 2: %w", err)
			}

			aligner, err := c.Align.NewAligner(mode, a.logger(c, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			res, err := c.Align.Align(aligner, s1, s2)
			if err != nil {
				return err
			}

			printAlignment(cmd.OutOrStdout(), aligner, c.Align, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTable, "table", false, "print the DP score table")
	return cmd
}

// printAlignment writes a header naming the scoring, the formatted pair and
// its coordinates.
func printAlignment(w io.Writer, aligner *alignment.Aligner, c config.AlignConfig, res *alignment.PairwiseSequenceAlignment) {
	gaps := fmt.Sprintf("gap %d", aligner.GapOpenCost)
	if c.Affine {
		gaps = fmt.Sprintf("gap open %d, extension %d", aligner.GapOpenCost, aligner.GapExtensionCost)
	}
	fmt.Fprintf(w, "%s (%s, %s, %s)\n", aligner.Name(), aligner.Mode, aligner.SimilarityMatrix.Name(), gaps)

	p := res.Best()
	if p.Length() == 0 {
		fmt.Fprintln(w, "No similar region found")
		fmt.Fprintf(w, "Score: %d\n", p.Score)
	} else {
		fmt.Fprintln(w, p.Format())
		fmt.Fprintf(w, "Region: first %d-%d, second %d-%d\n", p.FirstStart+1, p.FirstEnd, p.SecondStart+1, p.SecondEnd)
	}

	if table, ok := res.Metadata[alignment.MetadataScoreTable].(string); ok {
		fmt.Fprintln(w)
		fmt.Fprint(w, table)
	}
}
