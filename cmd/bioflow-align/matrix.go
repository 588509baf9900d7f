package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aria-lang/bioflow-align/internal/similarity"
)

func newMatrixCmd(a *app) *cobra.Command {
	var printTable bool

	cmd := &cobra.Command{
		Use:   "matrix [file|name]",
		Short: "Check or print a similarity matrix",
		Long: `Check or print a similarity matrix

With a file argument the file is parsed and its shape reported, or the first
format error with its line number. A standard name (blosum62, dna) reports the
embedded table. Without arguments the embedded tables are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range similarity.StandardNames() {
					t, err := similarity.Standard(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\t%d symbols\t%s\n", name, t.Size(), t.Symbols())
				}
				return nil
			}

			t, err := loadMatrix(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "name: %s\n", t.Name())
			fmt.Fprintf(out, "symbols: %s (%d)\n", t.Symbols(), t.Size())
			fmt.Fprintf(out, "symmetric: %t\n", t.IsSymmetric())
			if printTable {
				fmt.Fprintln(out)
				fmt.Fprint(out, t.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printTable, "print", false, "print the parsed table")
	return cmd
}

func loadMatrix(arg string) (*similarity.Table, error) {
	for _, name := range similarity.StandardNames() {
		if strings.EqualFold(arg, name) {
			return similarity.Standard(name)
		}
	}
	return similarity.Load(arg)
}
