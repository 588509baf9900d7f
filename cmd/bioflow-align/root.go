package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aria-lang/bioflow-align/internal/config"
	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/pkg/bioflow"
)

// app carries the settings shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
}

// newRootCmd represents the base command when called without any subcommands.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)
	a.v.SetEnvPrefix("bioflow")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "bioflow-align",
		Short: "Pairwise sequence alignment with Needleman-Wunsch and Smith-Waterman",
		Long: `Pairwise sequence alignment with Needleman-Wunsch and Smith-Waterman

Sequences are scored with a similarity matrix: a match/mismatch "diagonal"
matrix, one of the embedded tables (blosum62, dna), or a matrix file. Gaps
cost --gap-open per symbol, or with --affine, --gap-open for the first symbol
of a run and --gap-extension for each further one.`,
		Version:       bioflow.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "path to a YAML config file")
	flags.StringP("alphabet", "a", "dna", "sequence alphabet: dna, rna or protein")
	flags.StringP("matrix", "m", "diagonal", "similarity matrix: diagonal, blosum62, dna, or a matrix file")
	flags.Int("match", 2, "diagonal matrix score for identical symbols")
	flags.Int("mismatch", -2, "diagonal matrix score for different symbols")
	flags.IntP("gap-open", "o", -8, "gap opening cost (negative)")
	flags.IntP("gap-extension", "e", -1, "gap extension cost (affine only, zero or negative)")
	flags.Bool("affine", false, "use affine (Gotoh) gap costs")
	flags.Int("max-cells", 50_000_000, "reject pairs whose DP grids exceed this many cells (0 disables)")
	flags.BoolP("verbose", "v", false, "log rejected inputs")

	// Bind the parameters to viper
	for _, key := range []string{"alphabet", "matrix", "match", "mismatch", "gap-open", "gap-extension", "affine", "max-cells"} {
		a.v.BindPFlag("align."+key, flags.Lookup(key))
	}
	a.v.BindPFlag("verbose", flags.Lookup("verbose"))

	rootCmd.AddCommand(
		newAlignCmd(a, "global"),
		newAlignCmd(a, "local"),
		newBatchCmd(a),
		newMatrixCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// config decodes the settings of this invocation.
func (a *app) config() (config.Config, error) {
	return config.Load(a.v, a.cfgFile)
}

// logger returns the aligner logger, nil unless --verbose is set.
func (a *app) logger(c config.Config, w io.Writer) *log.Logger {
	if !c.Verbose {
		return nil
	}
	return log.New(w, "bioflow-align: ", 0)
}

// parseSequenceArg reads a sequence argument: literal symbols, or "@path"
// for the first record of a FASTA or plain list file.
func parseSequenceArg(arg string, alphabet *sequence.Alphabet) (*sequence.Sequence, error) {
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		seqs, err := bioflow.ReadSequences(path, alphabet)
		if err != nil {
			return nil, err
		}
		if len(seqs) == 0 {
			return nil, fmt.Errorf("no sequences in %s", path)
		}
		return seqs[0], nil
	}
	return sequence.New(alphabet, arg)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), bioflow.Info())
		},
	}
}
