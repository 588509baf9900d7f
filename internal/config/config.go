// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/internal/similarity"
)

// AlignConfig holds the scoring and batching settings shared by the CLI
// commands and the HTTP handlers
type AlignConfig struct {
	// alphabet of the input sequences: dna, rna or protein
	Alphabet string `mapstructure:"alphabet"`

	// a standard matrix name (blosum62, dna), "diagonal", or a path
	// to a matrix file
	Matrix string `mapstructure:"matrix"`

	// diagonal matrix scores
	Match    int `mapstructure:"match"`
	Mismatch int `mapstructure:"mismatch"`

	GapOpen      int `mapstructure:"gap-open"`
	GapExtension int `mapstructure:"gap-extension"`

	// whether to use affine (Gotoh) gap costs
	Affine bool `mapstructure:"affine"`

	// list pairing: sequential or all
	Pairing string `mapstructure:"pairing"`

	Workers  int `mapstructure:"workers"`
	MaxCells int `mapstructure:"max-cells"`

	// whether to keep the rendered DP grid in result metadata
	ScoreTable bool `mapstructure:"score-table"`
}

// ServerConfig is for the HTTP server
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`

	// upper bound on sequences in one batch request
	MaxBatch int `mapstructure:"max-batch"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a config file and those
// available from the command line
type Config struct {
	Align  AlignConfig  `mapstructure:"align"`
	Server ServerConfig `mapstructure:"server"`

	// log rejected inputs and per-pair progress
	Verbose bool `mapstructure:"verbose"`
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("align.alphabet", "dna")
	v.SetDefault("align.matrix", "diagonal")
	v.SetDefault("align.match", alignment.DefaultMatch)
	v.SetDefault("align.mismatch", alignment.DefaultMismatch)
	v.SetDefault("align.gap-open", alignment.DefaultGapOpenCost)
	v.SetDefault("align.gap-extension", alignment.DefaultGapExtensionCost)
	v.SetDefault("align.affine", false)
	v.SetDefault("align.pairing", "sequential")
	v.SetDefault("align.workers", 0)
	v.SetDefault("align.max-cells", 50_000_000)
	v.SetDefault("align.score-table", false)

	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("server.read-timeout", 15*time.Second)
	v.SetDefault("server.write-timeout", 60*time.Second)
	v.SetDefault("server.shutdown-timeout", 30*time.Second)
	v.SetDefault("server.max-batch", 1000)

	v.SetDefault("verbose", false)
}

// Load decodes the settings held by v into a Config. A non-empty path is
// read as a config file first (any format viper supports, usually YAML).
func Load(v *viper.Viper, path string) (Config, error) {
	var c Config

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return c, nil
}

// NewConfig returns a new Config struct populated by
// the global Viper settings (from a config file
// and/or command line arguments)
func NewConfig() Config {
	var c Config

	err := viper.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode into struct, %v", err)
	}

	return c
}

// SequenceAlphabet resolves the configured alphabet name.
func (c AlignConfig) SequenceAlphabet() (*sequence.Alphabet, error) {
	return sequence.ByName(c.Alphabet)
}

// SimilarityMatrix resolves the configured matrix. "diagonal" (or empty)
// builds a match/mismatch matrix over the configured alphabet, a standard
// name selects an embedded table, and anything else is loaded as a file.
func (c AlignConfig) SimilarityMatrix() (similarity.Matrix, error) {
	name := strings.TrimSpace(c.Matrix)
	switch strings.ToLower(name) {
	case "", "diagonal":
		alphabet, err := c.SequenceAlphabet()
		if err != nil {
			return nil, err
		}
		return similarity.NewDiagonalFor(alphabet, c.Match, c.Mismatch), nil
	}

	for _, std := range similarity.StandardNames() {
		if strings.EqualFold(name, std) {
			return similarity.Standard(std)
		}
	}
	return similarity.Load(name)
}

// NewAligner builds an aligner for mode ("global" or "local") from the
// settings. Cost validation is left to the aligner so callers get the
// usual alignment error types.
func (c AlignConfig) NewAligner(mode string, logger *log.Logger) (*alignment.Aligner, error) {
	m, err := c.SimilarityMatrix()
	if err != nil {
		return nil, err
	}
	return c.NewAlignerWithMatrix(mode, m, logger)
}

// NewAlignerWithMatrix is NewAligner with an already resolved matrix; the
// Matrix setting is ignored.
func (c AlignConfig) NewAlignerWithMatrix(mode string, m similarity.Matrix, logger *log.Logger) (*alignment.Aligner, error) {
	pairing, err := alignment.ParsePairing(c.Pairing)
	if err != nil {
		return nil, err
	}

	opts := []alignment.Option{
		alignment.WithSimilarityMatrix(m),
		alignment.WithGapOpenCost(c.GapOpen),
		alignment.WithGapExtensionCost(c.GapExtension),
		alignment.WithPairing(pairing),
		alignment.WithWorkers(c.Workers),
		alignment.WithMaxCells(c.MaxCells),
	}
	if c.ScoreTable {
		opts = append(opts, alignment.WithScoreTable())
	}
	if logger != nil {
		opts = append(opts, alignment.WithLogger(logger))
	}

	switch strings.ToLower(mode) {
	case "global":
		return alignment.NewNeedlemanWunschAligner(opts...), nil
	case "local":
		return alignment.NewSmithWatermanAligner(opts...), nil
	default:
		return nil, fmt.Errorf("unknown alignment mode %q (use global or local)", mode)
	}
}

// Align aligns one pair with the affine or linear gap model, per Affine.
func (c AlignConfig) Align(a *alignment.Aligner, s1, s2 sequence.Seq) (*alignment.PairwiseSequenceAlignment, error) {
	if c.Affine {
		return a.Align(s1, s2)
	}
	return a.AlignSimple(s1, s2)
}

// AlignList is the list form of Align.
func (c AlignConfig) AlignList(ctx context.Context, a *alignment.Aligner, seqs []sequence.Seq) ([]*alignment.PairwiseSequenceAlignment, error) {
	if c.Affine {
		return a.AlignListContext(ctx, seqs)
	}
	return a.AlignSimpleListContext(ctx, seqs)
}
