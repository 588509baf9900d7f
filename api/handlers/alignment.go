package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aria-lang/bioflow-align/internal/alignment"
	"github.com/aria-lang/bioflow-align/internal/config"
	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/internal/similarity"
	"github.com/aria-lang/bioflow-align/internal/stats"
)

// AlignmentHandler serves alignment requests. Scoring fields missing from a
// request fall back to Defaults.
type AlignmentHandler struct {
	Defaults config.AlignConfig
	// MaxBatch caps the sequences accepted by one batch request; 0 means no cap.
	MaxBatch int
	Logger   *log.Logger
}

// NewAlignmentHandler creates a handler from the app config.
func NewAlignmentHandler(c config.Config, logger *log.Logger) *AlignmentHandler {
	return &AlignmentHandler{
		Defaults: c.Align,
		MaxBatch: c.Server.MaxBatch,
		Logger:   logger,
	}
}

// Routes registers the alignment, matrix and sequence endpoints on r.
func (h *AlignmentHandler) Routes(r chi.Router) {
	r.Route("/alignment", func(r chi.Router) {
		r.Post("/global", h.Global)
		r.Post("/local", h.Local)
		r.Post("/batch", h.Batch)
	})
	r.Route("/matrix", func(r chi.Router) {
		r.Get("/", h.StandardMatrices)
		r.Post("/validate", h.ValidateMatrix)
	})
	h.SequenceRoutes(r)
}

// Scoring holds the optional scoring overrides of a request.
type Scoring struct {
	Alphabet string `json:"alphabet"`
	// Matrix is "diagonal", a standard matrix name, or matrix text.
	Matrix       string `json:"matrix"`
	Match        *int   `json:"match"`
	Mismatch     *int   `json:"mismatch"`
	GapOpen      *int   `json:"gap_open"`
	GapExtension *int   `json:"gap_extension"`
	Affine       *bool  `json:"affine"`
	ScoreTable   bool   `json:"score_table"`
}

// AlignmentRequest represents a pairwise alignment request.
type AlignmentRequest struct {
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
	Scoring
}

// BatchRequest represents a list alignment request.
type BatchRequest struct {
	Sequences []string `json:"sequences"`
	// Pairing is "sequential" (default) or "all".
	Pairing string `json:"pairing"`
	Scoring
}

// AlignmentResponse represents one aligned pair.
type AlignmentResponse struct {
	Mode         string  `json:"mode"`
	Matrix       string  `json:"matrix"`
	AlignedSeq1  string  `json:"aligned_seq1"`
	AlignedSeq2  string  `json:"aligned_seq2"`
	Score        int     `json:"score"`
	Identity     float64 `json:"identity"`
	CIGAR        string  `json:"cigar"`
	Matches      int     `json:"matches"`
	Mismatches   int     `json:"mismatches"`
	Gaps         int     `json:"gaps"`
	GapOpenings  int     `json:"gap_openings"`
	FirstStart   int     `json:"first_start"`
	FirstEnd     int     `json:"first_end"`
	SecondStart  int     `json:"second_start"`
	SecondEnd    int     `json:"second_end"`
	FirstOffset  int     `json:"first_offset"`
	SecondOffset int     `json:"second_offset"`
	ScoreTable   string  `json:"score_table,omitempty"`
}

// BatchResponse represents the results of a list alignment.
type BatchResponse struct {
	Pairs      []alignment.Pair      `json:"pairs"`
	Alignments []AlignmentResponse   `json:"alignments"`
	Summary    *stats.AlignmentStats `json:"summary"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Global handles Needleman-Wunsch requests.
func (h *AlignmentHandler) Global(w http.ResponseWriter, r *http.Request) {
	h.align(w, r, "global")
}

// Local handles Smith-Waterman requests.
func (h *AlignmentHandler) Local(w http.ResponseWriter, r *http.Request) {
	h.align(w, r, "local")
}

func (h *AlignmentHandler) align(w http.ResponseWriter, r *http.Request, mode string) {
	var req AlignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	cfg, aligner, err := h.aligner(req.Scoring, mode, "")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	alphabet, _ := cfg.SequenceAlphabet()

	seq1, err := sequence.New(alphabet, req.Sequence1)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("sequence1: %w", err))
		return
	}
	seq2, err := sequence.New(alphabet, req.Sequence2)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("sequence2: %w", err))
		return
	}

	res, err := cfg.Align(aligner, seq1, seq2)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, newAlignmentResponse(res))
}

// Batch handles list alignment requests.
func (h *AlignmentHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if h.MaxBatch > 0 && len(req.Sequences) > h.MaxBatch {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("batch of %d sequences exceeds the limit of %d", len(req.Sequences), h.MaxBatch))
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "local"
	}
	cfg, aligner, err := h.aligner(req.Scoring, mode, req.Pairing)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	alphabet, _ := cfg.SequenceAlphabet()

	seqs := make([]sequence.Seq, len(req.Sequences))
	for i, s := range req.Sequences {
		seq, err := sequence.New(alphabet, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("sequences[%d]: %w", i, err))
			return
		}
		seqs[i] = seq
	}

	results, err := cfg.AlignList(r.Context(), aligner, seqs)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	pairs, _ := aligner.Pairing.Pairs(len(seqs))
	resp := BatchResponse{Pairs: pairs, Alignments: make([]AlignmentResponse, len(results))}
	for i, res := range results {
		resp.Alignments[i] = newAlignmentResponse(res)
	}
	if summary, err := stats.FromAlignments(results); err == nil {
		resp.Summary = summary
	}

	writeJSON(w, http.StatusOK, resp)
}

// aligner merges the request overrides into the defaults and builds the
// aligner. Errors are request errors.
func (h *AlignmentHandler) aligner(s Scoring, mode, pairing string) (config.AlignConfig, *alignment.Aligner, error) {
	cfg := h.Defaults
	if s.Alphabet != "" {
		cfg.Alphabet = s.Alphabet
	}
	if s.Match != nil {
		cfg.Match = *s.Match
	}
	if s.Mismatch != nil {
		cfg.Mismatch = *s.Mismatch
	}
	if s.GapOpen != nil {
		cfg.GapOpen = *s.GapOpen
	}
	if s.GapExtension != nil {
		cfg.GapExtension = *s.GapExtension
	}
	if s.Affine != nil {
		cfg.Affine = *s.Affine
	}
	if pairing != "" {
		cfg.Pairing = pairing
	}
	cfg.ScoreTable = cfg.ScoreTable || s.ScoreTable

	if _, err := cfg.SequenceAlphabet(); err != nil {
		return cfg, nil, err
	}
	m, err := requestMatrix(cfg, s.Matrix)
	if err != nil {
		return cfg, nil, err
	}
	a, err := cfg.NewAlignerWithMatrix(mode, m, h.Logger)
	return cfg, a, err
}

// requestMatrix resolves a request's matrix field. An empty field selects the
// configured matrix; paths given in a request are never read.
func requestMatrix(cfg config.AlignConfig, matrix string) (similarity.Matrix, error) {
	name := strings.TrimSpace(matrix)
	switch {
	case strings.Contains(matrix, "\n"):
		return similarity.ParseString(matrix)
	case name == "":
		return cfg.SimilarityMatrix()
	case strings.EqualFold(name, "diagonal"):
		cfg.Matrix = "diagonal"
		return cfg.SimilarityMatrix()
	}

	for _, std := range similarity.StandardNames() {
		if strings.EqualFold(name, std) {
			return similarity.Standard(std)
		}
	}
	return nil, fmt.Errorf("unknown matrix %q (use diagonal, %s, or inline matrix text)",
		name, strings.Join(similarity.StandardNames(), ", "))
}

// MatrixRequest carries similarity matrix text.
type MatrixRequest struct {
	Matrix string `json:"matrix"`
}

// MatrixResponse describes a parsed similarity matrix.
type MatrixResponse struct {
	Name      string `json:"name"`
	Symbols   string `json:"symbols"`
	Size      int    `json:"size"`
	Symmetric bool   `json:"symmetric"`
}

// ValidateMatrix parses matrix text and reports its shape, or the first
// format error.
func (h *AlignmentHandler) ValidateMatrix(w http.ResponseWriter, r *http.Request) {
	var req MatrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	t, err := similarity.ParseString(req.Matrix)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, newMatrixResponse(t))
}

// StandardMatrices lists the embedded matrices.
func (h *AlignmentHandler) StandardMatrices(w http.ResponseWriter, r *http.Request) {
	names := similarity.StandardNames()
	resp := make([]MatrixResponse, 0, len(names))
	for _, name := range names {
		t, err := similarity.Standard(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp = append(resp, newMatrixResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func newMatrixResponse(t *similarity.Table) MatrixResponse {
	return MatrixResponse{
		Name:      t.Name(),
		Symbols:   t.Symbols(),
		Size:      t.Size(),
		Symmetric: t.IsSymmetric(),
	}
}

func newAlignmentResponse(res *alignment.PairwiseSequenceAlignment) AlignmentResponse {
	p := res.Best()
	resp := AlignmentResponse{
		AlignedSeq1:  p.FirstSequence.String(),
		AlignedSeq2:  p.SecondSequence.String(),
		Mode:         p.Mode.String(),
		Score:        p.Score,
		Identity:     p.Identity(),
		CIGAR:        p.ToCIGAR(),
		Matches:      p.MatchCount(),
		Mismatches:   p.MismatchCount(),
		Gaps:         p.TotalGaps(),
		GapOpenings:  p.GapOpenings(),
		FirstStart:   p.FirstStart,
		FirstEnd:     p.FirstEnd,
		SecondStart:  p.SecondStart,
		SecondEnd:    p.SecondEnd,
		FirstOffset:  p.FirstOffset,
		SecondOffset: p.SecondOffset,
	}
	if name, ok := res.Metadata[alignment.MetadataMatrix].(string); ok {
		resp.Matrix = name
	}
	if table, ok := res.Metadata[alignment.MetadataScoreTable].(string); ok {
		resp.ScoreTable = table
	}
	return resp
}

// statusFor maps alignment errors to HTTP status codes: bad input is 400,
// alphabet mismatches are 422.
func statusFor(err error) int {
	var (
		alphaErr  *alignment.NonMatchingAlphabetError
		symbolErr *similarity.InvalidAlphabetError
		argErr    *alignment.ArgumentError
		costErr   *alignment.ConfigurationError
		seqErr    sequence.SequenceError
		matrixErr similarity.MatrixError
	)
	switch {
	case errors.As(err, &alphaErr), errors.As(err, &symbolErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &argErr), errors.As(err, &costErr), errors.As(err, &seqErr), errors.As(err, &matrixErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
