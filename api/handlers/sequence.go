// Package handlers provides HTTP handlers for the BioFlow alignment API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aria-lang/bioflow-align/internal/sequence"
	"github.com/aria-lang/bioflow-align/pkg/bioflow"
)

// SequenceRoutes registers the sequence endpoints on r.
func (h *AlignmentHandler) SequenceRoutes(r chi.Router) {
	r.Route("/sequence", func(r chi.Router) {
		r.Post("/validate", h.ValidateSequence)
		r.Post("/stats", h.SequenceSetStats)
	})
}

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
	Alphabet string `json:"alphabet"`
	// Matrix optionally names a matrix the sequence must be scorable with.
	Matrix string `json:"matrix"`
}

// ValidateResponse represents validation result.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Alphabet string `json:"alphabet"`
	Length   int    `json:"length"`
	Message  string `json:"message,omitempty"`
	// Position of the first rejected symbol, -1 when valid.
	Position int `json:"position"`
}

// ValidateSequence reports whether a sequence can be aligned: its symbols
// must belong to the alphabet, gaps are rejected, and when a matrix is named
// it must support every symbol.
func (h *AlignmentHandler) ValidateSequence(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	cfg := h.Defaults
	if req.Alphabet != "" {
		cfg.Alphabet = req.Alphabet
	}
	alphabet, err := cfg.SequenceAlphabet()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := ValidateResponse{Valid: true, Alphabet: alphabet.Name(), Length: len(req.Sequence), Position: -1}

	var seqErr *sequence.InvalidSequenceError
	if err := sequence.ValidateString(req.Sequence, alphabet, false); err != nil {
		resp.Valid = false
		resp.Message = err.Error()
		if errors.As(err, &seqErr) {
			resp.Position = seqErr.Position
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	if req.Matrix != "" {
		m, err := requestMatrix(cfg, req.Matrix)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		seq, _ := sequence.New(alphabet, req.Sequence)
		if pos, ok := bioflow.MatrixSupports(m, seq); !ok {
			resp.Valid = false
			resp.Position = pos
			resp.Message = fmt.Sprintf("symbol '%c' is not supported by similarity matrix %s", seq.At(pos), m.Name())
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// SequenceSetRequest represents a request with multiple sequences.
type SequenceSetRequest struct {
	Sequences []string `json:"sequences"`
	Alphabet  string   `json:"alphabet"`
}

// SequenceSetStats handles sequence set statistics requests.
func (h *AlignmentHandler) SequenceSetStats(w http.ResponseWriter, r *http.Request) {
	var req SequenceSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	cfg := h.Defaults
	if req.Alphabet != "" {
		cfg.Alphabet = req.Alphabet
	}
	alphabet, err := cfg.SequenceAlphabet()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sequences := make([]bioflow.Seq, 0, len(req.Sequences))
	for i, s := range req.Sequences {
		seq, err := sequence.New(alphabet, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("sequences[%d]: %w", i, err))
			return
		}
		sequences = append(sequences, seq)
	}

	stats, err := bioflow.SummarizeSequences(sequences)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
