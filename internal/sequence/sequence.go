// Package sequence provides DNA, RNA and protein sequence types with validation.
//
// A Sequence is immutable once built: every symbol is checked against the
// declared Alphabet at construction time and stored upper-cased.
package sequence

import (
	"bytes"
	"fmt"
)

// Seq is the read-only view of a sequence that the aligners consume.
type Seq interface {
	ID() string
	Len() int
	At(i int) byte
	Alphabet() *Alphabet
}

// Sequence is a validated biological sequence.
type Sequence struct {
	id          string
	description string
	alphabet    *Alphabet
	data        []byte
}

// New creates a sequence over the given alphabet. Gap symbols are accepted, so
// gapped alignment output can be represented with the same type. An empty
// string yields an empty sequence.
func New(alphabet *Alphabet, symbols string) (*Sequence, error) {
	if alphabet == nil {
		return nil, fmt.Errorf("alphabet cannot be nil")
	}
	if err := ValidateString(symbols, alphabet, true); err != nil {
		return nil, err
	}

	data := []byte(symbols)
	for i, c := range data {
		data[i] = toUpper(c)
	}

	return &Sequence{alphabet: alphabet, data: data}, nil
}

// NewDNA creates a DNA sequence.
func NewDNA(symbols string) (*Sequence, error) {
	return New(DNA, symbols)
}

// NewRNA creates an RNA sequence.
func NewRNA(symbols string) (*Sequence, error) {
	return New(RNA, symbols)
}

// NewProtein creates a protein sequence.
func NewProtein(symbols string) (*Sequence, error) {
	return New(Protein, symbols)
}

// WithID creates a new sequence with an identifier.
func WithID(alphabet *Alphabet, symbols, id string) (*Sequence, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("ID cannot be empty")
	}

	seq, err := New(alphabet, symbols)
	if err != nil {
		return nil, err
	}

	seq.id = id
	return seq, nil
}

// fromBytes wraps already-normalized symbols without copying.
func fromBytes(alphabet *Alphabet, id string, data []byte) *Sequence {
	return &Sequence{id: id, alphabet: alphabet, data: data}
}

// Gapped builds a gapped sequence from symbols produced by an aligner. The
// symbols must already belong to alphabet; only the gap is added.
func Gapped(alphabet *Alphabet, id string, symbols []byte) *Sequence {
	return fromBytes(alphabet, id, symbols)
}

// ID returns the identifier, possibly empty.
func (s *Sequence) ID() string {
	return s.id
}

// Description returns the free-text description, possibly empty.
func (s *Sequence) Description() string {
	return s.description
}

// WithDescription returns a copy of s carrying the given description.
func (s *Sequence) WithDescription(description string) *Sequence {
	c := *s
	c.description = description
	return &c
}

// Alphabet returns the sequence alphabet.
func (s *Sequence) Alphabet() *Alphabet {
	return s.alphabet
}

// Len returns the number of symbols, gaps included.
func (s *Sequence) Len() int {
	return len(s.data)
}

// At returns the symbol at index i. It panics if i is out of range, like a slice.
func (s *Sequence) At(i int) byte {
	return s.data[i]
}

// Bytes returns a copy of the symbols.
func (s *Sequence) Bytes() []byte {
	return append([]byte(nil), s.data...)
}

// Subsequence returns symbols [start, end) as a new sequence.
func (s *Sequence) Subsequence(start, end int) (*Sequence, error) {
	if start < 0 || end < start || end > len(s.data) {
		return nil, &InvalidRangeError{Start: start, End: end, Length: len(s.data)}
	}

	return &Sequence{
		id:          s.id,
		description: s.description,
		alphabet:    s.alphabet,
		data:        s.data[start:end:end],
	}, nil
}

// Ungapped returns the sequence with every gap symbol removed.
func (s *Sequence) Ungapped() *Sequence {
	gap := []byte{s.alphabet.Gap()}
	return fromBytes(s.alphabet, s.id, bytes.ReplaceAll(s.data, gap, nil))
}

// GapCount counts gap symbols.
func (s *Sequence) GapCount() int {
	return bytes.Count(s.data, []byte{s.alphabet.Gap()})
}

// HasAmbiguous checks if the sequence contains any ambiguity codes.
func (s *Sequence) HasAmbiguous() bool {
	for _, c := range s.data {
		if s.alphabet.IsAmbiguous(c) {
			return true
		}
	}
	return false
}

// String returns the symbols as a string.
func (s *Sequence) String() string {
	return string(s.data)
}

// Equal checks equality with another sequence.
func (s *Sequence) Equal(other *Sequence) bool {
	if other == nil {
		return false
	}
	return s.alphabet == other.alphabet && bytes.Equal(s.data, other.data)
}

// Symbols returns the symbols of any Seq as a byte slice. For a *Sequence the
// backing array is shared and must not be modified.
func Symbols(s Seq) []byte {
	if seq, ok := s.(*Sequence); ok {
		return seq.data
	}
	out := make([]byte, s.Len())
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}
