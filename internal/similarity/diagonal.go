package similarity

import (
	"fmt"

	"github.com/aria-lang/bioflow-align/internal/sequence"
)

// Diagonal scores identical symbols with a match value and any other pair of
// supported symbols with a mismatch value. Only the two values are stored.
type Diagonal struct {
	match    int
	mismatch int
	members  [256]bool
}

// NewDiagonal creates a diagonal matrix that accepts any DNA, RNA or protein
// symbol, gaps excluded.
func NewDiagonal(match, mismatch int) *Diagonal {
	return NewDiagonalFor(nil, match, mismatch)
}

// NewDiagonalFor creates a diagonal matrix restricted to one alphabet. A nil
// alphabet selects the union of the predefined alphabets.
func NewDiagonalFor(alphabet *sequence.Alphabet, match, mismatch int) *Diagonal {
	d := &Diagonal{match: match, mismatch: mismatch}
	alphabets := []*sequence.Alphabet{alphabet}
	if alphabet == nil {
		alphabets = []*sequence.Alphabet{sequence.DNA, sequence.RNA, sequence.Protein}
	}
	for _, a := range alphabets {
		symbols := a.Symbols()
		for i := 0; i < len(symbols); i++ {
			c := symbols[i]
			if a.IsGap(c) {
				continue
			}
			d.members[c] = true
			d.members[toLower(c)] = true
		}
	}
	return d
}

// Match returns the score for identical symbols.
func (d *Diagonal) Match() int {
	return d.match
}

// Mismatch returns the score for differing symbols.
func (d *Diagonal) Mismatch() int {
	return d.mismatch
}

// Supports reports whether the symbol is in the working alphabet.
func (d *Diagonal) Supports(symbol byte) bool {
	return d.members[symbol]
}

// Score returns the match value for equal symbols (ignoring case), the
// mismatch value otherwise.
func (d *Diagonal) Score(a, b byte) (int, error) {
	if !d.members[a] {
		return 0, &InvalidAlphabetError{Symbol: a, Matrix: d.Name()}
	}
	if !d.members[b] {
		return 0, &InvalidAlphabetError{Symbol: b, Matrix: d.Name()}
	}
	if toUpper(a) == toUpper(b) {
		return d.match, nil
	}
	return d.mismatch, nil
}

// Name returns e.g. "diagonal(2,-2)".
func (d *Diagonal) Name() string {
	return fmt.Sprintf("diagonal(%d,%d)", d.match, d.mismatch)
}

func (d *Diagonal) String() string {
	return fmt.Sprintf("Diagonal { match: %d, mismatch: %d }", d.match, d.mismatch)
}
