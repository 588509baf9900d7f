package sequence

import (
	"fmt"
	"strings"
)

// Alphabet is a fixed set of symbols valid for one kind of biological sequence,
// including its ambiguity codes and gap symbol. Membership is case-insensitive.
type Alphabet struct {
	name      string
	basic     string
	ambiguous string
	gap       byte
	members   [256]bool
}

// Predefined alphabets.
var (
	// DNA holds A, C, G, T plus the IUPAC nucleotide ambiguity codes.
	DNA = newAlphabet("DNA", "ACGT", "NRYKMSWBDHV", '-')
	// RNA holds A, C, G, U plus the IUPAC nucleotide ambiguity codes.
	RNA = newAlphabet("RNA", "ACGU", "NRYKMSWBDHV", '-')
	// Protein holds the 20 standard amino acids, B/Z/J/X ambiguity codes,
	// selenocysteine (U), pyrrolysine (O) and the stop symbol.
	Protein = newAlphabet("Protein", "ACDEFGHIKLMNPQRSTVWY", "BZJXUO*", '-')
)

func newAlphabet(name, basic, ambiguous string, gap byte) *Alphabet {
	a := &Alphabet{name: name, basic: basic, ambiguous: ambiguous, gap: gap}
	for _, set := range []string{basic, ambiguous} {
		for i := 0; i < len(set); i++ {
			a.members[set[i]] = true
			a.members[toLower(set[i])] = true
		}
	}
	a.members[gap] = true
	return a
}

// ByName returns the predefined alphabet with the given name (case-insensitive).
func ByName(name string) (*Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dna", "":
		return DNA, nil
	case "rna":
		return RNA, nil
	case "protein", "aa":
		return Protein, nil
	default:
		return nil, fmt.Errorf("unknown alphabet %q", name)
	}
}

// Name returns the alphabet name, e.g. "DNA".
func (a *Alphabet) Name() string {
	return a.name
}

// Gap returns the gap symbol.
func (a *Alphabet) Gap() byte {
	return a.gap
}

// Contains reports whether c belongs to the alphabet. The gap symbol is a member.
func (a *Alphabet) Contains(c byte) bool {
	return a.members[c]
}

// IsGap reports whether c is the gap symbol.
func (a *Alphabet) IsGap(c byte) bool {
	return c == a.gap
}

// IsAmbiguous reports whether c is one of the alphabet's ambiguity codes.
func (a *Alphabet) IsAmbiguous(c byte) bool {
	return strings.IndexByte(a.ambiguous, toUpper(c)) >= 0
}

// Symbols returns every upper-case symbol of the alphabet, gap last.
func (a *Alphabet) Symbols() string {
	return a.basic + a.ambiguous + string(a.gap)
}

// BasicSymbols returns the unambiguous symbols only.
func (a *Alphabet) BasicSymbols() string {
	return a.basic
}

func (a *Alphabet) String() string {
	return a.name
}

// Normalize folds an ASCII letter to upper case. Other bytes are returned unchanged.
func Normalize(c byte) byte {
	return toUpper(c)
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
