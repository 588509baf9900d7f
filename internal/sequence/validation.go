package sequence

import (
	"fmt"
	"unicode/utf8"
)

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// InvalidKind classifies why a sequence was rejected.
type InvalidKind int

const (
	// InvalidSymbol is an ASCII symbol outside the declared alphabet.
	InvalidSymbol InvalidKind = iota
	// UnicodeSymbol is a non-ASCII character.
	UnicodeSymbol
	// WhitespaceSymbol is an embedded space, tab or line break.
	WhitespaceSymbol
	// GapSymbol is a gap where gaps are not allowed.
	GapSymbol
)

func (k InvalidKind) String() string {
	switch k {
	case UnicodeSymbol:
		return "unicode"
	case WhitespaceSymbol:
		return "whitespace"
	case GapSymbol:
		return "gap"
	default:
		return "symbol"
	}
}

// InvalidSequenceError is returned when a sequence holds a character its
// alphabet does not allow. Kind selects the message class.
type InvalidSequenceError struct {
	Kind     InvalidKind
	Position int
	Found    rune
	Alphabet string
}

func (e *InvalidSequenceError) Error() string {
	switch e.Kind {
	case UnicodeSymbol:
		return fmt.Sprintf("sequence contains unicode character %q at position %d", e.Found, e.Position)
	case WhitespaceSymbol:
		return fmt.Sprintf("sequence contains embedded spaces at position %d", e.Position)
	case GapSymbol:
		return fmt.Sprintf("sequence contains gap symbol '%c' at position %d; gaps are not allowed in alignment input",
			e.Found, e.Position)
	default:
		return fmt.Sprintf("sequence contains symbol '%c' at position %d that is not in the %s alphabet",
			e.Found, e.Position, e.Alphabet)
	}
}

func (e *InvalidSequenceError) IsSequenceError() {}

// InvalidRangeError is returned for an out-of-bounds subsequence request.
type InvalidRangeError struct {
	Start  int
	End    int
	Length int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range [%d, %d) for sequence of length %d", e.Start, e.End, e.Length)
}

func (e *InvalidRangeError) IsSequenceError() {}

// ValidateString checks raw input against an alphabet. Checks run per position
// in this order: non-ASCII, whitespace, gap (when disallowed), membership.
func ValidateString(symbols string, alphabet *Alphabet, allowGaps bool) error {
	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		if c >= utf8.RuneSelf {
			r, _ := utf8.DecodeRuneInString(symbols[i:])
			return &InvalidSequenceError{Kind: UnicodeSymbol, Position: i, Found: r, Alphabet: alphabet.Name()}
		}
		if err := checkSymbol(c, i, alphabet, allowGaps); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks an existing sequence view. It is used by consumers that
// accept Seq implementations they did not construct.
func Validate(s Seq, allowGaps bool) error {
	alphabet := s.Alphabet()
	for i := 0; i < s.Len(); i++ {
		c := s.At(i)
		if c >= utf8.RuneSelf {
			return &InvalidSequenceError{Kind: UnicodeSymbol, Position: i, Found: rune(c), Alphabet: alphabet.Name()}
		}
		if err := checkSymbol(c, i, alphabet, allowGaps); err != nil {
			return err
		}
	}
	return nil
}

func checkSymbol(c byte, pos int, alphabet *Alphabet, allowGaps bool) error {
	switch {
	case isSpace(c):
		return &InvalidSequenceError{Kind: WhitespaceSymbol, Position: pos, Found: rune(c), Alphabet: alphabet.Name()}
	case alphabet.IsGap(c):
		if !allowGaps {
			return &InvalidSequenceError{Kind: GapSymbol, Position: pos, Found: rune(c), Alphabet: alphabet.Name()}
		}
	case !alphabet.Contains(c):
		return &InvalidSequenceError{Kind: InvalidSymbol, Position: pos, Found: rune(c), Alphabet: alphabet.Name()}
	}
	return nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
