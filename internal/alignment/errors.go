package alignment

import (
	"errors"
	"fmt"
)

// AlignmentError is the marker interface shared by aligner errors.
type AlignmentError interface {
	error
	IsAlignmentError()
}

// ArgumentError reports a missing or unusable argument: a nil matrix, a nil
// or empty sequence, a bad list size or a DP grid that exceeds MaxCells.
type ArgumentError struct {
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Param, e.Reason)
}

func (e *ArgumentError) IsAlignmentError() {}

// ConfigurationError reports gap costs the aligner cannot use.
type ConfigurationError struct {
	Param  string
	Value  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Param, e.Value, e.Reason)
}

func (e *ConfigurationError) IsAlignmentError() {}

// Subjects of a NonMatchingAlphabetError.
const (
	SubjectInputs = "inputs"
	SubjectFirst  = "first"
	SubjectSecond = "second"
)

// NonMatchingAlphabetError reports that the two inputs use different
// alphabets, or that the similarity matrix cannot score a symbol of one of
// them.
type NonMatchingAlphabetError struct {
	Subject  string
	Position int
	Symbol   byte
	Matrix   string
	First    string
	Second   string
}

func (e *NonMatchingAlphabetError) Error() string {
	switch e.Subject {
	case SubjectInputs:
		return fmt.Sprintf("input sequences use different alphabets: %s and %s", e.First, e.Second)
	default:
		return fmt.Sprintf("similarity matrix %s does not support symbol '%c' at position %d of the %s sequence",
			e.Matrix, e.Symbol, e.Position, e.Subject)
	}
}

func (e *NonMatchingAlphabetError) IsAlignmentError() {}

// ErrReadOnly is returned by mutating calls on a read-only alignment.
var ErrReadOnly = errors.New("alignment is read-only")
