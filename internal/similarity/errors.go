package similarity

import "fmt"

// MatrixError is the marker interface shared by similarity matrix errors.
type MatrixError interface {
	error
	IsMatrixError()
}

// FormatError reports malformed matrix text. Line is 1-based.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("similarity matrix format error at line %d: %s", e.Line, e.Reason)
}

func (e *FormatError) IsMatrixError() {}

// EmptyMatrixError is returned when matrix text has no header or no data rows.
type EmptyMatrixError struct {
	Reason string
}

func (e *EmptyMatrixError) Error() string {
	return fmt.Sprintf("similarity matrix is empty: %s", e.Reason)
}

func (e *EmptyMatrixError) IsMatrixError() {}

// InvalidAlphabetError is returned when a symbol has no entry in a matrix.
type InvalidAlphabetError struct {
	Symbol byte
	Matrix string
}

func (e *InvalidAlphabetError) Error() string {
	return fmt.Sprintf("symbol '%c' is not supported by similarity matrix %s", e.Symbol, e.Matrix)
}

func (e *InvalidAlphabetError) IsMatrixError() {}
