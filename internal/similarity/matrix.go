// Package similarity provides the symbol-pair scoring matrices used by the
// aligners: tables parsed from text, the match/mismatch Diagonal matrix and a
// couple of embedded standard matrices.
//
// Lookups are case-insensitive. Only upper-case labels are stored.
package similarity

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aria-lang/bioflow-align/internal/sequence"
)

// Matrix scores a pair of symbols.
type Matrix interface {
	// Score returns the similarity of a and b, or an *InvalidAlphabetError if
	// either symbol is not covered by the matrix.
	Score(a, b byte) (int, error)
	// Supports reports whether the symbol can be scored.
	Supports(symbol byte) bool
	Name() string
}

// Table is a square similarity matrix indexed by single-character labels.
type Table struct {
	name    string
	symbols []byte
	index   [256]int
	scores  []int
}

func newTable(name string, symbols []byte) *Table {
	t := &Table{name: name, symbols: symbols, scores: make([]int, len(symbols)*len(symbols))}
	for i := range t.index {
		t.index[i] = -1
	}
	for i, s := range symbols {
		t.index[s] = i
		t.index[toLower(s)] = i
	}
	return t
}

// Name returns the matrix name, "custom" when the text did not declare one.
func (t *Table) Name() string {
	return t.name
}

// Symbols returns the row/column labels in header order.
func (t *Table) Symbols() string {
	return string(t.symbols)
}

// Size returns the number of rows (and columns).
func (t *Table) Size() int {
	return len(t.symbols)
}

// Supports reports whether the symbol has a row in the table.
func (t *Table) Supports(symbol byte) bool {
	return t.index[symbol] >= 0
}

// Score looks up the (a, b) entry.
func (t *Table) Score(a, b byte) (int, error) {
	ia, ib := t.index[a], t.index[b]
	if ia < 0 {
		return 0, &InvalidAlphabetError{Symbol: a, Matrix: t.name}
	}
	if ib < 0 {
		return 0, &InvalidAlphabetError{Symbol: b, Matrix: t.name}
	}
	return t.scores[ia*len(t.symbols)+ib], nil
}

// IsSymmetric reports whether score(a, b) == score(b, a) for every pair.
// Parsing does not enforce symmetry.
func (t *Table) IsSymmetric() bool {
	n := len(t.symbols)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if t.scores[i*n+j] != t.scores[j*n+i] {
				return false
			}
		}
	}
	return true
}

// String renders the table back into the text format accepted by Parse.
func (t *Table) String() string {
	var sb strings.Builder
	n := len(t.symbols)
	fmt.Fprintf(&sb, "name: %s\n ", t.name)
	for _, s := range t.symbols {
		fmt.Fprintf(&sb, " %3c", s)
	}
	sb.WriteByte('\n')
	for i, s := range t.symbols {
		sb.WriteByte(s)
		for j := 0; j < n; j++ {
			fmt.Fprintf(&sb, " %3d", t.scores[i*n+j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Parse reads a similarity matrix in text form:
//
//	# comment
//	name: BLOSUM62
//	   A  R  N ...
//	A  4 -1 -2 ...
//	R -1  5  0 ...
//
// Blank lines and lines starting with '#' are skipped. Fields may be separated
// by whitespace or commas. The name line is optional.
func Parse(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	name := "custom"
	var header []byte
	var table *Table
	row := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if header == nil {
			if rest, ok := cutName(line); ok {
				name = rest
				continue
			}
			labels, err := parseHeader(line, lineNo)
			if err != nil {
				return nil, err
			}
			header = labels
			table = newTable(name, header)
			continue
		}

		fields := splitFields(line)
		if row >= len(header) {
			return nil, &FormatError{Line: lineNo,
				Reason: fmt.Sprintf("matrix is not square: more than %d rows for %d columns", len(header), len(header))}
		}
		if len(fields) == 0 {
			return nil, &FormatError{Line: lineNo, Reason: "row has no label"}
		}
		if len(fields[0]) != 1 {
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("row label %q must be a single character", fields[0])}
		}
		if label := toUpper(fields[0][0]); label != header[row] {
			return nil, &FormatError{Line: lineNo,
				Reason: fmt.Sprintf("row label '%c' does not match column label '%c'", label, header[row])}
		}
		if len(fields)-1 != len(header) {
			return nil, &FormatError{Line: lineNo,
				Reason: fmt.Sprintf("expected %d values, found %d", len(header), len(fields)-1)}
		}
		for j, f := range fields[1:] {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("non-numeric value %q", f)}
			}
			table.scores[row*len(header)+j] = v
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading similarity matrix: %w", err)
	}

	if header == nil {
		return nil, &EmptyMatrixError{Reason: "no header line"}
	}
	if row == 0 {
		return nil, &EmptyMatrixError{Reason: "no data rows"}
	}
	if row != len(header) {
		return nil, &FormatError{Line: lineNo,
			Reason: fmt.Sprintf("matrix is not square: %d rows for %d columns", row, len(header))}
	}

	return table, nil
}

// ParseString parses matrix text held in memory.
func ParseString(text string) (*Table, error) {
	return Parse(strings.NewReader(text))
}

// Load parses a matrix file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening similarity matrix: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func cutName(line string) (string, bool) {
	if len(line) < 5 || !strings.EqualFold(line[:5], "name:") {
		return "", false
	}
	return strings.TrimSpace(line[5:]), true
}

func parseHeader(line string, lineNo int) ([]byte, error) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return nil, &FormatError{Line: lineNo, Reason: "header has no column labels"}
	}
	labels := make([]byte, 0, len(fields))
	var seen [256]bool
	for _, f := range fields {
		if len(f) != 1 {
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("column label %q must be a single character", f)}
		}
		c := toUpper(f[0])
		if seen[c] {
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("duplicate column label '%c'", c)}
		}
		seen[c] = true
		labels = append(labels, c)
	}
	return labels, nil
}

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// ValidateSequence returns the index of the first symbol of s that m cannot
// score, and false. It returns -1 and true when every symbol is supported.
func ValidateSequence(m Matrix, s sequence.Seq) (int, bool) {
	for i := 0; i < s.Len(); i++ {
		if !m.Supports(s.At(i)) {
			return i, false
		}
	}
	return -1, true
}

func toUpper(c byte) byte {
	return sequence.Normalize(c)
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
